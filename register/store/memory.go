// Package store provides in-process CatalogStore implementations.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
)

// ErrNoCatalog is returned by Load before anything was saved.
var ErrNoCatalog = errors.New("no catalog saved")

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	prices map[string]decimal.Decimal
	saves  int

	// FailSave, when set, is returned by every Save.
	FailSave error
}

// NewMemory returns an empty store; Load fails until the first Save.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryWith returns a store preloaded with prices.
func NewMemoryWith(prices map[string]decimal.Decimal) *Memory {
	return &Memory{prices: copyPrices(prices)}
}

func (m *Memory) Load(_ context.Context) (map[string]decimal.Decimal, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.prices == nil {
		return nil, ErrNoCatalog
	}
	return copyPrices(m.prices), nil
}

func (m *Memory) Save(_ context.Context, prices map[string]decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.prices = copyPrices(prices)
	m.saves++
	return nil
}

// Saves counts successful Save calls.
func (m *Memory) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

func copyPrices(prices map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(prices))
	for k, v := range prices {
		out[k] = v
	}
	return out
}
