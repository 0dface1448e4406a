/*
store.go - Persistence interface for the catalog

PURPOSE:
  The catalog is read once at startup and rewritten after every mutation.
  The engine does not know where it lives; a CatalogStore does.

CONTRACT:
  - Load returns the stored name -> price mapping. Any error (missing source,
    malformed document, non-positive price) makes the catalog fall back to
    DefaultPrices; Load never needs to apply the fallback itself.
  - Save replaces the whole stored mapping. It must be all-or-nothing: a
    failed Save leaves the previous document readable.

IMPLEMENTATIONS:
  - store/jsonfile: JSON document (list of records or flat map)
  - store/sqlite:   products table
  - register/store: in-memory, for tests
*/
package register

import (
	"context"

	"github.com/shopspring/decimal"
)

// CatalogStore handles persistence of the product catalog.
type CatalogStore interface {
	// Load returns the persisted catalog.
	Load(ctx context.Context) (map[string]decimal.Decimal, error)

	// Save replaces the persisted catalog atomically.
	Save(ctx context.Context, prices map[string]decimal.Decimal) error
}

// DefaultPrices is the built-in catalog used whenever the store cannot be
// read.
func DefaultPrices() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"Pastel":       decimal.NewFromInt(10),
		"Refrigerante": decimal.NewFromInt(6),
		"Cerveja":      decimal.NewFromInt(12),
	}
}
