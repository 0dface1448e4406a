package register_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
	"github.com/luisescardovelliTech/caixaBingoNicolas/register/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// assertMoney compares decimals by value, ignoring exponent.
func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.Truef(t, got.Equal(dec(want)), "expected %s, got %s %v", want, got.String(), msgAndArgs)
}

func newTestCatalog(t *testing.T, prices map[string]string) (*register.Catalog, *store.Memory) {
	t.Helper()
	m := make(map[string]decimal.Decimal, len(prices))
	for name, p := range prices {
		m[name] = dec(p)
	}
	mem := store.NewMemoryWith(m)
	return register.OpenCatalog(context.Background(), mem, nil), mem
}

func fixedClock() func() time.Time {
	at := time.Date(2025, time.June, 14, 18, 30, 0, 0, time.UTC)
	return func() time.Time {
		at = at.Add(time.Minute)
		return at
	}
}

func pastelTill(t *testing.T) *register.Till {
	t.Helper()
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10.0"})
	return register.NewTill(catalog, register.NewLedgerWithClock(fixedClock()), nil)
}

func mustAdd(t *testing.T, cart *register.Cart, name string, qty int) {
	t.Helper()
	_, err := cart.AddItem(name, qty)
	require.NoError(t, err)
}
