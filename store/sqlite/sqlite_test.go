package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
	"github.com/luisescardovelliTech/caixaBingoNicolas/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func twoSaleLedger() *register.Ledger {
	ledger := register.NewLedger()
	ledger.Append(register.Sale{
		Items: []register.LineItem{
			{ProductName: "Pastel", Quantity: 2, UnitPrice: decimal.NewFromInt(10)},
			{ProductName: "Cerveja", Quantity: 1, UnitPrice: decimal.NewFromInt(12)},
		},
		PaymentMethod:  register.PaymentPix,
		Total:          decimal.NewFromInt(32),
		AmountReceived: decimal.NewFromInt(32),
		Timestamp:      time.Date(2025, 6, 14, 19, 0, 0, 0, time.UTC),
	})
	ledger.Append(register.Sale{
		Items: []register.LineItem{
			{ProductName: "Pastel", Quantity: 1, UnitPrice: decimal.NewFromInt(10)},
		},
		PaymentMethod:  register.PaymentCash,
		Total:          decimal.NewFromInt(10),
		AmountReceived: decimal.NewFromInt(20),
		Change:         decimal.NewFromInt(10),
		Timestamp:      time.Date(2025, 6, 14, 19, 10, 0, 0, time.UTC),
	})
	return ledger
}

// =============================================================================
// CATALOG
// =============================================================================

func TestStore_LoadBeforeSave(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load(context.Background())
	assert.ErrorIs(t, err, sqlite.ErrNoCatalog)

	catalog := register.OpenCatalog(context.Background(), store, nil)
	assert.Equal(t, 3, catalog.Len())
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	catalog := register.OpenCatalog(ctx, store, nil)
	require.NoError(t, catalog.Upsert(ctx, "Quentão", decimal.RequireFromString("8.5")))
	require.NoError(t, catalog.Remove(ctx, "Refrigerante"))

	prices, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, prices, 3)
	assert.True(t, prices["Quentão"].Equal(decimal.RequireFromString("8.5")))
	_, ok := prices["Refrigerante"]
	assert.False(t, ok)
}

func TestStore_SaveEmptyCatalogLoadsEmpty(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, map[string]decimal.Decimal{}))

	prices, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

// =============================================================================
// SESSION ARCHIVE
// =============================================================================

func TestStore_ExportSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, store.ExportSession(ctx, id, twoSaleLedger(), time.Now()))

	sales, err := store.ArchivedSales(ctx, id)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, 1, sales[0].Ordinal)
	assert.Equal(t, register.PaymentPix, sales[0].PaymentMethod)
	assert.Equal(t, 2, sales[0].ItemCount)
	assert.True(t, sales[0].Total.Equal(decimal.NewFromInt(32)))
	assert.Equal(t, "2025-06-14T19:10:00", sales[1].SoldAt)
}

func TestStore_ReExportReplacesSession(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	id := uuid.New()
	ledger := twoSaleLedger()

	require.NoError(t, store.ExportSession(ctx, id, ledger, time.Now()))
	_, err := ledger.VoidSale(1)
	require.NoError(t, err)
	require.NoError(t, store.ExportSession(ctx, id, ledger, time.Now()))

	sales, err := store.ArchivedSales(ctx, id)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, register.PaymentCash, sales[0].PaymentMethod)
	assert.Equal(t, 1, sales[0].ItemCount)
}

func TestExportSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vendas.db")
	id := uuid.New()

	require.NoError(t, sqlite.ExportSessionFile(context.Background(), path, id, twoSaleLedger(), time.Now()))

	store, err := sqlite.New(path)
	require.NoError(t, err)
	defer store.Close()
	sales, err := store.ArchivedSales(context.Background(), id)
	require.NoError(t, err)
	assert.Len(t, sales, 2)
}
