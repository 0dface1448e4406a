package register_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

func TestCart_TotalIsSumOfSubtotals(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10", "Refrigerante": "6", "Cerveja": "12.5"})
	cart := register.NewCart(catalog)

	assertMoney(t, "0", cart.Total())

	mustAdd(t, cart, "Pastel", 3)
	mustAdd(t, cart, "Refrigerante", 2)
	mustAdd(t, cart, "Cerveja", 1)

	assertMoney(t, "54.5", cart.Total())
	items := cart.Items()
	require.Len(t, items, 3)
	assertMoney(t, "30", items[0].Subtotal())
	assertMoney(t, "12", items[1].Subtotal())
}

func TestCart_AddThenRemoveRestoresTotal(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10", "Cerveja": "12"})
	cart := register.NewCart(catalog)
	mustAdd(t, cart, "Pastel", 1)
	before := cart.Total()

	mustAdd(t, cart, "Cerveja", 4)
	_, err := cart.RemoveAt(cart.Len() - 1)
	require.NoError(t, err)

	assert.True(t, before.Equal(cart.Total()))
	assert.Equal(t, 1, cart.Len())
}

func TestCart_AddItemErrors(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10"})
	cart := register.NewCart(catalog)

	_, err := cart.AddItem("Pipoca", 1)
	assert.ErrorIs(t, err, register.ErrNotFound)

	_, err = cart.AddItem("Pastel", 0)
	assert.ErrorIs(t, err, register.ErrInvalidInput)

	_, err = cart.AddItem("Pastel", -2)
	assert.ErrorIs(t, err, register.ErrInvalidInput)

	assert.True(t, cart.IsEmpty())
}

func TestCart_RemoveAtOutOfRange(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10"})
	cart := register.NewCart(catalog)
	mustAdd(t, cart, "Pastel", 1)

	_, err := cart.RemoveAt(1)
	assert.ErrorIs(t, err, register.ErrOutOfRange)
	_, err = cart.RemoveAt(-1)
	assert.ErrorIs(t, err, register.ErrOutOfRange)

	var oor *register.OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, 1, oor.Len)
	assert.Equal(t, 1, cart.Len())
}

func TestCart_RemoveAtKeepsOrder(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{"A": "1", "B": "2", "C": "3"})
	cart := register.NewCart(catalog)
	mustAdd(t, cart, "A", 1)
	mustAdd(t, cart, "B", 1)
	mustAdd(t, cart, "C", 1)

	removed, err := cart.RemoveAt(1)
	require.NoError(t, err)
	assert.Equal(t, "B", removed.ProductName)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].ProductName)
	assert.Equal(t, "C", items[1].ProductName)
}

func TestCart_PriceSnapshotSurvivesCatalogChange(t *testing.T) {
	// GIVEN: Pastel added at 10
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10"})
	cart := register.NewCart(catalog)
	mustAdd(t, cart, "Pastel", 2)

	// WHEN: The catalog price changes and the product is renamed
	require.NoError(t, catalog.Upsert(context.Background(), "Pastel", dec("15")))
	require.NoError(t, catalog.Rename(context.Background(), "Pastel", "Pastel grande", dec("20")))

	// THEN: The cart row keeps the captured name and price
	items := cart.Items()
	assert.Equal(t, "Pastel", items[0].ProductName)
	assertMoney(t, "10", items[0].UnitPrice)
	assertMoney(t, "20", cart.Total())
}

func TestCart_Clear(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10"})
	cart := register.NewCart(catalog)
	mustAdd(t, cart, "Pastel", 2)

	cart.Clear()
	assert.True(t, cart.IsEmpty())
	assertMoney(t, "0", cart.Total())
	cart.Clear()
	assert.True(t, cart.IsEmpty())
}
