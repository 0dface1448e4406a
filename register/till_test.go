package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

func TestTill_CheckoutClearsCart(t *testing.T) {
	till := pastelTill(t)
	mustAdd(t, till.Cart, "Pastel", 3)

	preview, err := till.PreviewChange(register.PaymentCash, "50,00")
	require.NoError(t, err)
	assertMoney(t, "20", preview.Change)
	assert.Equal(t, 1, till.Cart.Len(), "preview must not touch the cart")
	assert.False(t, till.HasUnsavedSales())

	s, err := till.Checkout(register.PaymentCash, "50,00")
	require.NoError(t, err)
	assertMoney(t, "30", s.Total)
	assertMoney(t, "50", s.AmountReceived)
	assertMoney(t, "20", s.Change)
	assert.True(t, till.Cart.IsEmpty())
	assert.True(t, till.HasUnsavedSales())
}

func TestTill_CheckoutFailureKeepsCart(t *testing.T) {
	till := pastelTill(t)
	mustAdd(t, till.Cart, "Pastel", 3)

	_, err := till.Checkout(register.PaymentCash, "10")

	assert.ErrorIs(t, err, register.ErrInsufficientPayment)
	assert.Equal(t, 1, till.Cart.Len())
	assert.Equal(t, 0, till.Ledger.SaleCount())
	assert.False(t, till.HasUnsavedSales())
}

func TestTill_VoidMarksUnsaved(t *testing.T) {
	till := pastelTill(t)
	mustAdd(t, till.Cart, "Pastel", 1)
	_, err := till.Checkout(register.PaymentPix, "")
	require.NoError(t, err)
	till.MarkSaved()

	_, err = till.VoidSale(2)
	assert.ErrorIs(t, err, register.ErrOutOfRange)
	assert.False(t, till.HasUnsavedSales())

	_, err = till.VoidSale(1)
	require.NoError(t, err)
	assert.True(t, till.HasUnsavedSales())
	assert.Equal(t, 0, till.Ledger.SaleCount())
}

func TestTill_CartByPosition(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10", "Cerveja": "12"})
	till := register.NewTill(catalog, register.NewLedgerWithClock(fixedClock()), nil)

	_, err := till.AddToCart("Pastel", 2)
	require.NoError(t, err)
	_, err = till.AddToCart("Cerveja", 1)
	require.NoError(t, err)

	removed, err := till.RemoveFromCart(1)
	require.NoError(t, err)
	assert.Equal(t, "Pastel", removed.ProductName)
	assertMoney(t, "12", till.Cart.Total())

	_, err = till.RemoveFromCart(0)
	assert.ErrorIs(t, err, register.ErrOutOfRange)

	till.ClearCart()
	assert.True(t, till.Cart.IsEmpty())
}

func TestTill_History(t *testing.T) {
	catalog, _ := newTestCatalog(t, map[string]string{"Pastel": "10", "Cerveja": "12"})
	till := register.NewTill(catalog, register.NewLedgerWithClock(fixedClock()), nil)

	mustAdd(t, till.Cart, "Pastel", 2)
	mustAdd(t, till.Cart, "Cerveja", 1)
	_, err := till.Checkout(register.PaymentDebitCard, "")
	require.NoError(t, err)

	history := till.History()
	require.Len(t, history, 1)
	assert.Equal(t, 1, history[0].Ordinal)
	assert.Equal(t, "18:31:00", history[0].Time)
	assert.Equal(t, "Pastel (x2), Cerveja (x1)", history[0].Items)
	assert.Equal(t, register.PaymentDebitCard, history[0].PaymentMethod)
	assertMoney(t, "32", history[0].Total)

	s := till.Summary()
	assert.Equal(t, 1, s.SaleCount)
	assert.Equal(t, 2, s.ByProduct["Pastel"])
}

func TestTill_RevisionFollowsLedgerChanges(t *testing.T) {
	till := pastelTill(t)
	assert.Zero(t, till.Revision())

	mustAdd(t, till.Cart, "Pastel", 1)
	_, err := till.Checkout(register.PaymentPix, "")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), till.Revision())

	_, err = till.Checkout(register.PaymentPix, "")
	assert.ErrorIs(t, err, register.ErrEmptyCart)
	assert.Equal(t, uint64(1), till.Revision())

	till.MarkSaved()
	_, err = till.VoidSale(1)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), till.Revision())
}
