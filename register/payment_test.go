package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

func TestChangeFor_NonCashIsExact(t *testing.T) {
	for _, m := range []register.PaymentMethod{register.PaymentDebitCard, register.PaymentCreditCard, register.PaymentPix} {
		p, err := register.ChangeFor(m, dec("30"), "1000")
		require.NoError(t, err, m)
		assert.Equal(t, m, p.Method)
		assertMoney(t, "30", p.AmountReceived)
		assertMoney(t, "0", p.Change)
	}
}

func TestChangeFor_CashComputesChange(t *testing.T) {
	p, err := register.ChangeFor(register.PaymentCash, dec("30"), "50,00")
	require.NoError(t, err)
	assertMoney(t, "50", p.AmountReceived)
	assertMoney(t, "20", p.Change)

	p, err = register.ChangeFor(register.PaymentCash, dec("30"), "R$ 30")
	require.NoError(t, err)
	assertMoney(t, "0", p.Change)
}

func TestChangeFor_CashInsufficient(t *testing.T) {
	_, err := register.ChangeFor(register.PaymentCash, dec("30"), "29,99")

	assert.ErrorIs(t, err, register.ErrInsufficientPayment)
	var ipe *register.InsufficientPaymentError
	require.ErrorAs(t, err, &ipe)
	assertMoney(t, "0.01", ipe.Shortfall)
	assertMoney(t, "29.99", ipe.Received)
}

func TestChangeFor_CashEmptyInputIsZeroReceived(t *testing.T) {
	_, err := register.ChangeFor(register.PaymentCash, dec("10"), "")
	assert.ErrorIs(t, err, register.ErrInsufficientPayment)
}

func TestChangeFor_CashUnparsableIsInvalidInput(t *testing.T) {
	_, err := register.ChangeFor(register.PaymentCash, dec("10"), "cinquenta")
	assert.ErrorIs(t, err, register.ErrInvalidInput)
	assert.True(t, register.IsClientError(err))
}

func TestChangeFor_UnknownMethod(t *testing.T) {
	_, err := register.ChangeFor(register.PaymentMethod("cheque"), dec("10"), "10")
	assert.ErrorIs(t, err, register.ErrInvalidInput)
}
