package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"50", "50"},
		{"50,00", "50"},
		{"50.5", "50.5"},
		{"R$ 12,50", "12.5"},
		{"r$12,5", "12.5"},
		{"R$ 1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1.234.567", "1234567"},
		{"1,234,567", "1234567"},
		{" 7 ", "7"},
		{"", "0"},
		{"abc", "0"},
		{"12,5,x", "0"},
		{"1e3", "0"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assertMoney(t, tc.want, register.ParseAmount(tc.in))
		})
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "R$ 0,00", register.FormatMoney(dec("0")))
	assert.Equal(t, "R$ 30,00", register.FormatMoney(dec("30")))
	assert.Equal(t, "R$ 12,50", register.FormatMoney(dec("12.5")))
	assert.Equal(t, "R$ 3,33", register.FormatMoney(dec("3.333333")))
	assert.Equal(t, "R$ 1234,56", register.FormatMoney(dec("1234.56")))
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := register.ParsePaymentMethod("Dinheiro")
	assert.NoError(t, err)
	assert.Equal(t, register.PaymentCash, m)

	m, err = register.ParsePaymentMethod("debit_card")
	assert.NoError(t, err)
	assert.Equal(t, register.PaymentDebitCard, m)

	m, err = register.ParsePaymentMethod("PIX")
	assert.NoError(t, err)
	assert.Equal(t, register.PaymentPix, m)

	_, err = register.ParsePaymentMethod("cheque")
	assert.ErrorIs(t, err, register.ErrInvalidInput)
}
