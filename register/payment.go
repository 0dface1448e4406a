package register

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Payment is the outcome of ChangeFor.
type Payment struct {
	Method         PaymentMethod
	AmountReceived decimal.Decimal
	Change         decimal.Decimal
}

// ChangeFor computes what was received and what goes back to the customer.
//
// Card and Pix payments are always exact: received = total, change = 0, and
// the typed amount is ignored. Cash parses amountReceived and requires it to
// cover the total. Empty input counts as zero received; non-empty text that
// is not a number is ErrInvalidInput.
//
// Both the live preview and Finalize go through this function.
func ChangeFor(method PaymentMethod, total decimal.Decimal, amountReceived string) (Payment, error) {
	if !method.Valid() {
		return Payment{}, invalidInput("unknown payment method %q", method)
	}
	if method != PaymentCash {
		return Payment{Method: method, AmountReceived: total, Change: decimal.Zero}, nil
	}

	received, ok := parseAmount(amountReceived)
	if !ok && strings.TrimSpace(amountReceived) != "" {
		return Payment{}, invalidInput("amount received %q is not a number", amountReceived)
	}
	if received.LessThan(total) {
		return Payment{}, &InsufficientPaymentError{
			Total:     total,
			Received:  received,
			Shortfall: total.Sub(received),
		}
	}
	return Payment{
		Method:         method,
		AmountReceived: received,
		Change:         decimal.Max(decimal.Zero, received.Sub(total)),
	}, nil
}
