/*
ledger.go - Finalized sales of the running session

PURPOSE:
  The Ledger is the ordered list of sales rung up since the till started.
  Every total shown to the operator is computed from this list on demand.
  There is no running counter that could drift after a void.

INVARIANTS:
  1. A Sale is never modified after Finalize appends it.
  2. Sales are addressed by ordinal (1-based display position). Ordinals are
     positions, not identifiers: after VoidSale every later sale moves up by
     one, and callers must re-read the list before addressing another sale.
  3. Aggregates are pure functions of the current sale list.

LIFECYCLE:
  In memory for the life of the process. Export (store/jsonfile,
  store/sqlite) writes a copy; there is no import.

SEE ALSO:
  - payment.go: ChangeFor, shared with the live preview
  - till.go: clears the cart after a successful Finalize
*/
package register

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// LEDGER - Ordered, ordinal-addressed sale list
// =============================================================================

type Ledger struct {
	sales []Sale
	now   func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{now: time.Now}
}

// NewLedgerWithClock stamps sales using now instead of the wall clock.
func NewLedgerWithClock(now func() time.Time) *Ledger {
	return &Ledger{now: now}
}

// Finalize turns the cart contents into a Sale and appends it. The cart is
// only read; on success the caller is expected to clear it. On failure
// nothing is appended and the cart is left for correction.
func (l *Ledger) Finalize(cart *Cart, method PaymentMethod, amountReceived string) (Sale, error) {
	if cart.IsEmpty() {
		return Sale{}, ErrEmptyCart
	}
	total := cart.Total()
	payment, err := ChangeFor(method, total, amountReceived)
	if err != nil {
		return Sale{}, err
	}

	sale := Sale{
		Items:          cart.Items(),
		PaymentMethod:  payment.Method,
		Total:          total,
		AmountReceived: payment.AmountReceived,
		Change:         payment.Change,
		Timestamp:      l.now().Truncate(time.Second),
	}
	l.sales = append(l.sales, sale)
	return sale.clone(), nil
}

// Append records an already-built sale, e.g. when replaying fixtures.
func (l *Ledger) Append(sale Sale) {
	l.sales = append(l.sales, sale.clone())
}

// VoidSale removes the sale at the 1-based ordinal and returns it.
func (l *Ledger) VoidSale(ordinal int) (Sale, error) {
	if ordinal < 1 || ordinal > len(l.sales) {
		return Sale{}, &OutOfRangeError{What: "sale", Position: ordinal, Len: len(l.sales)}
	}
	i := ordinal - 1
	removed := l.sales[i]
	l.sales = append(l.sales[:i:i], l.sales[i+1:]...)
	return removed, nil
}

// Sale returns the sale at the 1-based ordinal.
func (l *Ledger) Sale(ordinal int) (Sale, error) {
	if ordinal < 1 || ordinal > len(l.sales) {
		return Sale{}, &OutOfRangeError{What: "sale", Position: ordinal, Len: len(l.sales)}
	}
	return l.sales[ordinal-1].clone(), nil
}

// Sales returns every sale in insertion order.
func (l *Ledger) Sales() []Sale {
	out := make([]Sale, len(l.sales))
	for i, s := range l.sales {
		out[i] = s.clone()
	}
	return out
}

// =============================================================================
// AGGREGATES - Derived on every call
// =============================================================================

// AggregateByProduct sums quantities per product over every line item.
// Products with no sales are absent.
func (l *Ledger) AggregateByProduct() map[string]int {
	qty := make(map[string]int)
	for _, s := range l.sales {
		for _, li := range s.Items {
			qty[li.ProductName] += li.Quantity
		}
	}
	return qty
}

// AggregateByPaymentMethod sums sale totals per method. All four methods are
// always present.
func (l *Ledger) AggregateByPaymentMethod() map[PaymentMethod]decimal.Decimal {
	totals := make(map[PaymentMethod]decimal.Decimal, len(PaymentMethods))
	for _, m := range PaymentMethods {
		totals[m] = decimal.Zero
	}
	for _, s := range l.sales {
		totals[s.PaymentMethod] = totals[s.PaymentMethod].Add(s.Total)
	}
	return totals
}

func (l *Ledger) GrandTotal() decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.sales {
		total = total.Add(s.Total)
	}
	return total
}

func (l *Ledger) SaleCount() int {
	return len(l.sales)
}

// AverageTicket is GrandTotal / SaleCount, or zero with no sales.
func (l *Ledger) AverageTicket() decimal.Decimal {
	if len(l.sales) == 0 {
		return decimal.Zero
	}
	return l.GrandTotal().Div(decimal.NewFromInt(int64(len(l.sales))))
}

// =============================================================================
// SUMMARY - Snapshot of all aggregates at once
// =============================================================================

type Summary struct {
	SaleCount       int
	GrandTotal      decimal.Decimal
	AverageTicket   decimal.Decimal
	ByProduct       map[string]int
	ByPaymentMethod map[PaymentMethod]decimal.Decimal
}

func (l *Ledger) Summary() Summary {
	return Summary{
		SaleCount:       l.SaleCount(),
		GrandTotal:      l.GrandTotal(),
		AverageTicket:   l.AverageTicket(),
		ByProduct:       l.AggregateByProduct(),
		ByPaymentMethod: l.AggregateByPaymentMethod(),
	}
}
