/*
Package register provides the sales session engine of the stall till.

PURPOSE:
  This package holds the catalog, the open cart, the payment calculator and
  the session ledger of finalized sales. Presentation (HTTP, reports) and
  persistence (JSON, SQLite) live in other packages and talk to this one
  through plain values and the CatalogStore interface.

KEY CONCEPTS IN THIS FILE (types.go):
  - PaymentMethod: Cash, DebitCard, CreditCard, Pix (fixed domain)
  - Product: catalog entry (name, unit price)
  - LineItem: cart/sale entry with the unit price captured at add time
  - Sale: immutable record of a finalized cart

DESIGN PRINCIPLES:
  1. Snapshot prices: a LineItem stores its price by value, the catalog is
     never consulted again once the item is in a cart
  2. Precision: money is decimal.Decimal, never float64
  3. Derived aggregates: totals are recomputed from sales on every call

SEE ALSO:
  - catalog.go: name -> price registry
  - cart.go: sale under construction
  - payment.go: change computation
  - ledger.go: finalized sales and aggregates
*/
package register

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PAYMENT METHOD - Fixed domain of four variants
// =============================================================================

type PaymentMethod string

const (
	PaymentCash       PaymentMethod = "cash"
	PaymentDebitCard  PaymentMethod = "debit_card"
	PaymentCreditCard PaymentMethod = "credit_card"
	PaymentPix        PaymentMethod = "pix"
)

// PaymentMethods lists every variant in report order.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentDebitCard, PaymentCreditCard, PaymentPix}

// Label is the name printed on screens and reports.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Dinheiro"
	case PaymentDebitCard:
		return "Débito"
	case PaymentCreditCard:
		return "Crédito"
	case PaymentPix:
		return "Pix"
	default:
		return string(m)
	}
}

func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if m == v {
			return true
		}
	}
	return false
}

// ParsePaymentMethod accepts a code ("debit_card") or a label ("Débito"),
// case-insensitively.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	s = strings.TrimSpace(s)
	for _, m := range PaymentMethods {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, m.Label()) {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: unknown payment method %q", ErrInvalidInput, s)
}

// =============================================================================
// PRODUCT / LINE ITEM
// =============================================================================

type Product struct {
	Name      string
	UnitPrice decimal.Decimal
}

// LineItem is one row of a cart or a sale. UnitPrice is the catalog price at
// the moment the row was added.
type LineItem struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// =============================================================================
// SALE - Immutable once appended to the ledger
// =============================================================================

type Sale struct {
	Items          []LineItem
	PaymentMethod  PaymentMethod
	Total          decimal.Decimal
	AmountReceived decimal.Decimal
	Change         decimal.Decimal
	Timestamp      time.Time
}

// clone returns a copy that shares no backing array with s.
func (s Sale) clone() Sale {
	s.Items = append([]LineItem(nil), s.Items...)
	return s
}

// ItemsSummary renders "Pastel (x2), Cerveja (x1)" for history listings.
func (s Sale) ItemsSummary() string {
	parts := make([]string, len(s.Items))
	for i, li := range s.Items {
		parts[i] = fmt.Sprintf("%s (x%d)", li.ProductName, li.Quantity)
	}
	return strings.Join(parts, ", ")
}

func sumSubtotals(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, li := range items {
		total = total.Add(li.Subtotal())
	}
	return total
}
