package register

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Till wires the three collaborators of one stall session. It owns no state
// of its own besides the session id and the unsaved-sales flag; each part
// stays usable on its own.
type Till struct {
	ID      uuid.UUID
	Catalog *Catalog
	Cart    *Cart
	Ledger  *Ledger

	dirty    bool
	revision uint64
	log      *zap.Logger
}

func NewTill(catalog *Catalog, ledger *Ledger, log *zap.Logger) *Till {
	if log == nil {
		log = zap.NewNop()
	}
	return &Till{
		ID:      uuid.New(),
		Catalog: catalog,
		Cart:    NewCart(catalog),
		Ledger:  ledger,
		log:     log,
	}
}

// AddToCart adds quantity units of a catalog product to the open cart.
func (t *Till) AddToCart(productName string, quantity int) (LineItem, error) {
	return t.Cart.AddItem(productName, quantity)
}

// RemoveFromCart removes the cart row at the 1-based position shown to the
// operator.
func (t *Till) RemoveFromCart(position int) (LineItem, error) {
	return t.Cart.RemoveAt(position - 1)
}

func (t *Till) ClearCart() { t.Cart.Clear() }

// PreviewChange runs the payment calculator against the open cart without
// committing anything.
func (t *Till) PreviewChange(method PaymentMethod, amountReceived string) (Payment, error) {
	return ChangeFor(method, t.Cart.Total(), amountReceived)
}

// Checkout finalizes the cart and clears it on success.
func (t *Till) Checkout(method PaymentMethod, amountReceived string) (Sale, error) {
	sale, err := t.Ledger.Finalize(t.Cart, method, amountReceived)
	if err != nil {
		return Sale{}, err
	}
	t.Cart.Clear()
	t.dirty = true
	t.revision++
	t.log.Info("sale finalized",
		zap.Int("ordinal", t.Ledger.SaleCount()),
		zap.String("method", string(sale.PaymentMethod)),
		zap.String("total", sale.Total.StringFixed(2)),
		zap.String("change", sale.Change.StringFixed(2)))
	return sale, nil
}

// VoidSale removes a finalized sale by its current ordinal.
func (t *Till) VoidSale(ordinal int) (Sale, error) {
	sale, err := t.Ledger.VoidSale(ordinal)
	if err != nil {
		return Sale{}, err
	}
	t.dirty = true
	t.revision++
	t.log.Info("sale voided",
		zap.Int("ordinal", ordinal),
		zap.String("total", sale.Total.StringFixed(2)))
	return sale, nil
}

// RenameProduct edits a catalog entry. Cart rows keep their captured name and
// price.
func (t *Till) RenameProduct(ctx context.Context, oldName, newName string, price decimal.Decimal) error {
	return t.Catalog.Rename(ctx, oldName, newName, price)
}

// HasUnsavedSales reports whether the ledger changed since MarkSaved.
func (t *Till) HasUnsavedSales() bool { return t.dirty }

// MarkSaved is called after a successful session export.
func (t *Till) MarkSaved() { t.dirty = false }

// Revision increases on every ledger change and never resets.
func (t *Till) Revision() uint64 { return t.revision }

func (t *Till) Summary() Summary { return t.Ledger.Summary() }

// =============================================================================
// HISTORY - Operator view of the ledger
// =============================================================================

// HistoryEntry is one row of the sale history list.
type HistoryEntry struct {
	Ordinal       int
	Time          string // HH:MM:SS
	Items         string // "Pastel (x2), Cerveja (x1)"
	PaymentMethod PaymentMethod
	Total         decimal.Decimal
}

// History lists the ledger in insertion order. Ordinals are only valid until
// the next void.
func (t *Till) History() []HistoryEntry {
	sales := t.Ledger.Sales()
	out := make([]HistoryEntry, len(sales))
	for i, s := range sales {
		out[i] = HistoryEntry{
			Ordinal:       i + 1,
			Time:          s.Timestamp.Format("15:04:05"),
			Items:         s.ItemsSummary(),
			PaymentMethod: s.PaymentMethod,
			Total:         s.Total,
		}
	}
	return out
}
