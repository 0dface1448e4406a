package report

import (
	"fmt"
	"sort"
	"time"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

const noSalesPlaceholder = "  (nenhuma venda)"

// Options carries values that are not part of the ledger.
type Options struct {
	GeneratedAt time.Time
	SessionID   string // printed in the header when set
}

type line struct {
	text  string
	style Style
}

type block []line

// Render writes, in order: header, summary, sales per product (by name),
// sales per payment method (fixed order), and the detailed sale log in
// insertion order. Catalog may be nil; when given, products sold but no
// longer in it are flagged.
func Render(ledger *register.Ledger, catalog *register.Catalog, w DocumentWriter, opts Options) error {
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}
	r := &renderer{w: w}

	r.emit(headerBlock(opts))
	r.emit(summaryBlock(ledger))
	r.emit(productBlock(ledger, catalog))
	r.emit(paymentBlock(ledger))

	// The heading travels with the first sale so it never ends a page.
	logHead := block{{"", StyleGap}, {"Vendas detalhadas:", StyleHeading}}
	sales := ledger.Sales()
	if len(sales) == 0 {
		r.emit(append(logHead, line{noSalesPlaceholder, StyleBody}))
	}
	for i, s := range sales {
		b := saleBlock(i+1, s)
		if i == 0 {
			b = append(logHead, b...)
		}
		r.emit(b)
	}
	return r.err
}

// RenderSummary writes only the aggregate sections: the summary, sales per
// product and sales per payment method.
func RenderSummary(ledger *register.Ledger, catalog *register.Catalog, w DocumentWriter) error {
	r := &renderer{w: w}
	r.emit(summaryBlock(ledger))
	r.emit(productBlock(ledger, catalog))
	r.emit(paymentBlock(ledger))
	return r.err
}

// =============================================================================
// BLOCKS
// =============================================================================

func headerBlock(opts Options) block {
	b := block{
		{"Relatório de Vendas - Quermesse", StyleTitle},
		{"Gerado em: " + opts.GeneratedAt.Format("02/01/2006 15:04"), StyleBody},
	}
	if opts.SessionID != "" {
		b = append(b, line{"Sessão: " + opts.SessionID, StyleBody})
	}
	return b
}

func summaryBlock(ledger *register.Ledger) block {
	return block{
		{fmt.Sprintf("Vendas: %d", ledger.SaleCount()), StyleBody},
		{"Total arrecadado: " + register.FormatMoney(ledger.GrandTotal()), StyleBody},
		{"Ticket médio: " + register.FormatMoney(ledger.AverageTicket()), StyleBody},
	}
}

func productBlock(ledger *register.Ledger, catalog *register.Catalog) block {
	b := block{{"", StyleGap}, {"Vendido por produto:", StyleHeading}}
	qty := ledger.AggregateByProduct()
	if len(qty) == 0 {
		return append(b, line{noSalesPlaceholder, StyleBody})
	}

	names := make([]string, 0, len(qty))
	for name := range qty {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		text := fmt.Sprintf("  - %s: %d un.", name, qty[name])
		if catalog != nil {
			if _, err := catalog.Price(name); err != nil {
				text += " (fora do catálogo)"
			}
		}
		b = append(b, line{text, StyleBody})
	}
	return b
}

func paymentBlock(ledger *register.Ledger) block {
	b := block{{"", StyleGap}, {"Por forma de pagamento:", StyleHeading}}
	if ledger.SaleCount() == 0 {
		return append(b, line{noSalesPlaceholder, StyleBody})
	}
	totals := ledger.AggregateByPaymentMethod()
	for _, m := range register.PaymentMethods {
		b = append(b, line{fmt.Sprintf("  - %s: %s", m.Label(), register.FormatMoney(totals[m])), StyleBody})
	}
	return b
}

func saleBlock(ordinal int, s register.Sale) block {
	b := block{{
		fmt.Sprintf("Venda #%d - %s - %s - Total %s",
			ordinal, s.Timestamp.Format("2006-01-02T15:04:05"), s.PaymentMethod.Label(), register.FormatMoney(s.Total)),
		StyleEmphasis,
	}}
	for _, li := range s.Items {
		b = append(b, line{
			fmt.Sprintf("   • %s x%d @ %s = %s",
				li.ProductName, li.Quantity, register.FormatMoney(li.UnitPrice), register.FormatMoney(li.Subtotal())),
			StyleBody,
		})
	}
	if s.PaymentMethod == register.PaymentCash {
		b = append(b, line{
			fmt.Sprintf("     Recebido: %s | Troco: %s", register.FormatMoney(s.AmountReceived), register.FormatMoney(s.Change)),
			StyleBody,
		})
	}
	return append(b, line{"", StyleGap})
}

// =============================================================================
// RENDERER - Page breaking
// =============================================================================

type renderer struct {
	w   DocumentWriter
	err error
}

// emit keeps a block on one page when it fits on one; longer blocks break
// between lines.
func (r *renderer) emit(b block) {
	if r.err != nil {
		return
	}
	height := 0.0
	for _, l := range b {
		height += r.w.LineHeight(l.style)
	}
	atTop := r.w.Remaining() >= r.w.PageCapacity()
	if height > r.w.Remaining() && height <= r.w.PageCapacity() && !atTop {
		if r.err = r.w.NewPage(); r.err != nil {
			return
		}
	}
	for _, l := range b {
		if r.w.LineHeight(l.style) > r.w.Remaining() {
			if l.style == StyleGap {
				continue
			}
			if r.err = r.w.NewPage(); r.err != nil {
				return
			}
		}
		if r.err = r.w.Write(l.text, l.style); r.err != nil {
			return
		}
	}
}
