package jsonfile

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

// SessionDocument is the exported shape of a session. There is no import
// path; the document is for people and spreadsheets.
type SessionDocument struct {
	SessionID  string        `json:"session_id"`
	ExportedAt string        `json:"exported_at"`
	Sales      []SaleRecord  `json:"sales"`
	Totals     SessionTotals `json:"totals"`
}

type SaleRecord struct {
	Ordinal        int          `json:"ordinal"`
	Timestamp      string       `json:"timestamp"`
	PaymentMethod  string       `json:"payment_method"`
	Total          json.Number  `json:"total"`
	AmountReceived json.Number  `json:"amount_received"`
	Change         json.Number  `json:"change"`
	Items          []ItemRecord `json:"items"`
}

type ItemRecord struct {
	Product   string      `json:"product"`
	Quantity  int         `json:"quantity"`
	UnitPrice json.Number `json:"unit_price"`
	Subtotal  json.Number `json:"subtotal"`
}

type SessionTotals struct {
	SaleCount     int         `json:"sale_count"`
	GrandTotal    json.Number `json:"grand_total"`
	AverageTicket json.Number `json:"average_ticket"`
}

// NewSessionDocument copies the ledger into its export shape.
func NewSessionDocument(sessionID uuid.UUID, ledger *register.Ledger, exportedAt time.Time) SessionDocument {
	sales := ledger.Sales()
	doc := SessionDocument{
		SessionID:  sessionID.String(),
		ExportedAt: exportedAt.Format(time.RFC3339),
		Sales:      make([]SaleRecord, len(sales)),
		Totals: SessionTotals{
			SaleCount:     ledger.SaleCount(),
			GrandTotal:    json.Number(ledger.GrandTotal().StringFixed(2)),
			AverageTicket: json.Number(ledger.AverageTicket().StringFixed(2)),
		},
	}
	for i, s := range sales {
		rec := SaleRecord{
			Ordinal:        i + 1,
			Timestamp:      s.Timestamp.Format("2006-01-02T15:04:05"),
			PaymentMethod:  string(s.PaymentMethod),
			Total:          json.Number(s.Total.StringFixed(2)),
			AmountReceived: json.Number(s.AmountReceived.StringFixed(2)),
			Change:         json.Number(s.Change.StringFixed(2)),
			Items:          make([]ItemRecord, len(s.Items)),
		}
		for j, li := range s.Items {
			rec.Items[j] = ItemRecord{
				Product:   li.ProductName,
				Quantity:  li.Quantity,
				UnitPrice: json.Number(li.UnitPrice.StringFixed(2)),
				Subtotal:  json.Number(li.Subtotal().StringFixed(2)),
			}
		}
		doc.Sales[i] = rec
	}
	return doc
}

// ExportSession writes the ledger to path as indented JSON.
func ExportSession(path string, sessionID uuid.UUID, ledger *register.Ledger, exportedAt time.Time) error {
	data, err := json.MarshalIndent(NewSessionDocument(sessionID, ledger, exportedAt), "", "    ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// SuggestedFilename is the default name offered for a session export.
func SuggestedFilename(now time.Time) string {
	return "vendas_" + now.Format("2006-01-02_15-04") + ".json"
}
