/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures the till front end talks to. The register
  package never sees these types; handlers translate in both directions.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

MONEY:
  Amounts leave the API as strings with two decimals ("12.50") so that no
  client ever parses a float. Amounts coming in may be JSON numbers or the
  operator's text ("R$ 12,50"); see Amount.

VALIDATION:
  Request types carry go-playground/validator tags for shape checks (required
  fields, positive quantities). Domain rules stay in the register package.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

// Amount is money as typed by the operator. It accepts a JSON string or a
// JSON number and keeps the raw text; parsing is left to the register
// package so that the API and the engine agree on the rules.
type Amount string

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = Amount(n.String())
	return nil
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// =============================================================================
// CATALOG
// =============================================================================

type ProductDTO struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	Formatted string `json:"formatted"`
}

// UpsertProductRequest is used for both create and edit. On PUT the path
// names the product being edited and Name is its new name.
type UpsertProductRequest struct {
	Name  string `json:"name" validate:"required"`
	Price Amount `json:"price" validate:"required"`
}

func toProductDTO(p register.Product) ProductDTO {
	return ProductDTO{Name: p.Name, Price: money(p.UnitPrice), Formatted: register.FormatMoney(p.UnitPrice)}
}

// =============================================================================
// CART
// =============================================================================

type AddItemRequest struct {
	Product  string `json:"product" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

type CartItemDTO struct {
	Position  int    `json:"position"` // 1-based
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type CartDTO struct {
	Items     []CartItemDTO `json:"items"`
	Total     string        `json:"total"`
	Formatted string        `json:"formatted"`
}

func toCartDTO(cart *register.Cart) CartDTO {
	items := cart.Items()
	dto := CartDTO{Items: make([]CartItemDTO, len(items))}
	for i, li := range items {
		dto.Items[i] = CartItemDTO{
			Position:  i + 1,
			Product:   li.ProductName,
			Quantity:  li.Quantity,
			UnitPrice: money(li.UnitPrice),
			Subtotal:  money(li.Subtotal()),
		}
	}
	total := cart.Total()
	dto.Total = money(total)
	dto.Formatted = register.FormatMoney(total)
	return dto
}

// =============================================================================
// PAYMENT
// =============================================================================

// PaymentRequest drives both the live change preview and checkout.
// AmountReceived only matters for cash.
type PaymentRequest struct {
	PaymentMethod  string `json:"payment_method" validate:"required"`
	AmountReceived Amount `json:"amount_received"`
}

type PaymentDTO struct {
	PaymentMethod  string `json:"payment_method"`
	Label          string `json:"label"`
	Total          string `json:"total"`
	AmountReceived string `json:"amount_received"`
	Change         string `json:"change"`
}

// =============================================================================
// SALES
// =============================================================================

type LineItemDTO struct {
	Product   string `json:"product"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type SaleDTO struct {
	Ordinal        int           `json:"ordinal"`
	Timestamp      time.Time     `json:"timestamp"`
	Time           string        `json:"time"`
	Summary        string        `json:"summary"`
	Items          []LineItemDTO `json:"items"`
	PaymentMethod  string        `json:"payment_method"`
	Label          string        `json:"label"`
	Total          string        `json:"total"`
	AmountReceived string        `json:"amount_received"`
	Change         string        `json:"change"`
}

func toSaleDTO(ordinal int, s register.Sale) SaleDTO {
	items := make([]LineItemDTO, len(s.Items))
	for i, li := range s.Items {
		items[i] = LineItemDTO{
			Product:   li.ProductName,
			Quantity:  li.Quantity,
			UnitPrice: money(li.UnitPrice),
			Subtotal:  money(li.Subtotal()),
		}
	}
	return SaleDTO{
		Ordinal:        ordinal,
		Timestamp:      s.Timestamp,
		Time:           s.Timestamp.Format("15:04:05"),
		Summary:        s.ItemsSummary(),
		Items:          items,
		PaymentMethod:  string(s.PaymentMethod),
		Label:          s.PaymentMethod.Label(),
		Total:          money(s.Total),
		AmountReceived: money(s.AmountReceived),
		Change:         money(s.Change),
	}
}

// =============================================================================
// SUMMARY / SESSION
// =============================================================================

type SummaryDTO struct {
	SaleCount       int               `json:"sale_count"`
	GrandTotal      string            `json:"grand_total"`
	AverageTicket   string            `json:"average_ticket"`
	ByProduct       map[string]int    `json:"by_product"`
	ByPaymentMethod map[string]string `json:"by_payment_method"`
	Text            string            `json:"text"`
}

type SessionDTO struct {
	SessionID           string `json:"session_id"`
	SaleCount           int    `json:"sale_count"`
	CartItems           int    `json:"cart_items"`
	UnsavedSales        bool   `json:"unsaved_sales"`
	SuggestedReportFile string `json:"suggested_report_file"`
	SuggestedTextFile   string `json:"suggested_text_file"`
	SuggestedSalesFile  string `json:"suggested_sales_file"`
}

// =============================================================================
// EXPORTS
// =============================================================================

// ExportRequest names the target file. A relative path is resolved against
// the configured export directory; an empty path uses the suggested name.
type ExportRequest struct {
	Path string `json:"path"`
}

type ExportDTO struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}
