/*
handlers.go - HTTP API handlers for the stall till

PURPOSE:
  Exposes the sales session engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the register
  package.

ENDPOINTS:
  Catalog:
    GET    /api/products               List products (name-ascending)
    POST   /api/products               Create or reprice a product
    PUT    /api/products/{name}        Rename and/or reprice
    DELETE /api/products/{name}        Remove

  Cart:
    GET    /api/cart                   Open cart with 1-based positions
    POST   /api/cart/items             Add product x quantity
    DELETE /api/cart/items/{index}     Remove by position
    DELETE /api/cart                   Clear
    POST   /api/cart/preview           Change preview, commits nothing
    POST   /api/cart/checkout          Finalize and clear the cart

  Session:
    GET    /api/sales                  Sale history
    DELETE /api/sales/{ordinal}        Void
    GET    /api/summary                Aggregates
    GET    /api/session                Session id and unsaved-sales flag

  Exports:
    POST   /api/exports/session        .json or .db/.sqlite
    POST   /api/exports/report         .pdf or .txt
    GET    /api/report?format=pdf|txt  Report download

CONCURRENCY:
  The engine is single-writer. Every handler holds Handler.mu for the whole
  of its engine work, so two browser tabs cannot interleave a checkout with
  a void.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Unknown product, cart position or sale ordinal
  - 422: Insufficient payment, empty cart
  - 500: Persistence failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
	"github.com/luisescardovelliTech/caixaBingoNicolas/report"
	"github.com/luisescardovelliTech/caixaBingoNicolas/store/jsonfile"
	"github.com/luisescardovelliTech/caixaBingoNicolas/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Options configures a Handler. Zero values are usable.
type Options struct {
	Logger          *zap.Logger
	Metrics         *Metrics
	ExportDir       string
	ReportPageLines int
	Now             func() time.Time
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu   sync.Mutex
	till *register.Till

	log         *zap.Logger
	metrics     *Metrics
	validate    *validator.Validate
	exportDir   string
	reportLines int
	now         func() time.Time
}

// NewHandler creates a handler driving till.
func NewHandler(till *register.Till, opts Options) *Handler {
	h := &Handler{
		till:        till,
		log:         opts.Logger,
		metrics:     opts.Metrics,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		exportDir:   opts.ExportDir,
		reportLines: opts.ReportPageLines,
		now:         opts.Now,
	}
	if h.log == nil {
		h.log = zap.NewNop()
	}
	if h.metrics == nil {
		h.metrics = NewMetrics()
	}
	if h.exportDir == "" {
		h.exportDir = "."
	}
	if h.now == nil {
		h.now = time.Now
	}
	h.metrics.observeLedger(till.Ledger)
	return h
}

// Metrics exposes the handler's collectors for the /metrics route.
func (h *Handler) Metrics() *Metrics { return h.metrics }

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListProducts returns the catalog sorted by name.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	products := h.till.Catalog.List()
	h.mu.Unlock()

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// UpsertProduct creates a product or overwrites its price.
func (h *Handler) UpsertProduct(w http.ResponseWriter, r *http.Request) {
	var req UpsertProductRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		h.fail(w, "Invalid product", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.till.Catalog.Upsert(r.Context(), req.Name, price); err != nil {
		h.failPersist(w, "save catalog", "Failed to save product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(register.Product{Name: strings.TrimSpace(req.Name), UnitPrice: price}))
}

// UpdateProduct renames and/or reprices the product named in the path.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	oldName := chi.URLParam(r, "name")
	var req UpsertProductRequest
	if !h.decode(w, r, &req) {
		return
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		h.fail(w, "Invalid product", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.till.Catalog.Price(oldName); err != nil {
		h.fail(w, "Product not found", err)
		return
	}
	if err := h.till.RenameProduct(r.Context(), oldName, req.Name, price); err != nil {
		h.failPersist(w, "save catalog", "Failed to update product", err)
		return
	}
	writeJSON(w, http.StatusOK, toProductDTO(register.Product{Name: strings.TrimSpace(req.Name), UnitPrice: price}))
}

// DeleteProduct removes a product. Removing an unknown name succeeds.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.till.Catalog.Remove(r.Context(), name); err != nil {
		h.failPersist(w, "save catalog", "Failed to remove product", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parsePrice(raw Amount) (decimal.Decimal, error) {
	price, ok := register.TryParseAmount(string(raw))
	if !ok {
		return price, fmt.Errorf("%w: price %q is not a number", register.ErrInvalidInput, string(raw))
	}
	return price, nil
}

// =============================================================================
// CART HANDLERS
// =============================================================================

// GetCart returns the open cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	dto := toCartDTO(h.till.Cart)
	h.mu.Unlock()
	writeJSON(w, http.StatusOK, dto)
}

// AddCartItem appends a line to the cart at the current catalog price.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.till.AddToCart(req.Product, req.Quantity); err != nil {
		h.fail(w, "Failed to add item", err)
		return
	}
	writeJSON(w, http.StatusCreated, toCartDTO(h.till.Cart))
}

// RemoveCartItem drops the line at the 1-based position in the path.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	position, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		h.fail(w, "Invalid cart position", fmt.Errorf("%w: %v", register.ErrInvalidInput, err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := h.till.RemoveFromCart(position); err != nil {
		h.fail(w, "Failed to remove item", err)
		return
	}
	writeJSON(w, http.StatusOK, toCartDTO(h.till.Cart))
}

// ClearCart empties the cart.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.till.ClearCart()
	writeJSON(w, http.StatusOK, toCartDTO(h.till.Cart))
}

// PreviewPayment computes the change for the open cart without committing.
func (h *Handler) PreviewPayment(w http.ResponseWriter, r *http.Request) {
	method, input, ok := h.decodePayment(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	payment, err := h.till.PreviewChange(method, input)
	if err != nil {
		h.fail(w, "Payment not accepted", err)
		return
	}
	writeJSON(w, http.StatusOK, PaymentDTO{
		PaymentMethod:  string(payment.Method),
		Label:          payment.Method.Label(),
		Total:          money(h.till.Cart.Total()),
		AmountReceived: money(payment.AmountReceived),
		Change:         money(payment.Change),
	})
}

// Checkout finalizes the cart into a sale.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	method, input, ok := h.decodePayment(w, r)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	sale, err := h.till.Checkout(method, input)
	if err != nil {
		h.fail(w, "Sale not finalized", err)
		return
	}
	h.metrics.saleFinalized(sale.PaymentMethod)
	h.metrics.observeLedger(h.till.Ledger)
	writeJSON(w, http.StatusCreated, toSaleDTO(h.till.Ledger.SaleCount(), sale))
}

func (h *Handler) decodePayment(w http.ResponseWriter, r *http.Request) (register.PaymentMethod, string, bool) {
	var req PaymentRequest
	if !h.decode(w, r, &req) {
		return "", "", false
	}
	method, err := register.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		h.fail(w, "Invalid payment method", err)
		return "", "", false
	}
	return method, string(req.AmountReceived), true
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// ListSales returns the ledger in insertion order.
func (h *Handler) ListSales(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	sales := h.till.Ledger.Sales()
	h.mu.Unlock()

	dtos := make([]SaleDTO, len(sales))
	for i, s := range sales {
		dtos[i] = toSaleDTO(i+1, s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// VoidSale removes the sale at the ordinal in the path. Later sales move up
// by one.
func (h *Handler) VoidSale(w http.ResponseWriter, r *http.Request) {
	ordinal, err := strconv.Atoi(chi.URLParam(r, "ordinal"))
	if err != nil {
		h.fail(w, "Invalid sale ordinal", fmt.Errorf("%w: %v", register.ErrInvalidInput, err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	sale, err := h.till.VoidSale(ordinal)
	if err != nil {
		h.fail(w, "Failed to void sale", err)
		return
	}
	h.metrics.saleVoided()
	h.metrics.observeLedger(h.till.Ledger)
	writeJSON(w, http.StatusOK, toSaleDTO(ordinal, sale))
}

// GetSummary returns every aggregate plus the printable summary block.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	s := h.till.Summary()
	byMethod := make(map[string]string, len(s.ByPaymentMethod))
	for m, total := range s.ByPaymentMethod {
		byMethod[string(m)] = money(total)
	}

	var text strings.Builder
	tw := report.NewTextWriter(&text, 0)
	err := report.RenderSummary(h.till.Ledger, h.till.Catalog, tw)
	if err == nil {
		err = tw.Flush()
	}
	if err != nil {
		h.fail(w, "Failed to render summary", err)
		return
	}

	writeJSON(w, http.StatusOK, SummaryDTO{
		SaleCount:       s.SaleCount,
		GrandTotal:      money(s.GrandTotal),
		AverageTicket:   money(s.AverageTicket),
		ByProduct:       s.ByProduct,
		ByPaymentMethod: byMethod,
		Text:            text.String(),
	})
}

// GetSession reports the session id and whether an export is due.
func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	now := h.now()

	h.mu.Lock()
	defer h.mu.Unlock()
	writeJSON(w, http.StatusOK, SessionDTO{
		SessionID:           h.till.ID.String(),
		SaleCount:           h.till.Ledger.SaleCount(),
		CartItems:           h.till.Cart.Len(),
		UnsavedSales:        h.till.HasUnsavedSales(),
		SuggestedReportFile: report.SuggestedFilename(now, report.FormatPDF),
		SuggestedTextFile:   report.SuggestedFilename(now, report.FormatText),
		SuggestedSalesFile:  jsonfile.SuggestedFilename(now),
	})
}

// =============================================================================
// EXPORT HANDLERS
// =============================================================================

// ExportSession writes the ledger as a JSON document or into a SQLite
// archive, picked by extension. A successful export clears the
// unsaved-sales flag.
func (h *Handler) ExportSession(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !h.decode(w, r, &req) {
		return
	}
	now := h.now()
	path := h.resolve(req.Path, jsonfile.SuggestedFilename(now))

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.till.Ledger.SaleCount() == 0 {
		h.fail(w, "Nothing to export", fmt.Errorf("%w: no sales to export", register.ErrInvalidInput))
		return
	}

	var err error
	format := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	switch format {
	case "json":
		err = jsonfile.ExportSession(path, h.till.ID, h.till.Ledger, now)
	case "db", "sqlite":
		err = sqlite.ExportSessionFile(r.Context(), path, h.till.ID, h.till.Ledger, now)
	default:
		h.fail(w, "Unsupported export format", fmt.Errorf("%w: extension %q (want .json, .db or .sqlite)", register.ErrInvalidInput, filepath.Ext(path)))
		return
	}
	if err != nil {
		h.failPersist(w, "export session", "Failed to export session", &register.PersistenceError{Op: "export session", Err: err})
		return
	}

	h.till.MarkSaved()
	h.log.Info("session exported", zap.String("path", path), zap.Int("sales", h.till.Ledger.SaleCount()))
	writeJSON(w, http.StatusCreated, ExportDTO{Path: path, Format: format})
}

// ExportReport writes the report to a file; the extension picks PDF or
// plain text.
func (h *Handler) ExportReport(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !h.decode(w, r, &req) {
		return
	}
	now := h.now()
	path := h.resolve(req.Path, report.SuggestedFilename(now, report.FormatPDF))
	format := report.FormatForPath(path)

	h.mu.Lock()
	defer h.mu.Unlock()
	opts := report.Options{GeneratedAt: now, SessionID: h.till.ID.String()}
	if err := report.Export(path, h.till.Ledger, h.till.Catalog, opts, h.reportLines); err != nil {
		h.failPersist(w, "export report", "Failed to export report", err)
		return
	}
	h.log.Info("report exported", zap.String("path", path), zap.String("format", string(format)))
	writeJSON(w, http.StatusCreated, ExportDTO{Path: path, Format: string(format)})
}

// DownloadReport streams the report. format defaults to pdf.
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	var format report.Format
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "", "pdf":
		format = report.FormatPDF
	case "txt", "text":
		format = report.FormatText
	default:
		h.fail(w, "Unsupported report format", fmt.Errorf("%w: format %q (want pdf or txt)", register.ErrInvalidInput, r.URL.Query().Get("format")))
		return
	}
	now := h.now()

	var buf bytes.Buffer
	h.mu.Lock()
	opts := report.Options{GeneratedAt: now, SessionID: h.till.ID.String()}
	err := report.WriteTo(&buf, format, h.till.Ledger, h.till.Catalog, opts, h.reportLines)
	h.mu.Unlock()
	if err != nil {
		h.fail(w, "Failed to render report", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.SuggestedFilename(now, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// resolve anchors a relative path in the export directory.
func (h *Handler) resolve(path, fallback string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = fallback
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(h.exportDir, path)
}

// =============================================================================
// HELPERS
// =============================================================================

// decode reads and validates a JSON body, answering 400 itself on failure.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make(map[string]string, len(verrs))
			for _, fe := range verrs {
				fields[fe.Field()] = fe.Tag()
			}
			writeError(w, http.StatusBadRequest, "Validation failed", fields)
			return false
		}
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

// statusFor maps the register error taxonomy onto HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, register.ErrInvalidInput):
		return http.StatusBadRequest
	case register.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, register.ErrInsufficientPayment), errors.Is(err, register.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	status := statusFor(err)
	switch {
	case status >= 500:
		h.log.Error(message, zap.Error(err))
	case register.IsClientError(err):
		h.log.Debug(message, zap.Error(err))
	}

	var ipe *register.InsufficientPaymentError
	if errors.As(err, &ipe) {
		writeError(w, status, message, map[string]string{
			"error":     err.Error(),
			"total":     money(ipe.Total),
			"received":  money(ipe.Received),
			"shortfall": money(ipe.Shortfall),
		})
		return
	}
	writeError(w, status, message, err)
}

// failPersist is fail plus the persistence-failure metric.
func (h *Handler) failPersist(w http.ResponseWriter, op, message string, err error) {
	if errors.Is(err, register.ErrPersistenceFailure) {
		h.metrics.persistenceFailed(op)
	}
	h.fail(w, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError answers with ErrorResponse. details may be an error, a map of
// fields or nil.
func writeError(w http.ResponseWriter, status int, message string, details any) {
	resp := ErrorResponse{Error: message}
	switch d := details.(type) {
	case nil:
	case error:
		resp.Details = d.Error()
	default:
		resp.Details = d
	}
	writeJSON(w, status, resp)
}
