/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:      Unique ID per request, echoed in request logs
  2. Instrument:     Prometheus request count and latency per route
  3. RequestLogger:  One zap line per request
  4. Recoverer:      Panic recovery (500 instead of crash)
  5. CORS:           Cross-origin requests for the till front end

ROUTE GROUPS:
  /api/products/*   Catalog
  /api/cart/*       Open cart, change preview, checkout
  /api/sales/*      Ledger history and voids
  /api/summary      Aggregates
  /api/session      Session id and unsaved-sales flag
  /api/exports/*    Session and report files
  /api/report       Report download
  /metrics          Prometheus

SECURITY NOTE:
  No authentication. The server is meant to listen on the stall laptop
  only; export paths are resolved against the configured export directory
  unless given absolute.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterOptions configures the middleware stack.
type RouterOptions struct {
	Logger         *zap.Logger
	AllowedOrigins []string
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173", "http://localhost:8080"}
	}

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(h.Metrics().Instrument)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
	}))

	r.Method(http.MethodGet, "/metrics", h.Metrics().Handler())

	r.Route("/api", func(r chi.Router) {
		// Catalog routes
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.UpsertProduct)
			r.Put("/{name}", h.UpdateProduct)
			r.Delete("/{name}", h.DeleteProduct)
		})

		// Cart routes
		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddCartItem)
			r.Delete("/items/{index}", h.RemoveCartItem)
			r.Post("/preview", h.PreviewPayment)
			r.Post("/checkout", h.Checkout)
		})

		// Ledger routes
		r.Route("/sales", func(r chi.Router) {
			r.Get("/", h.ListSales)
			r.Delete("/{ordinal}", h.VoidSale)
		})

		r.Get("/summary", h.GetSummary)
		r.Get("/session", h.GetSession)
		r.Get("/report", h.DownloadReport)

		// Export routes
		r.Route("/exports", func(r chi.Router) {
			r.Post("/session", h.ExportSession)
			r.Post("/report", h.ExportReport)
		})
	})

	return r
}
