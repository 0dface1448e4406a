package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/luisescardovelliTech/caixaBingoNicolas/register"
)

// Metrics owns its registry so tests can build as many handlers as they
// like without colliding on the global one.
type Metrics struct {
	registry *prometheus.Registry

	salesFinalized      *prometheus.CounterVec
	salesVoided         prometheus.Counter
	grandTotal          prometheus.Gauge
	saleCount           prometheus.Gauge
	persistenceFailures *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		salesFinalized: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caixa_sales_finalized_total",
			Help: "Sales finalized, by payment method",
		}, []string{"method"}),
		salesVoided: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "caixa_sales_voided_total",
			Help: "Sales removed from the ledger",
		}),
		grandTotal: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "caixa_session_grand_total",
			Help: "Sum of all sale totals in the running session",
		}),
		saleCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "caixa_session_sales",
			Help: "Number of sales in the running session",
		}),
		persistenceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caixa_persistence_failures_total",
			Help: "Failed writes, by operation",
		}, []string{"op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
	}
	m.registry.MustRegister(
		m.salesFinalized, m.salesVoided, m.grandTotal, m.saleCount, m.persistenceFailures,
		m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	for _, method := range register.PaymentMethods {
		m.salesFinalized.WithLabelValues(string(method))
	}
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) saleFinalized(method register.PaymentMethod) {
	m.salesFinalized.WithLabelValues(string(method)).Inc()
}

func (m *Metrics) saleVoided() { m.salesVoided.Inc() }

func (m *Metrics) persistenceFailed(op string) {
	m.persistenceFailures.WithLabelValues(op).Inc()
}

// observeLedger recomputes the session gauges after a ledger mutation.
func (m *Metrics) observeLedger(ledger *register.Ledger) {
	m.grandTotal.Set(ledger.GrandTotal().InexactFloat64())
	m.saleCount.Set(float64(ledger.SaleCount()))
}

// statusRecorder captures the status code for metrics and request logs.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Instrument records request count and latency labelled by chi route
// pattern, so /api/sales/1 and /api/sales/2 share a series.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		pattern := "unknown"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			pattern = rctx.RoutePattern()
		}
		status := strconv.Itoa(rw.status)
		m.httpRequests.WithLabelValues(r.Method, pattern, status).Inc()
		m.httpDuration.WithLabelValues(r.Method, pattern, status).Observe(time.Since(start).Seconds())
	})
}
