package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes the request metrics of the HTTP layer. Engine metrics
// are recorded by the service package.
type Metrics struct {
	handler http.Handler
}

var (
	activeRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "deepzoom_active_requests",
		Help: "Requests currently being served",
	})
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "deepzoom_requests_total",
		Help: "Requests served by endpoint and status code",
	}, []string{"endpoint", "code"})
)

// NewMetrics creates a Metrics serving the default registry.
func NewMetrics() *Metrics {
	return &Metrics{handler: promhttp.Handler()}
}

// begin marks a request active.
func (m *Metrics) begin() { activeRequests.Inc() }

// end marks a request done with the given status.
func (m *Metrics) end(endpoint string, status int) {
	activeRequests.Dec()
	requestsTotal.WithLabelValues(endpoint, strconv.Itoa(status)).Inc()
}

// WritePrometheus writes the text exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.metrics.WritePrometheus(w, r)
}

// metricsMiddleware counts requests per endpoint. endpoint is the route
// pattern so that label cardinality stays bounded.
func (s *Server) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := recorderFor(w)
		s.metrics.begin()
		defer func() { s.metrics.end(endpoint, rec.status) }()
		next(rec, r)
	}
}
