package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Requests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "carstore",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "endpoint", "status"})

	RequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "carstore",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
	}, []string{"endpoint"})

	OrdersPublished = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "carstore",
		Name:      "orders_published_total",
		Help:      "Order created events successfully published.",
	})

	// UnpricedItems counts cart entries that referenced a car missing from
	// the catalog at checkout time and were therefore priced at zero.
	UnpricedItems = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "carstore",
		Name:      "checkout_unpriced_items_total",
		Help:      "Cart entries priced at zero because the car was not found in the catalog.",
	})
)

// Handler exposes the prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency per route pattern.
func Middleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		RequestLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		Requests.WithLabelValues(r.Method, endpoint, strconv.Itoa(rec.status)).Inc()
	}
}
