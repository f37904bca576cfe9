package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/shop-backend/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "shop"

// ServerMetrics: метрики HTTP-слоя.
type ServerMetrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
}

func NewServerMetrics(reg prometheus.Registerer) *ServerMetrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})

	reg.MustRegister(requests, latency)
	return &ServerMetrics{Requests: requests, LatencyMS: latency}
}

// Middleware считает запросы по шаблону маршрута chi, а не по сырому пути.
func (m *ServerMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.Requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.LatencyMS.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	})
}

// OrderMetrics: бизнес-метрики заказов и транзакций.
type OrderMetrics struct {
	Created      prometheus.Counter
	Cancelled    prometheus.Counter
	Revenue      prometheus.Counter
	StockRejects prometheus.Counter
	Transitions  *prometheus.CounterVec
	TxRetries    prometheus.Counter
}

func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	m := &OrderMetrics{
		Created: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "created_total",
			Help: "Orders successfully created.",
		}),
		Cancelled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "cancelled_total",
			Help: "Orders cancelled with stock restored.",
		}),
		Revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "revenue_total",
			Help: "Sum of created order totals.",
		}),
		StockRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "stock_rejections_total",
			Help: "Orders rejected because of insufficient stock.",
		}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "orders", Name: "status_transitions_total",
			Help: "Administrative order status transitions.",
		}, []string{"from", "to"}),
		TxRetries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "db", Name: "tx_retries_total",
			Help: "Transactions retried after serialization failure or deadlock.",
		}),
	}

	reg.MustRegister(m.Created, m.Cancelled, m.Revenue, m.StockRejects, m.Transitions, m.TxRetries)
	return m
}

func (m *OrderMetrics) OrderCreated(total decimal.Decimal) {
	m.Created.Inc()
	m.Revenue.Add(total.InexactFloat64())
}

func (m *OrderMetrics) OrderCancelled() {
	m.Cancelled.Inc()
}

func (m *OrderMetrics) StatusChanged(from, to domain.OrderStatus) {
	m.Transitions.WithLabelValues(string(from), string(to)).Inc()
}

func (m *OrderMetrics) StockRejected() {
	m.StockRejects.Inc()
}

func (m *OrderMetrics) TxRetried() {
	m.TxRetries.Inc()
}

func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
