// Package metrics 定義服務的 Prometheus 指標
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ingredient_parser"

// Metrics 服務指標，使用獨立的 registry
type Metrics struct {
	registry *prometheus.Registry

	parseTotal    *prometheus.CounterVec
	parseDuration prometheus.Histogram
	cacheTotal    *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	queueLength   prometheus.GaugeFunc
}

// New 創建並註冊所有指標
// queueLength 為 nil 時不註冊隊列長度指標
func New(queueLength func() float64) *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		prometheus.NewGoCollector(),
	)

	m := &Metrics{
		registry: registry,
		parseTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parse_total",
			Help:      "Ingredient sentences parsed, by outcome.",
		}, []string{"outcome"}),
		parseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent normalizing and extracting one sentence.",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05},
		}),
		cacheTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Parse cache lookups, by layer and result.",
		}, []string{"layer", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	registry.MustRegister(m.parseTotal, m.parseDuration, m.cacheTotal, m.httpRequests, m.httpDuration)

	if queueLength != nil {
		m.queueLength = prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_length",
			Help:      "Batch parse jobs waiting in the worker pool.",
		}, queueLength)
		registry.MustRegister(m.queueLength)
	}

	return m
}

// ObserveParse 記錄一次解析
func (m *Metrics) ObserveParse(outcome string, d time.Duration) {
	m.parseTotal.WithLabelValues(outcome).Inc()
	m.parseDuration.Observe(d.Seconds())
}

// CacheHit 記錄緩存命中
func (m *Metrics) CacheHit(layer string) {
	m.cacheTotal.WithLabelValues(layer, "hit").Inc()
}

// CacheMiss 記錄緩存未命中
func (m *Metrics) CacheMiss(layer string) {
	m.cacheTotal.WithLabelValues(layer, "miss").Inc()
}

// ObserveHTTP 記錄一次 HTTP 請求
func (m *Metrics) ObserveHTTP(method, path string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// Handler /metrics 端點
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
