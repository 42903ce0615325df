package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements LayoutHooks, CacheHooks and HTTPHooks by
// recording Prometheus metrics.
type PrometheusHooks struct {
	LayoutsTotal     *prometheus.CounterVec
	LayoutDuration   *prometheus.HistogramVec
	LayoutNodes      *prometheus.HistogramVec
	OffloadFallbacks *prometheus.CounterVec

	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	CacheBytes  *prometheus.CounterVec

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPInFlight        prometheus.Gauge
}

// NewPrometheusHooks creates the metrics and registers them with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		LayoutsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arrange_layouts_total",
				Help: "Total number of layouts computed",
			},
			[]string{"algorithm", "path", "status"},
		),
		LayoutDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arrange_layout_duration_seconds",
				Help:    "Layout computation duration in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
			},
			[]string{"algorithm", "path"},
		),
		LayoutNodes: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arrange_layout_nodes",
				Help:    "Number of nodes per layout request",
				Buckets: []float64{1, 10, 100, 500, 1000, 5000},
			},
			[]string{"algorithm"},
		),
		OffloadFallbacks: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arrange_offload_fallbacks_total",
				Help: "Layouts recomputed in-process after the isolated context failed",
			},
			[]string{"algorithm"},
		),
		CacheHits: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arrange_cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key_type"},
		),
		CacheMisses: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arrange_cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key_type"},
		),
		CacheBytes: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arrange_cache_written_bytes_total",
				Help: "Total bytes written to the cache",
			},
			[]string{"key_type"},
		),
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "arrange_http_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "arrange_http_request_duration_seconds",
				Help:    "API request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		HTTPInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "arrange_http_requests_in_flight",
				Help: "Number of API requests being served",
			},
		),
	}
}

func (h *PrometheusHooks) OnLayoutStart(_ context.Context, algorithm string, nodeCount int) {
	h.LayoutNodes.WithLabelValues(algorithm).Observe(float64(nodeCount))
}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, algorithm, path string, duration time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	h.LayoutsTotal.WithLabelValues(algorithm, path, status).Inc()
	h.LayoutDuration.WithLabelValues(algorithm, path).Observe(duration.Seconds())
}

func (h *PrometheusHooks) OnOffloadFallback(_ context.Context, algorithm string, _ error) {
	h.OffloadFallbacks.WithLabelValues(algorithm).Inc()
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheHits.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheMisses.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.HTTPInFlight.Inc()
}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	h.HTTPInFlight.Dec()
	h.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	h.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

var (
	_ LayoutHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)
