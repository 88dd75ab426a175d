package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface by recording Prometheus
// metrics. Register one instance for all three:
//
//	reg := prometheus.NewRegistry()
//	h := observability.NewPrometheusHooks(reg)
//	observability.SetPipelineHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetHTTPHooks(h)
type PrometheusHooks struct {
	parseTotal     *prometheus.CounterVec
	parseDuration  prometheus.Histogram
	parseRecords   prometheus.Histogram
	buildDuration  prometheus.Histogram
	buildDangling  prometheus.Counter
	renderTotal    *prometheus.CounterVec
	renderDuration prometheus.Histogram

	cacheTotal *prometheus.CounterVec
	cacheBytes *prometheus.CounterVec

	httpTotal    *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewPrometheusHooks creates the metrics and registers them with reg.
// Registering twice with the same registry panics.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		// parseTotal counts parsed files by result
		parseTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_parse_total",
			Help: "Total GEDCOM files parsed by result",
		}, []string{"result"}),

		parseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_parse_duration_seconds",
			Help:    "GEDCOM parse duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14), // 1ms to ~16s
		}),

		parseRecords: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_parse_records",
			Help:    "Number of top-level records per parsed file",
			Buckets: []float64{10, 100, 1000, 10000, 100000},
		}),

		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_build_duration_seconds",
			Help:    "Relationship graph construction duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),

		// buildDangling counts family references to missing individuals
		buildDangling: f.NewCounter(prometheus.CounterOpts{
			Name: "lineage_build_dangling_references_total",
			Help: "Total dangling family references skipped during graph construction",
		}),

		renderTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_render_total",
			Help: "Total render runs by result",
		}, []string{"result"}),

		renderDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "lineage_render_duration_seconds",
			Help:    "Render duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
		}),

		cacheTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_cache_operations_total",
			Help: "Total cache operations by key type and outcome",
		}, []string{"key_type", "outcome"}),

		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_cache_written_bytes_total",
			Help: "Total bytes written to the cache by key type",
		}, []string{"key_type"}),

		httpTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_http_requests_total",
			Help: "Total API requests by method, route and status",
		}, []string{"method", "route", "status"}),

		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lineage_http_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		httpErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "lineage_http_errors_total",
			Help: "Total API handler errors by route",
		}, []string{"method", "route"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// =============================================================================
// PipelineHooks
// =============================================================================

func (h *PrometheusHooks) OnParseStart(context.Context, string) {}

func (h *PrometheusHooks) OnParseComplete(_ context.Context, _ string, records int, d time.Duration, err error) {
	h.parseTotal.WithLabelValues(result(err)).Inc()
	h.parseDuration.Observe(d.Seconds())
	if err == nil {
		h.parseRecords.Observe(float64(records))
	}
}

func (h *PrometheusHooks) OnBuildStart(context.Context, int) {}

func (h *PrometheusHooks) OnBuildComplete(_ context.Context, _ int, dangling int, d time.Duration) {
	h.buildDuration.Observe(d.Seconds())
	h.buildDangling.Add(float64(dangling))
}

func (h *PrometheusHooks) OnRenderStart(context.Context, []string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, _ []string, d time.Duration, err error) {
	h.renderTotal.WithLabelValues(result(err)).Inc()
	h.renderDuration.Observe(d.Seconds())
}

// =============================================================================
// CacheHooks
// =============================================================================

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheTotal.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// =============================================================================
// HTTPHooks
// =============================================================================

func (h *PrometheusHooks) OnRequest(context.Context, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.httpTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	h.httpErrors.WithLabelValues(method, route).Inc()
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
