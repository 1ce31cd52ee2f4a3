package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/compgraph/pkg/observability"
)

// Metrics collects Prometheus metrics for HTTP requests and, once
// installed, for the layout pipeline, the caches and editor activity.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	layoutDuration  prometheus.Histogram
	cyclesBroken    prometheus.Counter
	renderDuration  *prometheus.HistogramVec
	renderBytes     *prometheus.CounterVec
	renderErrors    *prometheus.CounterVec
	cacheOps        *prometheus.CounterVec
	edits           *prometheus.CounterVec
	decodes         *prometheus.CounterVec
	tokenBytes      prometheus.Histogram
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.EditorHooks   = (*Metrics)(nil)
)

// NewMetrics creates the metrics on a private registry that also carries
// the Go runtime and process collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compgraph_http_requests_total",
			Help: "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compgraph_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "compgraph_layout_duration_seconds",
			Help:    "Time spent computing layouts",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		cyclesBroken: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "compgraph_layout_cycles_broken_total",
			Help: "Parent edges dropped to break cycles during layout",
		}),
		renderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compgraph_render_duration_seconds",
			Help:    "Time spent rendering artifacts by format",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		renderBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compgraph_render_bytes_total",
			Help: "Bytes of rendered artifacts by format",
		}, []string{"format"}),
		renderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compgraph_render_errors_total",
			Help: "Failed renders by format",
		}, []string{"format"}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compgraph_cache_operations_total",
			Help: "Cache lookups and writes by key type and result",
		}, []string{"key_type", "result"}),
		edits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compgraph_edits_total",
			Help: "Graph edits by operation and whether they changed the graph",
		}, []string{"op", "changed"}),
		decodes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "compgraph_token_decodes_total",
			Help: "Share token decodes by result",
		}, []string{"result"}),
		tokenBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "compgraph_token_bytes",
			Help:    "Length of encoded share tokens",
			Buckets: prometheus.ExponentialBuckets(64, 2, 10),
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration,
		m.layoutDuration, m.cyclesBroken,
		m.renderDuration, m.renderBytes, m.renderErrors,
		m.cacheOps, m.edits, m.decodes, m.tokenBytes,
	)
	return m
}

// Install routes the observability hooks to m.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetEditorHooks(m)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) observeRequest(method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) OnLayoutStart(context.Context, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, _ int, cyclesBroken int, d time.Duration, _ error) {
	m.layoutDuration.Observe(d.Seconds())
	m.cyclesBroken.Add(float64(cyclesBroken))
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		m.renderErrors.WithLabelValues(format).Inc()
		return
	}
	m.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	m.renderBytes.WithLabelValues(format).Add(float64(size))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (m *Metrics) OnDecode(_ context.Context, tokenLen int, ok bool) {
	result := "ok"
	switch {
	case tokenLen == 0:
		result = "empty"
	case !ok:
		result = "invalid"
	}
	m.decodes.WithLabelValues(result).Inc()
}

func (m *Metrics) OnEncode(_ context.Context, _ int, tokenLen int) {
	m.tokenBytes.Observe(float64(tokenLen))
}

func (m *Metrics) OnEdit(_ context.Context, op string, changed bool) {
	m.edits.WithLabelValues(op, strconv.FormatBool(changed)).Inc()
}
