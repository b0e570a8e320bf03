package api

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records pipeline, cache and HTTP events as Prometheus series.
// It implements the observability hook interfaces.
type Metrics struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	surfaces      *prometheus.HistogramVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	cacheBytes    *prometheus.CounterVec
	inFlight      prometheus.Gauge
	requests      *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "massform_stage_duration_seconds",
			Help:    "Duration of pipeline stages by stage and building variant.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"stage", "variant"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "massform_stage_errors_total",
			Help: "Pipeline stages that returned an error.",
		}, []string{"stage", "variant"}),
		surfaces: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "massform_envelope_surfaces",
			Help:    "Surfaces per built envelope.",
			Buckets: prometheus.LinearBuckets(10, 20, 10),
		}, []string{"variant"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "massform_cache_hits_total",
			Help: "Cache hits by key type.",
		}, []string{"type"}),
		cacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "massform_cache_misses_total",
			Help: "Cache misses by key type.",
		}, []string{"type"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "massform_cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"type"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "massform_http_requests_in_flight",
			Help: "Requests currently being served.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "massform_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "massform_http_request_duration_seconds",
			Help:    "HTTP request durations by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		m.stageDuration,
		m.stageErrors,
		m.surfaces,
		m.cacheHits,
		m.cacheMisses,
		m.cacheBytes,
		m.inFlight,
		m.requests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) OnStageStart(context.Context, string, string) {}

func (m *Metrics) OnStageComplete(_ context.Context, stage, variant string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(stage, variant).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(stage, variant).Inc()
	}
}

func (m *Metrics) OnEnvelopeBuilt(_ context.Context, variant string, surfaces, _ int) {
	m.surfaces.WithLabelValues(variant).Observe(float64(surfaces))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheHits.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheMisses.WithLabelValues(keyType).Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {
	m.inFlight.Inc()
}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.inFlight.Dec()
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
