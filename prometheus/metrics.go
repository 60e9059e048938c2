// Package prometheus instruments extraction with Prometheus metrics.
package prometheus

import (
	"context"
	"net/http"
	"strconv"
	"time"

	voygen "github.com/iamneilroberts/voygen-sub008"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "voygen"

// Metrics holds the collectors and the registry they are registered in.
type Metrics struct {
	Registry *prometheus.Registry

	Extractions        *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	Records            *prometheus.HistogramVec
	HTTPRequests       *prometheus.CounterVec
	HTTPLatency        *prometheus.HistogramVec
	CacheEvents        *prometheus.CounterVec
}

// NewMetrics creates the collectors in a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		Extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: Namespace, Name: "extractions_total", Help: "Extractions by kind, route and outcome."},
			[]string{"kind", "route", "outcome"},
		),
		ExtractionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace, Name: "extraction_duration_seconds",
				Help:    "Extraction duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"kind"},
		),
		Records: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace, Name: "extraction_records",
				Help:    "Records per successful extraction.",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 200, 500, 1000},
			},
			[]string{"kind"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: Namespace, Name: "http_requests_total", Help: "HTTP requests."},
			[]string{"route", "method", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace, Name: "http_request_duration_seconds",
				Help:    "HTTP request duration seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		CacheEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: Namespace, Name: "cache_events_total", Help: "Envelope cache hits, misses and sets."},
			[]string{"event"},
		),
	}
	m.Registry.MustRegister(m.Extractions, m.ExtractionDuration, m.Records, m.HTTPRequests, m.HTTPLatency, m.CacheEvents)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(route, method string, status int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

func (m *Metrics) observeEnvelope(kind voygen.EnvelopeKind, env *voygen.Envelope, d time.Duration) {
	m.ExtractionDuration.WithLabelValues(string(kind)).Observe(d.Seconds())
	if env == nil || !env.OK {
		m.Extractions.WithLabelValues(string(kind), "none", "failed").Inc()
		return
	}
	m.Extractions.WithLabelValues(string(kind), env.Route, "ok").Inc()
	m.Records.WithLabelValues(string(kind)).Observe(float64(env.Count))
}

var _ voygen.HotelExtractor = (*HotelExtractor)(nil)

// HotelExtractor records metrics for each hotel extraction.
type HotelExtractor struct {
	next    voygen.HotelExtractor
	metrics *Metrics
}

// NewHotelExtractor wraps next.
func NewHotelExtractor(next voygen.HotelExtractor, metrics *Metrics) *HotelExtractor {
	return &HotelExtractor{next: next, metrics: metrics}
}

func (e *HotelExtractor) ExtractHotels(ctx context.Context, page *voygen.Page, req voygen.HotelRequest) *voygen.Envelope {
	begin := time.Now()
	env := e.next.ExtractHotels(ctx, page, req)
	e.metrics.observeEnvelope(voygen.EnvelopeHotels, env, time.Since(begin))
	return env
}

var _ voygen.FactExtractor = (*FactExtractor)(nil)

// FactExtractor records metrics for each facts extraction.
type FactExtractor struct {
	next    voygen.FactExtractor
	metrics *Metrics
}

// NewFactExtractor wraps next.
func NewFactExtractor(next voygen.FactExtractor, metrics *Metrics) *FactExtractor {
	return &FactExtractor{next: next, metrics: metrics}
}

func (e *FactExtractor) ExtractFacts(ctx context.Context, page *voygen.Page, req voygen.FactRequest) *voygen.Envelope {
	begin := time.Now()
	env := e.next.ExtractFacts(ctx, page, req)
	e.metrics.observeEnvelope(voygen.EnvelopeFacts, env, time.Since(begin))
	return env
}

var _ voygen.EnvelopeCache = (*EnvelopeCache)(nil)

// EnvelopeCache counts cache hits, misses and sets.
type EnvelopeCache struct {
	next    voygen.EnvelopeCache
	metrics *Metrics
}

// NewEnvelopeCache wraps next.
func NewEnvelopeCache(next voygen.EnvelopeCache, metrics *Metrics) *EnvelopeCache {
	return &EnvelopeCache{next: next, metrics: metrics}
}

func (c *EnvelopeCache) Get(ctx context.Context, key string) (*voygen.Envelope, error) {
	env, err := c.next.Get(ctx, key)
	switch {
	case err == nil:
		c.metrics.CacheEvents.WithLabelValues("hit").Inc()
	case voygen.ErrorCode(err) == voygen.ENOTFOUND:
		c.metrics.CacheEvents.WithLabelValues("miss").Inc()
	default:
		c.metrics.CacheEvents.WithLabelValues("error").Inc()
	}
	return env, err
}

func (c *EnvelopeCache) Set(ctx context.Context, key string, env *voygen.Envelope) error {
	err := c.next.Set(ctx, key, env)
	if err == nil {
		c.metrics.CacheEvents.WithLabelValues("set").Inc()
	}
	return err
}
