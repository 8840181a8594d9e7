package metrics

import (
	"net/http"
	"sync"
	"time"

	"sigil-hq/sigil/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Evaluation outcomes recorded by the collector.
const (
	OutcomeActive   = "active"
	OutcomeInactive = "inactive"
	OutcomeError    = "error"
)

// Collector registers and records all sigil metrics.
//
// Metrics:
//   - <ns>_eval_evaluations_total: Condition evaluations by outcome
//   - <ns>_eval_duration_seconds: Condition evaluation duration
//   - <ns>_eval_cache_hits_total / misses_total: Predicate cache activity
//   - <ns>_eval_sanitizer_rejections_total: Expressions rejected before parsing
//   - <ns>_regex_validations_total: Pattern validations by result
type Collector struct {
	registry *prometheus.Registry

	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration prometheus.Histogram

	cacheHitsTotal   prometheus.Counter
	cacheMissesTotal prometheus.Counter

	cacheMu         sync.Mutex
	lastCacheHits   uint64
	lastCacheMisses uint64

	sanitizerRejectionsTotal prometheus.Counter

	regexValidationsTotal *prometheus.CounterVec
}

// NewCollector creates and registers all metrics. A nil registry creates
// a fresh one.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "eval",
				Name:      "evaluations_total",
				Help:      "Total number of condition evaluations",
			},
			[]string{"outcome"},
		),

		evaluationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: "eval",
				Name:      "duration_seconds",
				Help:      "Duration of condition evaluation in seconds",
				// Evaluations should be fast (< 1ms)
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 12), // 1µs to 2ms
			},
		),

		cacheHitsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "eval",
				Name:      "cache_hits_total",
				Help:      "Total number of predicate cache hits",
			},
		),

		cacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "eval",
				Name:      "cache_misses_total",
				Help:      "Total number of predicate cache misses",
			},
		),

		sanitizerRejectionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "eval",
				Name:      "sanitizer_rejections_total",
				Help:      "Total number of expressions rejected by the sanitizer",
			},
		),

		regexValidationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: "regex",
				Name:      "validations_total",
				Help:      "Total number of regex pattern validations",
			},
			[]string{"result"},
		),
	}

	registry.MustRegister(
		c.evaluationsTotal,
		c.evaluationDuration,
		c.cacheHitsTotal,
		c.cacheMissesTotal,
		c.sanitizerRejectionsTotal,
		c.regexValidationsTotal,
	)

	return c
}

// RecordEvaluation records a single condition evaluation.
//
// The outcome is one of OutcomeActive, OutcomeInactive, or OutcomeError.
func (c *Collector) RecordEvaluation(outcome string, duration time.Duration) {
	c.evaluationsTotal.WithLabelValues(outcome).Inc()
	c.evaluationDuration.Observe(duration.Seconds())
}

// ObserveCacheStats folds a cumulative snapshot of predicate cache
// counters into the hit and miss counters. Callers pass the compiler's
// running totals; only the growth since the previous snapshot is
// recorded, so the exported counters stay monotonic.
func (c *Collector) ObserveCacheStats(hits, misses uint64) {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()

	if hits > c.lastCacheHits {
		c.cacheHitsTotal.Add(float64(hits - c.lastCacheHits))
		c.lastCacheHits = hits
	}
	if misses > c.lastCacheMisses {
		c.cacheMissesTotal.Add(float64(misses - c.lastCacheMisses))
		c.lastCacheMisses = misses
	}
}

// RecordSanitizerRejection records an expression rejected before parsing.
func (c *Collector) RecordSanitizerRejection() {
	c.sanitizerRejectionsTotal.Inc()
}

// RecordRegexValidation records a pattern validation result
// ("accepted" or "rejected").
func (c *Collector) RecordRegexValidation(accepted bool) {
	result := "rejected"
	if accepted {
		result = "accepted"
	}
	c.regexValidationsTotal.WithLabelValues(result).Inc()
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(
		c.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
