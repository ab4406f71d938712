package observability

import (
	"time"

	"github.com/boddenberg/whichcard-bfa-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// noBestCardLabel is the best_card label value when nothing earns a reward.
const noBestCardLabel = "none"

// Usage-log outcomes.
const (
	UsageQueued  = "queued"
	UsageWritten = "written"
	UsageFailed  = "failed"
	UsageDropped = "dropped"
	UsageSkipped = "skipped"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	evaluations     *prometheus.CounterVec
	usageLog        *prometheus.CounterVec
	externalErrors  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "whichcard_operation_duration_seconds",
				Help:    "Duration of operations.",
				Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"operation"},
		),
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whichcard_evaluations_total",
				Help: "Evaluations by winning card.",
			},
			[]string{"best_card"},
		),
		usageLog: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whichcard_usage_log_total",
				Help: "Usage-log records by outcome.",
			},
			[]string{"outcome"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whichcard_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whichcard_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "whichcard_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
	}
}

// RecordDuration records the duration of an operation.
func (m *Metrics) RecordDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrEvaluation counts one evaluation; best is nil when no card earned anything.
func (m *Metrics) IncrEvaluation(best *domain.CardResult) {
	label := noBestCardLabel
	if best != nil {
		label = string(best.CardID)
	}
	m.evaluations.WithLabelValues(label).Inc()
}

// IncrUsageLog counts a usage-log record by outcome.
func (m *Metrics) IncrUsageLog(outcome string) {
	m.usageLog.WithLabelValues(outcome).Inc()
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// GetUsageSnapshot returns the counters behind GET /v1/metrics/usage.
func (m *Metrics) GetUsageSnapshot() *domain.UsageMetrics {
	snap := &domain.UsageMetrics{
		BestCardCounts: make(map[domain.CardID]int64),
		Period:         "all_time",
	}

	for _, id := range []domain.CardID{
		domain.CardADCB365,
		domain.CardEISwitch,
		domain.CardAjmanUltracash,
		domain.CardSIBCashback,
		domain.CardDIBWalaa,
		domain.CardCitiPremier,
	} {
		n := int64(getCounterValue(m.evaluations, string(id)))
		snap.BestCardCounts[id] = n
		snap.Evaluations += n
	}
	snap.NoBestCard = int64(getCounterValue(m.evaluations, noBestCardLabel))
	snap.Evaluations += snap.NoBestCard

	snap.UsageLogQueued = int64(getCounterValue(m.usageLog, UsageQueued))
	snap.UsageLogWritten = int64(getCounterValue(m.usageLog, UsageWritten))
	snap.UsageLogFailed = int64(getCounterValue(m.usageLog, UsageFailed))
	snap.UsageLogDropped = int64(getCounterValue(m.usageLog, UsageDropped))
	snap.UsageLogSkipped = int64(getCounterValue(m.usageLog, UsageSkipped))

	hits := getCounterValue(m.cacheHits, "settings")
	misses := getCounterValue(m.cacheMisses, "settings")
	if hits+misses > 0 {
		snap.SettingsCacheHit = hits / (hits + misses)
	}

	return snap
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
