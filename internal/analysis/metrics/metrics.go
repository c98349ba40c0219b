// Package metrics provides observability for the analysis module.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks analysis operation counts and durations.
type Metrics struct {
	DomainModelAnalyses     prometheus.Counter
	Prioritizations         prometheus.Counter
	AnalysisDuration        prometheus.Histogram
	RequirementsPerAnalysis prometheus.Histogram
	AnalysisCacheHits       prometheus.Counter
	AnalysisCacheMisses     prometheus.Counter
}

// New creates a Metrics instance with all analysis metrics registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		DomainModelAnalyses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reqforge_domain_model_analyses_total",
			Help: "Total number of domain model analyses performed",
		}),
		Prioritizations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reqforge_prioritizations_total",
			Help: "Total number of requirement prioritizations performed",
		}),
		AnalysisDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reqforge_domain_model_analysis_duration_seconds",
			Help:    "Duration of AnalyzeDomainModel calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		RequirementsPerAnalysis: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "reqforge_requirements_per_analysis",
			Help:    "Number of requirements per analysis call",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500},
		}),
		AnalysisCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reqforge_analysis_cache_hits_total",
			Help: "Domain model analyses served from the cache",
		}),
		AnalysisCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "reqforge_analysis_cache_misses_total",
			Help: "Domain model analyses that missed the cache",
		}),
	}
}

// ObserveAnalysis records one completed analysis over n requirements.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveAnalysis(start time.Time, n int) {
	if m == nil {
		return
	}
	m.DomainModelAnalyses.Inc()
	m.AnalysisDuration.Observe(time.Since(start).Seconds())
	m.RequirementsPerAnalysis.Observe(float64(n))
}

// IncrementPrioritizations records one completed prioritization.
func (m *Metrics) IncrementPrioritizations() {
	if m == nil {
		return
	}
	m.Prioritizations.Inc()
}

// RecordCacheHit records an analysis served from the cache.
func (m *Metrics) RecordCacheHit() {
	if m == nil {
		return
	}
	m.AnalysisCacheHits.Inc()
}

// RecordCacheMiss records an analysis that missed the cache.
func (m *Metrics) RecordCacheMiss() {
	if m == nil {
		return
	}
	m.AnalysisCacheMisses.Inc()
}
