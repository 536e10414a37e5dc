package clubcard

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/clubcard/ribbon"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordStage is called after a filter stage has been collected.
	RecordStage(kind ribbon.Kind, stats ribbon.Stats, duration time.Duration)

	// RecordBuild is called after each Build. err is nil if successful.
	RecordBuild(duration time.Duration, err error)

	// RecordQuery is called after each clubcard lookup with its outcome.
	RecordQuery(result Membership)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordStage(ribbon.Kind, ribbon.Stats, time.Duration) {}
func (NoopMetricsCollector) RecordBuild(time.Duration, error)                     {}
func (NoopMetricsCollector) RecordQuery(Membership)                               {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ApproxStages    atomic.Int64
	ApproxBits      atomic.Int64
	ExactStages     atomic.Int64
	ExactBits       atomic.Int64
	Exceptions      atomic.Int64
	StageTotalNanos atomic.Int64
	BuildCount      atomic.Int64
	BuildErrors     atomic.Int64
	BuildTotalNanos atomic.Int64
	QueryMembers    atomic.Int64
	QueryNonmembers atomic.Int64
	QueryNoData     atomic.Int64
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(kind ribbon.Kind, stats ribbon.Stats, duration time.Duration) {
	switch kind {
	case ribbon.Approximate:
		b.ApproxStages.Add(1)
		b.ApproxBits.Add(int64(stats.SolutionBits))
	case ribbon.Exact:
		b.ExactStages.Add(1)
		b.ExactBits.Add(int64(stats.SolutionBits))
	}
	b.Exceptions.Add(int64(stats.Exceptions))
	b.StageTotalNanos.Add(duration.Nanoseconds())
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(duration time.Duration, err error) {
	b.BuildCount.Add(1)
	b.BuildTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BuildErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(result Membership) {
	switch result {
	case Member:
		b.QueryMembers.Add(1)
	case Nonmember:
		b.QueryNonmembers.Add(1)
	default:
		b.QueryNoData.Add(1)
	}
}

// Stats is a point-in-time snapshot of BasicMetricsCollector.
type Stats struct {
	ApproxBits      int64
	ExactBits       int64
	Exceptions      int64
	BuildCount      int64
	BuildErrors     int64
	BuildAvgNanos   int64
	QueryMembers    int64
	QueryNonmembers int64
	QueryNoData     int64
}

// GetStats returns a snapshot of the collected metrics.
func (b *BasicMetricsCollector) GetStats() Stats {
	s := Stats{
		ApproxBits:      b.ApproxBits.Load(),
		ExactBits:       b.ExactBits.Load(),
		Exceptions:      b.Exceptions.Load(),
		BuildCount:      b.BuildCount.Load(),
		BuildErrors:     b.BuildErrors.Load(),
		QueryMembers:    b.QueryMembers.Load(),
		QueryNonmembers: b.QueryNonmembers.Load(),
		QueryNoData:     b.QueryNoData.Load(),
	}
	if s.BuildCount > 0 {
		s.BuildAvgNanos = b.BuildTotalNanos.Load() / s.BuildCount
	}
	return s
}
