package kmeanstep

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting session metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordInitialize is called after each Initialize.
	// err is nil if successful.
	RecordInitialize(method Method, duration time.Duration, err error)

	// RecordStep is called after each non-noop step, including steps taken
	// by Run.
	RecordStep(duration time.Duration, converged bool)

	// RecordRun is called when a Run finishes. steps is the number of states
	// yielded, err is nil if the run converged or ran out of work.
	RecordRun(steps int, duration time.Duration, err error)

	// RecordReset is called whenever the session state is discarded.
	RecordReset()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInitialize(Method, time.Duration, error) {}
func (NoopMetricsCollector) RecordStep(time.Duration, bool)                {}
func (NoopMetricsCollector) RecordRun(int, time.Duration, error)           {}
func (NoopMetricsCollector) RecordReset()                                  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InitializeCount  atomic.Int64
	InitializeErrors atomic.Int64
	StepCount        atomic.Int64
	StepTotalNanos   atomic.Int64
	ConvergedCount   atomic.Int64
	RunCount         atomic.Int64
	RunSteps         atomic.Int64
	RunErrors        atomic.Int64
	ResetCount       atomic.Int64
}

// RecordInitialize implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInitialize(_ Method, _ time.Duration, err error) {
	b.InitializeCount.Add(1)
	if err != nil {
		b.InitializeErrors.Add(1)
	}
}

// RecordStep implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStep(duration time.Duration, converged bool) {
	b.StepCount.Add(1)
	b.StepTotalNanos.Add(duration.Nanoseconds())
	if converged {
		b.ConvergedCount.Add(1)
	}
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(steps int, _ time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunSteps.Add(int64(steps))
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// RecordReset implements MetricsCollector.
func (b *BasicMetricsCollector) RecordReset() {
	b.ResetCount.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InitializeCount:  b.InitializeCount.Load(),
		InitializeErrors: b.InitializeErrors.Load(),
		StepCount:        b.StepCount.Load(),
		StepAvgNanos:     b.getAvgStepNanos(),
		ConvergedCount:   b.ConvergedCount.Load(),
		RunCount:         b.RunCount.Load(),
		RunSteps:         b.RunSteps.Load(),
		RunErrors:        b.RunErrors.Load(),
		ResetCount:       b.ResetCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgStepNanos() int64 {
	count := b.StepCount.Load()
	if count == 0 {
		return 0
	}
	return b.StepTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InitializeCount  int64
	InitializeErrors int64
	StepCount        int64
	StepAvgNanos     int64
	ConvergedCount   int64
	RunCount         int64
	RunSteps         int64
	RunErrors        int64
	ResetCount       int64
}
