package kmeanstep

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/hupe1980/kmeanstep/internal/kmeans"
)

const (
	// DefaultK is the cluster count of a new session.
	DefaultK = 3

	// DefaultMaxIterations caps a run to convergence.
	DefaultMaxIterations = 300
)

type options struct {
	k                int
	method           Method
	rng              kmeans.Rand
	tolerance        float64
	maxIterations    int
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures a Session.
type Option func(*options)

// WithSeed seeds the session's private random generator.
// Sessions with equal seeds and inputs initialize identically.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand injects the random source used by the seeding strategies.
// The session takes ownership; it must not be shared with other sessions.
func WithRand(rng kmeans.Rand) Option {
	return func(o *options) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithK sets the initial cluster count. Values below 1 are clamped to 1.
func WithK(k int) Option {
	return func(o *options) {
		o.k = max(k, 1)
	}
}

// WithMethod selects the initial initialization method.
func WithMethod(m Method) Option {
	return func(o *options) {
		o.method = m
	}
}

// WithTolerance sets the centroid movement below which a step is considered
// converged. Non-positive values keep the default of 1e-4.
func WithTolerance(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.tolerance = eps
		}
	}
}

// WithMaxIterations caps the number of steps a single Run may take.
// If n <= 0 the cap is disabled.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &kmeanstep.BasicMetricsCollector{}
//	s := kmeanstep.New(kmeanstep.WithMetricsCollector(metrics))
//	// ... use s ...
//	stats := metrics.GetStats()
//	fmt.Printf("Steps: %d, Runs: %d\n", stats.StepCount, stats.RunCount)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for session operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		k:                DefaultK,
		tolerance:        kmeans.DefaultTolerance,
		maxIterations:    DefaultMaxIterations,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return o
}
