package clubcard

import (
	"log/slog"

	"github.com/hupe1980/clubcard/ribbon"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	rng              ribbon.RandSource
	seed             *uint64
}

// Option configures a Builder.
type Option func(*options)

// WithLogger configures structured logging for the build.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := clubcard.NewJSONLogger(slog.LevelInfo)
//	b := clubcard.NewBuilder[keyset.Item](clubcard.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
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

// WithMetricsCollector configures a metrics collector for build and query
// operations. Pass nil to disable metrics collection.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithSeed makes the free bits chosen while solving reproducible, so two
// builds over the same items produce identical artifacts.
//
// By default every build draws its free bits from a freshly seeded source.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.seed = &seed
		o.rng = nil
	}
}

// WithRand sets the source of the free bits chosen while solving.
func WithRand(rng ribbon.RandSource) Option {
	return func(o *options) {
		o.rng = rng
		o.seed = nil
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	return o
}

// ribbonOptions translates the randomness settings for the ribbon package.
// A seeded build derives a distinct stream per stage so the approximate and
// exact solutions do not share free bits.
func (o options) ribbonOptions(kind ribbon.Kind) []ribbon.Option {
	switch {
	case o.rng != nil:
		return []ribbon.Option{ribbon.WithRand(o.rng)}
	case o.seed != nil:
		return []ribbon.Option{ribbon.WithSeed(*o.seed + uint64(kind))}
	default:
		return nil
	}
}
