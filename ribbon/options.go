package ribbon

import "math/rand/v2"

type options struct {
	rng RandSource
}

// Option configures NewPartitionedFilter.
type Option func(*options)

// WithRand sets the source of the free bits chosen during back-substitution.
// If nil is passed, a randomly seeded PCG source is used.
func WithRand(rng RandSource) Option {
	return func(o *options) {
		o.rng = rng
	}
}

// WithSeed makes the solution bits reproducible by seeding a PCG source.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
	}
}

func applyOptions(opts []Option) options {
	var o options
	for _, fn := range opts {
		fn(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return o
}
