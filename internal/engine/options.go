package engine

import "runtime"

// options configures Pass, Reduce and Session.
type options struct {
	workers   int
	maxPasses int
	reporters []Reporter
}

func defaultOptions() options {
	return options{
		workers:   runtime.GOMAXPROCS(0),
		maxPasses: DefaultMaxPasses,
	}
}

// Option configures the engine.
type Option func(*options)

// WithWorkers sets how many goroutines share the addresses of one pass.
// Values below 1 are treated as 1.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithMaxPasses sets the pass budget of one Reduce call.
// Values below 1 are treated as 1, the single pass that confirms a normal
// form.
//
// Default: DefaultMaxPasses.
// Use WithMaxPasses(3) in tests that exercise the budget.
func WithMaxPasses(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.maxPasses = n
	}
}

// WithReporter registers a reporter that receives every committed revision.
// Only Session uses reporters.
func WithReporter(r Reporter) Option {
	return func(o *options) {
		o.reporters = append(o.reporters, r)
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
