package profile

// Profiler describes one profiling session.
type Profiler struct {
	Mode  string // one of [Modes]; empty disables profiling
	Path  string // output directory
	Quiet bool   // suppress the profiler's own log output
}

// Option configures a [Profiler].
type Option func(Profiler) Profiler

// WithMode sets the profiling mode.
func WithMode(mode string) Option {
	return func(p Profiler) Profiler { p.Mode = mode; return p }
}

// WithPath sets the output directory.
func WithPath(path string) Option {
	return func(p Profiler) Profiler { p.Path = path; return p }
}

// WithQuiet controls the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(p Profiler) Profiler { p.Quiet = quiet; return p }
}

// New returns a Profiler configured by opts.
func New(opts ...Option) Profiler {
	var p Profiler

	for _, opt := range opts {
		p = opt(p)
	}

	return p
}

// Stopper stops a running profiler.
type Stopper interface{ Stop() }

// Start starts profiling and returns the handle that stops it. If the pprof
// build tag is unset or the mode is empty or unknown, Start returns a no-op.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
