package game

// Options holds run settings that are not part of the simulation config.
type Options struct {
	Seed      int64
	MaxTicks  uint64 // 0 = run until cancelled
	LogStats  bool
	OutputDir string // empty disables CSV output
}

// DefaultOptions returns the default run options.
func DefaultOptions() Options {
	return Options{Seed: 42}
}
