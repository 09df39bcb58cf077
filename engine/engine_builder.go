package engine

// StageBuilderOption is a function that modifies the stage configuration.
type StageBuilderOption func(*stage)

// WithWorkers sets the number of derivation workers.
// Defaults to the CPU count minus one, with a floor of one.
//
// Parameters:
//   - n: the worker count, ignored if less than 1
//
// Returns:
//   - StageBuilderOption: the option function
func WithWorkers(n int) StageBuilderOption {
	return func(s *stage) {
		if n >= 1 {
			s.workers = n
		}
	}
}

// WithChangeCallback registers a function fired after every stage-level
// mutation (Become, SetMaterial, SetEnabled, Touch). Publishers use this
// to schedule a fresh frame.
//
// Parameters:
//   - fn: the callback to fire on change
//
// Returns:
//   - StageBuilderOption: the option function
func WithChangeCallback(fn func()) StageBuilderOption {
	return func(s *stage) {
		s.onChange = fn
	}
}
