package domain

// State is the polymorphic unit the engine clones and invokes. Prototypes
// live inside a module Definition and are never executed directly; the engine
// obtains an instance via Clone and runs that.
type State interface {
	// Name returns the state's name within its module.
	Name() string

	// Run executes the state's effect for the entity at the given simulated
	// time. It returns true if the module should keep evaluating transitions
	// within the same tick (the state's active period has already elapsed),
	// false if the module must suspend and wait for a future tick.
	Run(e *Entity, time int64) (bool, error)

	// Transition computes the name of the next state. It is called only
	// after Run returned true.
	Transition(e *Entity, time int64) (string, error)

	// Exited returns the simulated timestamp at which the state's active
	// period ended, or nil if it is still open or not applicable.
	Exited() *int64

	// Clone produces an independent instance with the same configuration,
	// safe to mutate without affecting the prototype or any other entity's
	// instance.
	Clone() State
}

// Terminal marks a state kind that ends a module irrevocably. The engine
// tests for this tag without knowledge of any other state kind.
type Terminal interface {
	State
	Terminal()
}

// Spanned is an optional extension for states that record when they became
// active. Exporters and tests use it; the engine itself does not require it.
type Spanned interface {
	Entered() *int64
}

// IsTerminal reports whether s carries the terminal tag.
func IsTerminal(s State) bool {
	_, ok := s.(Terminal)
	return ok
}
