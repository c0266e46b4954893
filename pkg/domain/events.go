package domain

// StateEvent describes a state becoming the current state for an entity.
type StateEvent struct {
	EntityID string
	Module   string
	State    string
	Time     int64
}

// TransitionEvent describes one edge taken in a module's state machine.
type TransitionEvent struct {
	EntityID string
	Module   string
	From     string
	To       string
	Time     int64
}

// ModuleEvent describes a module reaching its terminal state for an entity.
type ModuleEvent struct {
	EntityID string
	Module   string
	Time     int64
}

// LifecycleHooks defines optional callbacks for engine observability.
// Nil members are skipped. Hooks run synchronously on the processing
// goroutine and must be cheap.
type LifecycleHooks struct {
	OnStateEnter     func(*StateEvent)
	OnTransition     func(*TransitionEvent)
	OnModuleComplete func(*ModuleEvent)
}

// Combine merges hook sets so that every non-nil callback in each set fires.
func Combine(sets ...LifecycleHooks) LifecycleHooks {
	var out LifecycleHooks
	for _, s := range sets {
		s := s
		if s.OnStateEnter != nil {
			prev := out.OnStateEnter
			out.OnStateEnter = func(e *StateEvent) {
				if prev != nil {
					prev(e)
				}
				s.OnStateEnter(e)
			}
		}
		if s.OnTransition != nil {
			prev := out.OnTransition
			out.OnTransition = func(e *TransitionEvent) {
				if prev != nil {
					prev(e)
				}
				s.OnTransition(e)
			}
		}
		if s.OnModuleComplete != nil {
			prev := out.OnModuleComplete
			out.OnModuleComplete = func(e *ModuleEvent) {
				if prev != nil {
					prev(e)
				}
				s.OnModuleComplete(e)
			}
		}
	}
	return out
}
