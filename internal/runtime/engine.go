// Package runtime implements the per-entity tick interpreter. Given an
// immutable module definition, it advances one entity's private state chain
// through simulated time, cloning prototypes on entry so the shared
// definition stays clean.
package runtime

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/module"
)

// Engine drives module state machines for entities. It holds no per-entity
// state and is safe for concurrent use as long as each entity/module pair has
// a single writer, which the caller enforces.
type Engine struct {
	log   *slog.Logger
	hooks domain.LifecycleHooks
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithLifecycleHooks registers observability callbacks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Process advances the entity's state machine for def up to the given
// simulated time and reports whether the module has reached its terminal
// state. A dead entity is a no-op success: it cannot progress, so it counts
// as complete for bookkeeping.
//
// When a waiting state expired between two calls, Process recurses at the
// expiry timestamp so catch-up transitions are recorded at the simulated
// moment they logically occurred, not at the coarser timestamp of this call.
func (en *Engine) Process(def *module.Definition, e *domain.Entity, time int64) (bool, error) {
	if !e.Alive(time) {
		return true, nil
	}
	name := def.Name()

	hist := e.History(name)
	if hist == nil {
		initial := def.Initial()
		hist = domain.NewHistory(initial)
		e.AttachHistory(name, hist)
		en.enter(e, name, initial, time)
	}

	// Mirror the global wellness-encounter flag into a module-scoped key so
	// state kinds can observe it without coupling to the encounter driver.
	// Cleared unconditionally on every exit path.
	activeKey := domain.AttrActiveWellnessEncounter + " " + name
	if _, ok := e.Attributes[domain.AttrActiveWellnessEncounter]; ok {
		e.Attributes[activeKey] = true
	}
	defer delete(e.Attributes, activeKey)

	current := hist.Current()
	for {
		cont, err := current.Run(e, time)
		if err != nil {
			return false, fmt.Errorf("module %q state %q: %w", name, current.Name(), err)
		}
		if !cont {
			break
		}

		exited := current.Exited()
		nextName, err := current.Transition(e, time)
		if err != nil {
			return false, fmt.Errorf("module %q state %q: %w", name, current.Name(), err)
		}
		proto := def.State(nextName)
		if proto == nil {
			return false, fmt.Errorf("module %q: transition from %q to %q: %w",
				name, current.Name(), nextName, domain.ErrUnknownState)
		}

		prev := current.Name()
		current = proto.Clone()
		hist.Push(current)
		en.transition(e, name, prev, nextName, time)
		en.enter(e, name, current, time)
		if domain.IsTerminal(current) {
			en.complete(e, name, time)
		}

		if exited != nil && *exited < time {
			// A waiting state that expired between cycles: rewind to the
			// expiry so further transitions land at their historical moment.
			if !e.Alive(*exited) {
				return true, nil
			}
			done, err := en.Process(def, e, *exited)
			if err != nil {
				return false, err
			}
			if done {
				return true, nil
			}
			current = hist.Current()
		}
	}
	return domain.IsTerminal(current), nil
}

func (en *Engine) enter(e *domain.Entity, mod string, s domain.State, time int64) {
	en.log.Debug("state enter", "entity", e.ID, "module", mod, "state", s.Name(), "time", time)
	if en.hooks.OnStateEnter != nil {
		en.hooks.OnStateEnter(&domain.StateEvent{EntityID: e.ID, Module: mod, State: s.Name(), Time: time})
	}
}

func (en *Engine) transition(e *domain.Entity, mod, from, to string, time int64) {
	if en.hooks.OnTransition != nil {
		en.hooks.OnTransition(&domain.TransitionEvent{EntityID: e.ID, Module: mod, From: from, To: to, Time: time})
	}
}

func (en *Engine) complete(e *domain.Entity, mod string, time int64) {
	en.log.Debug("module complete", "entity", e.ID, "module", mod, "time", time)
	if en.hooks.OnModuleComplete != nil {
		en.hooks.OnModuleComplete(&domain.ModuleEvent{EntityID: e.ID, Module: mod, Time: time})
	}
}
