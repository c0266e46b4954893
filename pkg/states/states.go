package states

import (
	"fmt"

	"github.com/aretw0/pathway/pkg/domain"
)

// base carries the fields every state kind shares. Prototypes keep entered
// and exited nil; instances set them as they run.
type base struct {
	module  string
	state   string
	entered *int64
	exited  *int64
}

func (b *base) Name() string { return b.state }

// Entered returns when the instance became active, nil for prototypes.
func (b *base) Entered() *int64 { return b.entered }

// Exited returns when the instance's active period ended, nil while open.
func (b *base) Exited() *int64 { return b.exited }

func (b *base) enter(time int64) {
	if b.entered == nil {
		t := time
		b.entered = &t
	}
}

func (b *base) exit(time int64) {
	t := time
	b.exited = &t
}

// Simple passes through in the same tick: its active period is instantaneous.
// The "Initial" entry state is a Simple.
type Simple struct {
	base
	transitions transitioner
}

func (s *Simple) Run(e *domain.Entity, time int64) (bool, error) {
	s.enter(time)
	s.exit(time)
	return true, nil
}

func (s *Simple) Transition(e *domain.Entity, time int64) (string, error) {
	return s.transitions.next(e, s.module, time)
}

func (s *Simple) Clone() domain.State {
	c := *s
	c.entered, c.exited = nil, nil
	return &c
}

// TerminalState ends the module irrevocably. It never transitions.
type TerminalState struct {
	base
}

func (s *TerminalState) Run(e *domain.Entity, time int64) (bool, error) {
	s.enter(time)
	return false, nil
}

func (s *TerminalState) Transition(e *domain.Entity, time int64) (string, error) {
	return "", fmt.Errorf("terminal state %q cannot transition", s.state)
}

func (s *TerminalState) Clone() domain.State {
	c := *s
	c.entered, c.exited = nil, nil
	return &c
}

// Terminal tags the state for the engine's completion check.
func (s *TerminalState) Terminal() {}

// Delay waits a fixed or entity-randomized amount of simulated time. Its
// expiry is what drives the engine's rewind rule when the wait outlasts the
// interval between two processing calls.
type Delay struct {
	base
	low, high   int64 // millis; equal for exact delays
	until       *int64
	transitions transitioner
}

func (s *Delay) Run(e *domain.Entity, time int64) (bool, error) {
	if s.until == nil {
		s.enter(time)
		d := s.low
		if s.high > s.low {
			d += e.Rand().Int63n(s.high - s.low + 1)
		}
		u := time + d
		s.until = &u
	}
	if time >= *s.until {
		// exited records the expiry, not the observation time; the engine
		// rewinds to it when it lies in the past.
		s.exited = s.until
		return true, nil
	}
	return false, nil
}

func (s *Delay) Transition(e *domain.Entity, time int64) (string, error) {
	return s.transitions.next(e, s.module, time)
}

func (s *Delay) Clone() domain.State {
	c := *s
	c.entered, c.exited, c.until = nil, nil, nil
	return &c
}

// Guard blocks until its allow condition holds for the entity.
type Guard struct {
	base
	allow       *Condition
	transitions transitioner
}

func (s *Guard) Run(e *domain.Entity, time int64) (bool, error) {
	s.enter(time)
	ok, err := s.allow.eval(e, s.module, time)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	s.exit(time)
	return true, nil
}

func (s *Guard) Transition(e *domain.Entity, time int64) (string, error) {
	return s.transitions.next(e, s.module, time)
}

func (s *Guard) Clone() domain.State {
	c := *s
	c.entered, c.exited = nil, nil
	return &c
}

// CallSubmodule advances a registry submodule inline each tick and passes
// through once the submodule completes.
type CallSubmodule struct {
	base
	submodule   string
	runner      SubmoduleRunner
	transitions transitioner
}

func (s *CallSubmodule) Run(e *domain.Entity, time int64) (bool, error) {
	s.enter(time)
	if s.runner == nil {
		return false, fmt.Errorf("no submodule runner configured for %q", s.submodule)
	}
	done, err := s.runner.RunSubmodule(s.submodule, e, time)
	if err != nil {
		return false, err
	}
	if !done {
		return false, nil
	}
	s.exit(time)
	return true, nil
}

func (s *CallSubmodule) Transition(e *domain.Entity, time int64) (string, error) {
	return s.transitions.next(e, s.module, time)
}

func (s *CallSubmodule) Clone() domain.State {
	c := *s
	c.entered, c.exited = nil, nil
	return &c
}
