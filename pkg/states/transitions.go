package states

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/pathway/pkg/domain"
)

// transitioner computes the next state name for an entity.
type transitioner interface {
	next(e *domain.Entity, module string, time int64) (string, error)
}

// direct always moves to one fixed state.
type direct struct {
	to string
}

func (t direct) next(*domain.Entity, string, int64) (string, error) {
	return t.to, nil
}

// conditionalBranch pairs an optional condition with a target; a nil
// condition is the default branch.
type conditionalBranch struct {
	Condition  *Condition `mapstructure:"condition"`
	Transition string     `mapstructure:"transition"`
}

type conditional struct {
	branches []conditionalBranch
}

func (t conditional) next(e *domain.Entity, module string, time int64) (string, error) {
	for _, br := range t.branches {
		if br.Condition == nil {
			return br.Transition, nil
		}
		ok, err := br.Condition.eval(e, module, time)
		if err != nil {
			return "", err
		}
		if ok {
			return br.Transition, nil
		}
	}
	return "", fmt.Errorf("no conditional branch matched")
}

// weightedBranch carries a probability mass for distributed transitions.
type weightedBranch struct {
	Distribution float64 `mapstructure:"distribution"`
	Transition   string  `mapstructure:"transition"`
}

type distributed struct {
	branches []weightedBranch
}

func (t distributed) next(e *domain.Entity, module string, time int64) (string, error) {
	roll := e.Rand().Float64()
	cum := 0.0
	for _, br := range t.branches {
		cum += br.Distribution
		if roll < cum {
			return br.Transition, nil
		}
	}
	// distributions summing below 1.0 fall through to the last branch
	return t.branches[len(t.branches)-1].Transition, nil
}

// decodeTransitions extracts whichever transition form the state body uses.
// Exactly one of direct_transition, conditional_transition, or
// distributed_transition must be present on non-terminal states.
func decodeTransitions(raw map[string]any) (transitioner, error) {
	if v, ok := raw["direct_transition"]; ok {
		to, ok := v.(string)
		if !ok || to == "" {
			return nil, fmt.Errorf("direct_transition must be a state name")
		}
		return direct{to: to}, nil
	}
	if v, ok := raw["conditional_transition"]; ok {
		var branches []conditionalBranch
		if err := mapstructure.Decode(v, &branches); err != nil {
			return nil, fmt.Errorf("decode conditional_transition: %w", err)
		}
		if len(branches) == 0 {
			return nil, fmt.Errorf("conditional_transition is empty")
		}
		return conditional{branches: branches}, nil
	}
	if v, ok := raw["distributed_transition"]; ok {
		var branches []weightedBranch
		if err := mapstructure.Decode(v, &branches); err != nil {
			return nil, fmt.Errorf("decode distributed_transition: %w", err)
		}
		if len(branches) == 0 {
			return nil, fmt.Errorf("distributed_transition is empty")
		}
		return distributed{branches: branches}, nil
	}
	return nil, fmt.Errorf("state has no transition")
}
