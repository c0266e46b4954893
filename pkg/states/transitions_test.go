package states_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/states"
)

func next(t *testing.T, raw map[string]any, e *domain.Entity) string {
	t.Helper()
	s := build(t, raw).Clone()
	cont, err := s.Run(e, 0)
	require.NoError(t, err)
	require.True(t, cont)
	name, err := s.Transition(e, 0)
	require.NoError(t, err)
	return name
}

func TestTransitions_MissingIsLoadError(t *testing.T) {
	c := &states.Catalog{}
	_, err := c.Build("Test Module", "S", map[string]any{"type": "Simple"})
	assert.ErrorContains(t, err, "no transition")
}

func TestConditionalTransition(t *testing.T) {
	raw := map[string]any{
		"type": "Simple",
		"conditional_transition": []any{
			map[string]any{
				"condition": map[string]any{
					"condition_type": "Attribute",
					"attribute":      "smoker",
					"operator":       "==",
					"value":          true,
				},
				"transition": "AtRisk",
			},
			map[string]any{"transition": "Healthy"},
		},
	}

	smoker := domain.NewEntity("s", 1, 0)
	smoker.Attributes["smoker"] = true
	assert.Equal(t, "AtRisk", next(t, raw, smoker))

	other := domain.NewEntity("o", 1, 0)
	assert.Equal(t, "Healthy", next(t, raw, other), "nil condition is the default branch")
}

func TestConditionalTransition_NoBranchMatched(t *testing.T) {
	raw := map[string]any{
		"type": "Simple",
		"conditional_transition": []any{
			map[string]any{
				"condition":  map[string]any{"condition_type": "False"},
				"transition": "Never",
			},
		},
	}
	s := build(t, raw).Clone()
	e := domain.NewEntity("e", 1, 0)
	_, err := s.Run(e, 0)
	require.NoError(t, err)
	_, err = s.Transition(e, 0)
	assert.ErrorContains(t, err, "no conditional branch matched")
}

func TestDistributedTransition(t *testing.T) {
	always := map[string]any{
		"type": "Simple",
		"distributed_transition": []any{
			map[string]any{"distribution": 1.0, "transition": "Only"},
		},
	}
	e := domain.NewEntity("e", 1, 0)
	assert.Equal(t, "Only", next(t, always, e))

	skewed := map[string]any{
		"type": "Simple",
		"distributed_transition": []any{
			map[string]any{"distribution": 0.0, "transition": "Never"},
			map[string]any{"distribution": 1.0, "transition": "Always"},
		},
	}
	for i := int64(0); i < 10; i++ {
		e := domain.NewEntity("e", i, 0)
		assert.Equal(t, "Always", next(t, skewed, e))
	}
}

func TestDistributedTransition_UnderweightFallsThrough(t *testing.T) {
	raw := map[string]any{
		"type": "Simple",
		"distributed_transition": []any{
			map[string]any{"distribution": 0.0, "transition": "A"},
			map[string]any{"distribution": 0.0, "transition": "Last"},
		},
	}
	e := domain.NewEntity("e", 3, 0)
	assert.Equal(t, "Last", next(t, raw, e))
}

func TestConditions(t *testing.T) {
	e := domain.NewEntity("e", 1, 1000)
	e.Attributes["weight"] = 80.5
	e.Attributes["name"] = "ada"

	cases := []struct {
		label string
		cond  map[string]any
		want  bool
	}{
		{"numeric <", map[string]any{"condition_type": "Attribute", "attribute": "weight", "operator": "<", "value": 100.0}, true},
		{"numeric >=", map[string]any{"condition_type": "Attribute", "attribute": "weight", "operator": ">=", "value": 100.0}, false},
		{"string ==", map[string]any{"condition_type": "Attribute", "attribute": "name", "operator": "==", "value": "ada"}, true},
		{"string !=", map[string]any{"condition_type": "Attribute", "attribute": "name", "operator": "!=", "value": "ada"}, false},
		{"is nil on absent", map[string]any{"condition_type": "Attribute", "attribute": "ghost", "operator": "is nil"}, true},
		{"is not nil on absent", map[string]any{"condition_type": "Attribute", "attribute": "ghost", "operator": "is not nil"}, false},
		{"absent attribute compares false", map[string]any{"condition_type": "Attribute", "attribute": "ghost", "operator": "==", "value": 1.0}, false},
		{"true literal", map[string]any{"condition_type": "True"}, true},
		{"and", map[string]any{"condition_type": "And", "conditions": []any{
			map[string]any{"condition_type": "True"},
			map[string]any{"condition_type": "False"},
		}}, false},
		{"or", map[string]any{"condition_type": "Or", "conditions": []any{
			map[string]any{"condition_type": "False"},
			map[string]any{"condition_type": "True"},
		}}, true},
		{"not", map[string]any{"condition_type": "Not", "condition": map[string]any{"condition_type": "False"}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.label, func(t *testing.T) {
			raw := map[string]any{
				"type":              "Guard",
				"allow":             tc.cond,
				"direct_transition": "Next",
			}
			s := build(t, raw).Clone()
			pass, err := s.Run(e, 0)
			require.NoError(t, err)
			assert.Equal(t, tc.want, pass)
		})
	}
}

func TestCondition_AgeUsesSimulatedTime(t *testing.T) {
	raw := map[string]any{
		"type": "Guard",
		"allow": map[string]any{
			"condition_type": "Age",
			"operator":       ">=",
			"value":          500.0,
		},
		"direct_transition": "Next",
	}
	e := domain.NewEntity("e", 1, 1000)

	young := build(t, raw).Clone()
	pass, err := young.Run(e, 1200)
	require.NoError(t, err)
	assert.False(t, pass)

	old := build(t, raw).Clone()
	pass, err = old.Run(e, 1600)
	require.NoError(t, err)
	assert.True(t, pass)
}
