package states

import (
	"fmt"

	"github.com/aretw0/pathway/pkg/domain"
)

// Condition is the closed comparison form guards and conditional transitions
// evaluate against an entity. It is deliberately not a general expression
// language.
type Condition struct {
	ConditionType string `mapstructure:"condition_type"`

	// Attribute comparison
	Attribute string `mapstructure:"attribute"`
	Operator  string `mapstructure:"operator"`
	Value     any    `mapstructure:"value"`

	// Boolean combinators
	Conditions []*Condition `mapstructure:"conditions"`
	Condition  *Condition   `mapstructure:"condition"`
}

func (c *Condition) eval(e *domain.Entity, module string, time int64) (bool, error) {
	switch c.ConditionType {
	case "Attribute":
		return c.evalAttribute(e)
	case "Age":
		return compareNumbers(float64(time-e.Born), c.Operator, c.Value)
	case "Active Wellness Encounter":
		_, ok := e.Attributes[domain.AttrActiveWellnessEncounter+" "+module]
		return ok, nil
	case "And":
		for _, sub := range c.Conditions {
			ok, err := sub.eval(e, module, time)
			if err != nil || !ok {
				return false, err
			}
		}
		return true, nil
	case "Or":
		for _, sub := range c.Conditions {
			ok, err := sub.eval(e, module, time)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case "Not":
		if c.Condition == nil {
			return false, fmt.Errorf("not condition missing operand")
		}
		ok, err := c.Condition.eval(e, module, time)
		return !ok, err
	case "True":
		return true, nil
	case "False":
		return false, nil
	default:
		return false, fmt.Errorf("unknown condition type %q", c.ConditionType)
	}
}

func (c *Condition) evalAttribute(e *domain.Entity) (bool, error) {
	got, present := e.Attributes[c.Attribute]
	switch c.Operator {
	case "is nil":
		return !present, nil
	case "is not nil":
		return present, nil
	}
	if !present {
		return false, nil
	}
	if gn, ok := asNumber(got); ok {
		return compareNumbers(gn, c.Operator, c.Value)
	}
	switch c.Operator {
	case "==":
		return got == c.Value, nil
	case "!=":
		return got != c.Value, nil
	}
	return false, fmt.Errorf("operator %q not applicable to attribute %q", c.Operator, c.Attribute)
}

func compareNumbers(got float64, op string, want any) (bool, error) {
	wn, ok := asNumber(want)
	if !ok {
		return false, fmt.Errorf("operator %q needs a numeric value, got %T", op, want)
	}
	switch op {
	case "==":
		return got == wn, nil
	case "!=":
		return got != wn, nil
	case "<":
		return got < wn, nil
	case "<=":
		return got <= wn, nil
	case ">":
		return got > wn, nil
	case ">=":
		return got >= wn, nil
	default:
		return false, fmt.Errorf("unknown operator %q", op)
	}
}

// asNumber normalizes the numeric types JSON and YAML decoding produce.
func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
