package states

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/pathway/pkg/domain"
)

// SubmoduleRunner resolves and advances a submodule for an entity. The facade
// wires this to the registry and runtime; keeping it an interface here avoids
// an import cycle between content and engine.
type SubmoduleRunner interface {
	RunSubmodule(path string, e *domain.Entity, time int64) (bool, error)
}

// Catalog builds prototype states from their opaque structural bodies.
// A zero Catalog works as long as no module uses CallSubmodule.
type Catalog struct {
	Submodules SubmoduleRunner
}

// Build satisfies module.StateBuilder. The "type" key selects the kind;
// unknown kinds are a load error.
func (c *Catalog) Build(moduleName, stateName string, raw map[string]any) (domain.State, error) {
	kind, _ := raw["type"].(string)
	b := base{module: moduleName, state: stateName}

	switch kind {
	case "Initial", "Simple":
		tr, err := decodeTransitions(raw)
		if err != nil {
			return nil, err
		}
		return &Simple{base: b, transitions: tr}, nil

	case "Terminal":
		return &TerminalState{base: b}, nil

	case "Delay":
		var cfg struct {
			Exact *struct {
				Quantity float64 `mapstructure:"quantity"`
				Unit     string  `mapstructure:"unit"`
			} `mapstructure:"exact"`
			Range *struct {
				Low  float64 `mapstructure:"low"`
				High float64 `mapstructure:"high"`
				Unit string  `mapstructure:"unit"`
			} `mapstructure:"range"`
		}
		if err := mapstructure.Decode(raw, &cfg); err != nil {
			return nil, fmt.Errorf("decode delay %q: %w", stateName, err)
		}
		tr, err := decodeTransitions(raw)
		if err != nil {
			return nil, err
		}
		d := &Delay{base: b, transitions: tr}
		switch {
		case cfg.Exact != nil:
			ms, err := toMillis(cfg.Exact.Quantity, cfg.Exact.Unit)
			if err != nil {
				return nil, fmt.Errorf("delay %q: %w", stateName, err)
			}
			d.low, d.high = ms, ms
		case cfg.Range != nil:
			low, err := toMillis(cfg.Range.Low, cfg.Range.Unit)
			if err != nil {
				return nil, fmt.Errorf("delay %q: %w", stateName, err)
			}
			high, err := toMillis(cfg.Range.High, cfg.Range.Unit)
			if err != nil {
				return nil, fmt.Errorf("delay %q: %w", stateName, err)
			}
			if high < low {
				return nil, fmt.Errorf("delay %q: range high below low", stateName)
			}
			d.low, d.high = low, high
		default:
			return nil, fmt.Errorf("delay %q: needs exact or range", stateName)
		}
		return d, nil

	case "Guard":
		var cfg struct {
			Allow *Condition `mapstructure:"allow"`
		}
		if err := mapstructure.Decode(raw, &cfg); err != nil {
			return nil, fmt.Errorf("decode guard %q: %w", stateName, err)
		}
		if cfg.Allow == nil {
			return nil, fmt.Errorf("guard %q: missing allow condition", stateName)
		}
		tr, err := decodeTransitions(raw)
		if err != nil {
			return nil, err
		}
		return &Guard{base: b, allow: cfg.Allow, transitions: tr}, nil

	case "CallSubmodule":
		var cfg struct {
			Submodule string `mapstructure:"submodule"`
		}
		if err := mapstructure.Decode(raw, &cfg); err != nil {
			return nil, fmt.Errorf("decode call_submodule %q: %w", stateName, err)
		}
		if cfg.Submodule == "" {
			return nil, fmt.Errorf("call_submodule %q: missing submodule path", stateName)
		}
		tr, err := decodeTransitions(raw)
		if err != nil {
			return nil, err
		}
		return &CallSubmodule{base: b, submodule: cfg.Submodule, runner: c.Submodules, transitions: tr}, nil

	case "":
		return nil, fmt.Errorf("state %q: missing type", stateName)
	default:
		return nil, fmt.Errorf("state %q: unknown type %q", stateName, kind)
	}
}

func toMillis(quantity float64, unit string) (int64, error) {
	var ms float64
	switch unit {
	case "seconds":
		ms = 1000
	case "minutes":
		ms = 60 * 1000
	case "hours":
		ms = 60 * 60 * 1000
	case "days":
		ms = 24 * 60 * 60 * 1000
	case "weeks":
		ms = 7 * 24 * 60 * 60 * 1000
	case "months":
		// calendar-free approximation
		ms = 30 * 24 * 60 * 60 * 1000
	case "years":
		ms = 365 * 24 * 60 * 60 * 1000
	default:
		return 0, fmt.Errorf("unknown time unit %q", unit)
	}
	return int64(quantity * ms), nil
}
