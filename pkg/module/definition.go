package module

import (
	"fmt"
	"sort"

	"github.com/aretw0/pathway/pkg/domain"
)

// InitialStateName is the required entry state of every module.
const InitialStateName = "Initial"

// StateBuilder constructs a prototype state from its opaque structural body.
// It is the boundary between the engine and the state-kind catalog.
type StateBuilder func(moduleName, stateName string, raw map[string]any) (domain.State, error)

// Definition is one immutable pathway: a display name, documentation remarks,
// and a table of prototype states. A Definition is built once, shared by the
// entire population, and safe for unsynchronized concurrent reads. Prototypes
// are never executed directly; the engine clones them per entity.
type Definition struct {
	name      string
	submodule bool
	remarks   []string
	states    map[string]domain.State
}

// New builds a Definition from a structural description, constructing every
// prototype through the supplied builder.
func New(desc *Description, submodule bool, build StateBuilder) (*Definition, error) {
	if desc.Name == "" {
		return nil, fmt.Errorf("module description missing name")
	}
	if len(desc.States) == 0 {
		return nil, fmt.Errorf("module %q has no states", desc.Name)
	}
	// Display name keeps the historical " Module" suffix; it doubles as the
	// attribute key for per-entity histories.
	name := fmt.Sprintf("%s Module", desc.Name)
	states := make(map[string]domain.State, len(desc.States))
	for stateName, raw := range desc.States {
		s, err := build(name, stateName, raw)
		if err != nil {
			return nil, fmt.Errorf("state %q: %w", stateName, err)
		}
		states[stateName] = s
	}
	if _, ok := states[InitialStateName]; !ok {
		return nil, fmt.Errorf("module %q: %w", desc.Name, domain.ErrNoInitialState)
	}
	remarks := make([]string, len(desc.Remarks))
	copy(remarks, desc.Remarks)
	return &Definition{name: name, submodule: submodule, remarks: remarks, states: states}, nil
}

// FromPrototypes builds a Definition directly from prototype states. Core
// modules and tests use this; file-backed modules go through New.
func FromPrototypes(name string, submodule bool, states map[string]domain.State) (*Definition, error) {
	if _, ok := states[InitialStateName]; !ok {
		return nil, fmt.Errorf("module %q: %w", name, domain.ErrNoInitialState)
	}
	copied := make(map[string]domain.State, len(states))
	for k, v := range states {
		copied[k] = v
	}
	return &Definition{name: name, submodule: submodule, states: copied}, nil
}

// Name returns the display name, e.g. "Appendicitis Module".
func (d *Definition) Name() string { return d.name }

// Submodule reports whether this definition is a reusable fragment invoked by
// other modules rather than a top-level entry point.
func (d *Definition) Submodule() bool { return d.submodule }

// Remarks returns the free-text documentation lines. The returned slice is
// shared and must not be modified.
func (d *Definition) Remarks() []string { return d.remarks }

// State returns the prototype with the given name, or nil if absent.
func (d *Definition) State(name string) domain.State { return d.states[name] }

// Initial returns a fresh clone of the entry state, ready to seed a history.
func (d *Definition) Initial() domain.State {
	return d.states[InitialStateName].Clone()
}

// StateNames returns the sorted names of every state in the table.
func (d *Definition) StateNames() []string {
	names := make([]string, 0, len(d.states))
	for name := range d.states {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
