package domain

import "math/rand"

// AttrActiveWellnessEncounter is the attribute key the driving loop sets while
// an entity is inside an active wellness encounter. The engine mirrors it into
// a module-scoped companion key so state kinds can detect the condition
// without coupling to the encounter subsystem.
const AttrActiveWellnessEncounter = "active_wellness_encounter"

// Entity is one member of the simulated population. Entities are mutated by
// exactly one goroutine at a time; the caller enforces single-writer access.
type Entity struct {
	// ID uniquely identifies the entity within a run.
	ID string

	// Seed drives this entity's private random stream, keeping runs
	// reproducible regardless of population scheduling order.
	Seed int64

	// Born is the simulated timestamp the entity came into existence.
	Born int64

	// Died is the simulated timestamp of death, or nil while alive.
	Died *int64

	// Attributes is the entity's open-keyed state: module histories,
	// encounter flags, and any values state kinds record.
	Attributes map[string]any

	rng *rand.Rand
}

// NewEntity creates an entity with an empty attribute map.
func NewEntity(id string, seed int64, born int64) *Entity {
	return &Entity{
		ID:         id,
		Seed:       seed,
		Born:       born,
		Attributes: make(map[string]any),
	}
}

// Alive reports whether the entity is alive at the given simulated time.
func (e *Entity) Alive(time int64) bool {
	if time < e.Born {
		return false
	}
	return e.Died == nil || time < *e.Died
}

// Rand returns the entity's private random stream, created on first use from
// the entity seed.
func (e *Entity) Rand() *rand.Rand {
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(e.Seed))
	}
	return e.rng
}

// History returns the entity's execution history for the named module, or nil
// if the module has never been processed for this entity.
func (e *Entity) History(module string) *History {
	h, _ := e.Attributes[module].(*History)
	return h
}

// AttachHistory stores a history under the module name key.
func (e *Entity) AttachHistory(module string, h *History) {
	e.Attributes[module] = h
}
