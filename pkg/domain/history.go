package domain

// History is an entity's private record of the states visited for one module,
// ordered most-recent-first: Records[0] is always the current state, and every
// transition prepends. The full slice is the audit trail of the path taken.
type History struct {
	Records []State
}

// NewHistory creates a history seeded with the entity's start state.
func NewHistory(initial State) *History {
	return &History{Records: []State{initial}}
}

// Current returns the head of the history, the entity's current state.
func (h *History) Current() State {
	return h.Records[0]
}

// Push prepends a newly entered state, making it the current one.
func (h *History) Push(s State) {
	h.Records = append([]State{s}, h.Records...)
}

// Len returns the number of states visited, including the current one.
func (h *History) Len() int {
	return len(h.Records)
}
