package module

// Description is the structural form of a pathway file. The engine extracts
// exactly these three top-level keys; everything inside a state body is opaque
// and passed through to the state construction boundary.
type Description struct {
	Name    string                    `json:"name" yaml:"name"`
	Remarks []string                  `json:"remarks,omitempty" yaml:"remarks,omitempty"`
	States  map[string]map[string]any `json:"states" yaml:"states"`
}
