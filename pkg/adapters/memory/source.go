// Package memory provides an in-memory module source for tests and for
// embedding descriptions directly in a host program.
package memory

import (
	"sort"
	"strings"

	"github.com/aretw0/pathway/pkg/module"
	"github.com/aretw0/pathway/pkg/ports"
)

// Source holds descriptions keyed by identity. Identities containing a slash
// register as submodules, mirroring the filesystem nesting rule.
type Source struct {
	descriptions map[string]*module.Description
}

// New creates an empty Source.
func New() *Source {
	return &Source{descriptions: make(map[string]*module.Description)}
}

// Add registers a description under the given identity, replacing any
// previous one.
func (s *Source) Add(path string, desc *module.Description) {
	s.descriptions[path] = desc
}

// Modules returns one ref per added description, in identity order.
func (s *Source) Modules() ([]ports.ModuleRef, error) {
	paths := make([]string, 0, len(s.descriptions))
	for p := range s.descriptions {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	refs := make([]ports.ModuleRef, 0, len(paths))
	for _, p := range paths {
		desc := s.descriptions[p]
		refs = append(refs, ports.ModuleRef{
			Path:      p,
			Submodule: strings.Contains(p, "/"),
			Load: func() (*module.Description, error) {
				return desc, nil
			},
		})
	}
	return refs, nil
}
