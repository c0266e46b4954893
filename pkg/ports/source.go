package ports

import "github.com/aretw0/pathway/pkg/module"

// ModuleRef is one discoverable structural description.
type ModuleRef struct {
	// Path is the module identity: relative to the discovery root, slash
	// separated, format extension stripped.
	Path string

	// Submodule is true when the file sits more than one level below the
	// discovery root. Submodules are invoked by other modules and are
	// excluded from top-level listings.
	Submodule bool

	// Load reads and decodes the description. It is called at most once,
	// lazily, when the registry first realizes the entry.
	Load func() (*module.Description, error)
}

// Source enumerates the module descriptions available to the registry.
// This decouples the registry from the storage layer (filesystem, memory,
// embedded assets).
type Source interface {
	// Modules lists every description the source can supply. Enumeration
	// must be cheap; the expensive decode is deferred to each ref's Load.
	Modules() ([]ModuleRef, error)
}
