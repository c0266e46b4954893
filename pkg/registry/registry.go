package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/module"
	"github.com/aretw0/pathway/pkg/ports"
)

// LoadError captures a failed module realization. The same instance is
// returned to every current and future caller of the failed identity; loads
// are never retried within the process lifetime.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load module %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// LoadObserver is notified once per entry, when its realization attempt
// happens. err is nil on success. Used by the observability package to count
// loads and failures.
type LoadObserver func(path string, err error)

// supplier is one catalog entry: either a core module held eagerly, or a
// file-backed module realized at most once behind a per-entry lock.
// The classic memoized-supplier shape: load once, cache the result or the
// fault, release the loader closure after use.
type supplier struct {
	core      bool
	submodule bool
	path      string

	mu     sync.Mutex
	loaded bool
	module *module.Definition
	fault  error
	loader func() (*module.Definition, error)
}

// get realizes the entry, invoking onLoad exactly once if a load happens.
// Concurrent callers block on the entry lock and observe the same outcome.
func (s *supplier) get(onLoad func(error)) (*module.Definition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		m, err := s.loader()
		if err != nil {
			s.fault = &LoadError{Path: s.path, Err: err}
		} else {
			s.module = m
		}
		s.loaded = true
		s.loader = nil
		if onLoad != nil {
			onLoad(err)
		}
	}
	if s.fault != nil {
		return nil, s.fault
	}
	return s.module, nil
}

// Registry is the process-wide catalog mapping module identities to lazily
// realized definitions. Concurrent first access to one identity blocks behind
// a single realization; the definition (or the captured failure) is then
// shared by all callers.
type Registry struct {
	log      *slog.Logger
	observer LoadObserver

	mu      sync.RWMutex
	entries map[string]*supplier
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger. Defaults to a no-op logger.
func WithLogger(log *slog.Logger) Option {
	return func(r *Registry) { r.log = log }
}

// WithLoadObserver registers a callback fired once per realization attempt.
func WithLoadObserver(obs LoadObserver) Option {
	return func(r *Registry) { r.observer = obs }
}

// New creates an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		log:     slog.New(slog.DiscardHandler),
		entries: make(map[string]*supplier),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterCore adds an already-realized built-in module under the identity
// "core/<name>". Core modules are always included in listings.
func (r *Registry) RegisterCore(def *module.Definition) {
	path := "core/" + def.Name()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[path] = &supplier{
		core:      true,
		submodule: def.Submodule(),
		path:      path,
		loaded:    true,
		module:    def,
	}
}

// Discover walks the source and registers one lazy entry per description.
// Source enumeration failures are logged and leave the registry with only its
// core entries; they never abort the process.
func (r *Registry) Discover(src ports.Source, build module.StateBuilder) {
	refs, err := src.Modules()
	if err != nil {
		r.log.Error("module discovery failed", "err", err)
		return
	}

	submodules := 0
	r.mu.Lock()
	for _, ref := range refs {
		ref := ref
		if ref.Submodule {
			submodules++
		}
		r.entries[ref.Path] = &supplier{
			submodule: ref.Submodule,
			path:      ref.Path,
			loader: func() (*module.Definition, error) {
				desc, err := ref.Load()
				if err != nil {
					return nil, err
				}
				return module.New(desc, ref.Submodule, build)
			},
		}
	}
	total := len(r.entries)
	r.mu.Unlock()

	r.log.Info("scanned modules", "modules", total-submodules, "submodules", submodules)
}

// Get returns the realized definition for an identity. Unknown identities
// yield domain.ErrModuleNotFound; a failed load yields the same captured
// LoadError on every call.
func (r *Registry) Get(path string) (*module.Definition, error) {
	r.mu.RLock()
	s, ok := r.entries[path]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, domain.ErrModuleNotFound)
	}
	return r.realize(s)
}

// List returns the realized top-level definitions: core modules
// unconditionally, file-backed ones when pred accepts their identity. A nil
// pred accepts everything.
//
// Core modules deliberately bypass the predicate; they take part in every
// population run regardless of module selection. As a side effect every
// submodule entry is realized eagerly, because submodules are invoked
// indirectly by the listed modules and must be available, even though they
// are never returned here.
func (r *Registry) List(pred func(path string) bool) ([]*module.Definition, error) {
	r.mu.RLock()
	suppliers := make([]*supplier, 0, len(r.entries))
	for _, s := range r.entries {
		suppliers = append(suppliers, s)
	}
	r.mu.RUnlock()

	var list []*module.Definition
	for _, s := range suppliers {
		switch {
		case s.submodule:
			if _, err := r.realize(s); err != nil {
				return nil, err
			}
		case s.core || pred == nil || pred(s.path):
			def, err := r.realize(s)
			if err != nil {
				return nil, err
			}
			list = append(list, def)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list, nil
}

// Names returns every known identity, realized or not, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for path := range r.entries {
		names = append(names, path)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) realize(s *supplier) (*module.Definition, error) {
	return s.get(func(err error) {
		if err != nil {
			r.log.Error("module load failed", "path", s.path, "err", err)
		} else {
			r.log.Debug("module loaded", "path", s.path, "submodule", s.submodule)
		}
		if r.observer != nil {
			r.observer(s.path, err)
		}
	})
}
