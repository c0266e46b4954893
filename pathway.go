package pathway

import (
	"log/slog"

	"github.com/aretw0/pathway/internal/runtime"
	"github.com/aretw0/pathway/pkg/adapters/fs"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/module"
	"github.com/aretw0/pathway/pkg/ports"
	"github.com/aretw0/pathway/pkg/registry"
	"github.com/aretw0/pathway/pkg/states"
)

// Engine is the high-level entry point: a module registry plus the per-entity
// interpreter, wired together. One Engine serves the whole population
// concurrently; callers enforce single-writer access per entity.
type Engine struct {
	log      *slog.Logger
	hooks    domain.LifecycleHooks
	source   ports.Source
	builder  module.StateBuilder
	core     []*module.Definition
	observer registry.LoadObserver

	registry *registry.Registry
	runtime  *runtime.Engine
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the registry and interpreter.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithLifecycleHooks registers observability callbacks on the interpreter.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) { e.hooks = hooks }
}

// WithSource injects a custom module source, bypassing the default
// filesystem walk of the modules directory.
func WithSource(src ports.Source) Option {
	return func(e *Engine) { e.source = src }
}

// WithStateBuilder replaces the built-in state catalog with a host-supplied
// construction boundary.
func WithStateBuilder(b module.StateBuilder) Option {
	return func(e *Engine) { e.builder = b }
}

// WithCoreModules registers built-in definitions eagerly under core/
// identities. Core modules always appear in listings.
func WithCoreModules(defs ...*module.Definition) Option {
	return func(e *Engine) { e.core = append(e.core, defs...) }
}

// WithLoadObserver registers a callback fired once per module realization.
func WithLoadObserver(obs registry.LoadObserver) Option {
	return func(e *Engine) { e.observer = obs }
}

// New creates an Engine discovering modules under modulesDir. Discovery
// failures are logged and non-fatal; they simply yield fewer file-backed
// modules.
func New(modulesDir string, opts ...Option) (*Engine, error) {
	e := &Engine{log: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(e)
	}
	if e.source == nil {
		e.source = fs.New(modulesDir)
	}
	if e.builder == nil {
		catalog := &states.Catalog{Submodules: submoduleRunner{e}}
		e.builder = catalog.Build
	}

	regOpts := []registry.Option{registry.WithLogger(e.log)}
	if e.observer != nil {
		regOpts = append(regOpts, registry.WithLoadObserver(e.observer))
	}
	e.registry = registry.New(regOpts...)
	for _, def := range e.core {
		e.registry.RegisterCore(def)
	}
	e.registry.Discover(e.source, e.builder)

	e.runtime = runtime.New(
		runtime.WithLogger(e.log),
		runtime.WithLifecycleHooks(e.hooks),
	)
	return e, nil
}

// Names returns every known module identity, realized or not.
func (e *Engine) Names() []string {
	return e.registry.Names()
}

// Get returns the definition for an identity, realizing it on first access.
func (e *Engine) Get(path string) (*module.Definition, error) {
	return e.registry.Get(path)
}

// List returns the realized top-level definitions, filtered by pred (nil
// accepts everything). Core modules bypass the predicate, and every
// submodule is realized as a side effect.
func (e *Engine) List(pred func(path string) bool) ([]*module.Definition, error) {
	return e.registry.List(pred)
}

// Process advances one entity through one definition at the given simulated
// time, reporting whether the module has completed.
func (e *Engine) Process(def *module.Definition, entity *domain.Entity, time int64) (bool, error) {
	return e.runtime.Process(def, entity, time)
}

// Registry exposes the underlying catalog for introspection surfaces.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// submoduleRunner lets CallSubmodule states reach back into the engine
// without the states package importing the registry.
type submoduleRunner struct {
	e *Engine
}

func (r submoduleRunner) RunSubmodule(path string, entity *domain.Entity, time int64) (bool, error) {
	def, err := r.e.registry.Get(path)
	if err != nil {
		return false, err
	}
	return r.e.runtime.Process(def, entity, time)
}
