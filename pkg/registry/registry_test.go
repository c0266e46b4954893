package registry_test

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/module"
	"github.com/aretw0/pathway/pkg/ports"
	"github.com/aretw0/pathway/pkg/registry"
)

// stubState satisfies the contract with no behavior; registry tests never run
// states.
type stubState struct{ name string }

func (s *stubState) Name() string                            { return s.name }
func (s *stubState) Run(*domain.Entity, int64) (bool, error) { return false, nil }
func (s *stubState) Exited() *int64                          { return nil }
func (s *stubState) Clone() domain.State                     { c := *s; return &c }

func (s *stubState) Transition(*domain.Entity, int64) (string, error) { return "", nil }

func stubBuilder(moduleName, stateName string, raw map[string]any) (domain.State, error) {
	return &stubState{name: stateName}, nil
}

func desc(name string) *module.Description {
	return &module.Description{
		Name:   name,
		States: map[string]map[string]any{"Initial": {"type": "Initial"}},
	}
}

// countingSource wraps refs and counts per-path Load invocations.
type countingSource struct {
	refs  []ports.ModuleRef
	loads map[string]*atomic.Int32
}

func newCountingSource(paths ...string) *countingSource {
	s := &countingSource{loads: make(map[string]*atomic.Int32)}
	for _, p := range paths {
		p := p
		counter := &atomic.Int32{}
		s.loads[p] = counter
		s.refs = append(s.refs, ports.ModuleRef{
			Path:      p,
			Submodule: containsSlash(p),
			Load: func() (*module.Description, error) {
				counter.Add(1)
				return desc(p), nil
			},
		})
	}
	return s
}

func containsSlash(p string) bool {
	for _, c := range p {
		if c == '/' {
			return true
		}
	}
	return false
}

func (s *countingSource) Modules() ([]ports.ModuleRef, error) { return s.refs, nil }

func TestGet_SingleRealizationUnderConcurrency(t *testing.T) {
	src := newCountingSource("appendicitis")
	reg := registry.New()
	reg.Discover(src, stubBuilder)

	const n = 64
	results := make([]*module.Definition, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = reg.Get("appendicitis")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, int32(1), src.loads["appendicitis"].Load(), "exactly one load")
	for _, def := range results {
		assert.Same(t, results[0], def, "all callers share one definition")
	}
}

func TestGet_FaultIsPermanentAndShared(t *testing.T) {
	var loads atomic.Int32
	src := &countingSource{refs: []ports.ModuleRef{{
		Path: "broken",
		Load: func() (*module.Description, error) {
			loads.Add(1)
			return nil, fmt.Errorf("malformed description")
		},
	}}}
	reg := registry.New()
	reg.Discover(src, stubBuilder)

	_, err1 := reg.Get("broken")
	_, err2 := reg.Get("broken")
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, err1, err2, "every caller observes the same captured failure")
	assert.Equal(t, int32(1), loads.Load(), "failed loads are never retried")

	var loadErr *registry.LoadError
	require.True(t, errors.As(err1, &loadErr))
	assert.Equal(t, "broken", loadErr.Path)
}

func TestGet_UnknownIdentity(t *testing.T) {
	reg := registry.New()
	_, err := reg.Get("missing")
	assert.True(t, errors.Is(err, domain.ErrModuleNotFound))
}

func TestList_ForcesSubmoduleRealization(t *testing.T) {
	src := newCountingSource("top", "nested/sub")
	reg := registry.New()
	reg.Discover(src, stubBuilder)

	defs, err := reg.List(func(path string) bool { return false })
	require.NoError(t, err)

	assert.Empty(t, defs, "predicate rejected every file-backed module")
	assert.Equal(t, int32(1), src.loads["nested/sub"].Load(), "submodules realize eagerly during listing")
	assert.Equal(t, int32(0), src.loads["top"].Load(), "rejected top-level module stays lazy")
}

func TestList_CoreBypassesPredicate(t *testing.T) {
	core, err := module.New(desc("Quality Of Life"), false, stubBuilder)
	require.NoError(t, err)

	src := newCountingSource("top")
	reg := registry.New()
	reg.RegisterCore(core)
	reg.Discover(src, stubBuilder)

	defs, err := reg.List(func(path string) bool { return false })
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Same(t, core, defs[0], "core modules are listed regardless of the predicate")
}

func TestList_NilPredicateAcceptsEverything(t *testing.T) {
	src := newCountingSource("a", "b", "nested/sub")
	reg := registry.New()
	reg.Discover(src, stubBuilder)

	defs, err := reg.List(nil)
	require.NoError(t, err)
	assert.Len(t, defs, 2, "submodules are realized but never listed")
}

func TestNames_IncludesUnrealizedEntries(t *testing.T) {
	src := newCountingSource("a", "nested/sub")
	core, err := module.New(desc("Quality Of Life"), false, stubBuilder)
	require.NoError(t, err)

	reg := registry.New()
	reg.RegisterCore(core)
	reg.Discover(src, stubBuilder)

	assert.Equal(t, []string{"a", "core/Quality Of Life Module", "nested/sub"}, reg.Names())
	assert.Equal(t, int32(0), src.loads["a"].Load(), "enumeration realizes nothing")
}

type failingSource struct{}

func (failingSource) Modules() ([]ports.ModuleRef, error) {
	return nil, fmt.Errorf("resource tree not found")
}

func TestDiscover_FailureIsNonFatal(t *testing.T) {
	reg := registry.New()
	reg.Discover(failingSource{}, stubBuilder)
	assert.Empty(t, reg.Names(), "failed discovery yields zero file-backed modules")
}

func TestLoadObserver(t *testing.T) {
	src := newCountingSource("a")
	var observed []string
	var failures int
	reg := registry.New(registry.WithLoadObserver(func(path string, err error) {
		observed = append(observed, path)
		if err != nil {
			failures++
		}
	}))
	reg.Discover(src, stubBuilder)

	_, err := reg.Get("a")
	require.NoError(t, err)
	_, err = reg.Get("a")
	require.NoError(t, err)

	assert.Equal(t, []string{"a"}, observed, "observer fires once per realization")
	assert.Zero(t, failures)
}
