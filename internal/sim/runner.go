// Package sim drives a population run: it generates entities, advances
// simulated time in fixed steps, and processes every top-level module for
// every entity. Entities are distributed over a worker pool; each entity is
// owned by exactly one worker, preserving the single-writer rule.
package sim

import (
	"fmt"
	"log/slog"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/aretw0/pathway"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/module"
)

// Config controls a population run. Times are simulated milliseconds.
type Config struct {
	Population int
	Seed       int64
	Start      int64
	End        int64
	Step       int64
	Workers    int
}

// Exporter consumes finished entities. Implementations must be safe for
// concurrent calls.
type Exporter interface {
	Export(e *domain.Entity, modules []string) error
}

// Stats summarizes a run.
type Stats struct {
	Entities         int
	ModulesCompleted int
}

// Runner executes population runs against one engine.
type Runner struct {
	Engine   *pathway.Engine
	Log      *slog.Logger
	Exporter Exporter // optional
}

// Run simulates the configured population and returns aggregate stats.
// The first module or export error aborts the run.
func (r *Runner) Run(cfg Config) (Stats, error) {
	if cfg.Step <= 0 {
		return Stats{}, fmt.Errorf("step must be positive")
	}
	if r.Log == nil {
		r.Log = slog.New(slog.DiscardHandler)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	mods, err := r.Engine.List(nil)
	if err != nil {
		return Stats{}, fmt.Errorf("list modules: %w", err)
	}
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name()
	}
	r.Log.Info("population run starting",
		"population", cfg.Population, "modules", len(mods), "workers", workers)

	seeds := rand.New(rand.NewSource(cfg.Seed))
	entities := make(chan *domain.Entity)
	results := make(chan runResult, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(entities, mods, names, cfg, results)
		}()
	}

	go func() {
		for i := 0; i < cfg.Population; i++ {
			entities <- r.generate(seeds, cfg)
		}
		close(entities)
		wg.Wait()
		close(results)
	}()

	stats := Stats{}
	var firstErr error
	for res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		stats.Entities++
		stats.ModulesCompleted += res.completed
	}
	if firstErr != nil {
		return stats, firstErr
	}
	r.Log.Info("population run finished",
		"entities", stats.Entities, "completed", stats.ModulesCompleted)
	return stats, nil
}

type runResult struct {
	completed int
	err       error
}

func (r *Runner) worker(entities <-chan *domain.Entity, mods []*module.Definition, names []string, cfg Config, results chan<- runResult) {
	for e := range entities {
		completed, err := r.simulate(e, mods, cfg)
		if err == nil && r.Exporter != nil {
			err = r.Exporter.Export(e, names)
		}
		results <- runResult{completed: completed, err: err}
	}
}

func (r *Runner) simulate(e *domain.Entity, mods []*module.Definition, cfg Config) (int, error) {
	done := make(map[string]bool, len(mods))
	for t := cfg.Start; t <= cfg.End; t += cfg.Step {
		for _, mod := range mods {
			if done[mod.Name()] {
				continue
			}
			finished, err := r.Engine.Process(mod, e, t)
			if err != nil {
				return 0, fmt.Errorf("entity %s: %w", e.ID, err)
			}
			if finished {
				done[mod.Name()] = true
			}
		}
	}
	return len(done), nil
}

// generate creates one entity with a derived seed. A fraction of the
// population receives a death time inside the run window so death
// short-circuit paths are exercised in real runs, not only in tests.
func (r *Runner) generate(seeds *rand.Rand, cfg Config) *domain.Entity {
	e := domain.NewEntity(uuid.NewString(), seeds.Int63(), cfg.Start)
	if cfg.End > cfg.Start && seeds.Float64() < 0.1 {
		died := cfg.Start + seeds.Int63n(cfg.End-cfg.Start)
		e.Died = &died
	}
	return e
}
