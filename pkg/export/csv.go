// Package export writes finished per-entity execution histories to CSV.
//
// Two table-style files are produced, suitable for loading into any database:
// entities.csv (one row per entity) and states.csv (one row per state
// visited, with the entity ID as the foreign key). Export is a pure consumer
// of history; it never touches the engine.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/aretw0/pathway/pkg/domain"
)

// CSV appends entity results to entities.csv and states.csv under a
// directory. Safe for concurrent use; rows from one entity stay contiguous.
type CSV struct {
	mu       sync.Mutex
	entities *csv.Writer
	states   *csv.Writer
	files    []*os.File
}

// NewCSV creates the output directory and both files with header rows.
func NewCSV(dir string) (*CSV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	x := &CSV{}
	for _, spec := range []struct {
		name   string
		header []string
		dst    **csv.Writer
	}{
		{"entities.csv", []string{"id", "seed", "born", "died"}, &x.entities},
		{"states.csv", []string{"entity", "module", "state", "entered", "exited"}, &x.states},
	} {
		f, err := os.Create(filepath.Join(dir, spec.name))
		if err != nil {
			x.Close()
			return nil, fmt.Errorf("create %s: %w", spec.name, err)
		}
		w := csv.NewWriter(f)
		if err := w.Write(spec.header); err != nil {
			x.Close()
			return nil, err
		}
		x.files = append(x.files, f)
		*spec.dst = w
	}
	return x, nil
}

// Export writes one entity's row plus a state row per history record for each
// named module. History is stored most-recent-first; rows come out oldest
// first so the file reads chronologically.
func (x *CSV) Export(e *domain.Entity, modules []string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	died := ""
	if e.Died != nil {
		died = strconv.FormatInt(*e.Died, 10)
	}
	if err := x.entities.Write([]string{e.ID, strconv.FormatInt(e.Seed, 10), strconv.FormatInt(e.Born, 10), died}); err != nil {
		return err
	}

	for _, mod := range modules {
		hist := e.History(mod)
		if hist == nil {
			continue
		}
		for i := hist.Len() - 1; i >= 0; i-- {
			s := hist.Records[i]
			row := []string{e.ID, mod, s.Name(), timestamp(entered(s)), timestamp(s.Exited())}
			if err := x.states.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close flushes and closes both files.
func (x *CSV) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.entities != nil {
		x.entities.Flush()
	}
	if x.states != nil {
		x.states.Flush()
	}
	var firstErr error
	for _, f := range x.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	x.files = nil
	return firstErr
}

func entered(s domain.State) *int64 {
	if sp, ok := s.(domain.Spanned); ok {
		return sp.Entered()
	}
	return nil
}

func timestamp(t *int64) string {
	if t == nil {
		return ""
	}
	return strconv.FormatInt(*t, 10)
}
