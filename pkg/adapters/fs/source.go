// Package fs provides the filesystem module source: a one-time walk of a
// directory tree of structural descriptions in JSON or YAML.
package fs

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/pathway/pkg/module"
	"github.com/aretw0/pathway/pkg/ports"
)

// Source reads module descriptions from a directory tree. Files directly
// under Root are top-level modules; files nested deeper are submodules.
type Source struct {
	Root string
}

// New creates a Source rooted at dir.
func New(dir string) *Source {
	return &Source{Root: dir}
}

// Modules walks the tree once, returning one ref per .json/.yaml/.yml file.
// Identities are relative paths with the extension stripped and separators
// normalized to forward slashes. Reading and decoding the file is deferred
// to each ref's Load.
func (s *Source) Modules() ([]ports.ModuleRef, error) {
	var refs []ports.ModuleRef
	err := filepath.WalkDir(s.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		switch ext {
		case ".json", ".yaml", ".yml":
		default:
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		identity := filepath.ToSlash(strings.TrimSuffix(rel, ext))
		refs = append(refs, ports.ModuleRef{
			Path:      identity,
			Submodule: strings.Contains(identity, "/"),
			Load: func() (*module.Description, error) {
				return readDescription(path, ext)
			},
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", s.Root, err)
	}
	return refs, nil
}

func readDescription(path, ext string) (*module.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var desc module.Description
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &desc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &desc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return &desc, nil
}
