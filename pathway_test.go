package pathway_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pathway"
	"github.com/aretw0/pathway/pkg/adapters/memory"
	"github.com/aretw0/pathway/pkg/domain"
	"github.com/aretw0/pathway/pkg/module"
)

func checkupDescriptions() *memory.Source {
	src := memory.New()
	src.Add("checkup", &module.Description{
		Name:    "Checkup",
		Remarks: []string{"annual checkup with a nested screening"},
		States: map[string]map[string]any{
			"Initial": {"type": "Initial", "direct_transition": "Screen"},
			"Screen": {
				"type":              "CallSubmodule",
				"submodule":         "screening/basic",
				"direct_transition": "Done",
			},
			"Done": {"type": "Terminal"},
		},
	})
	src.Add("screening/basic", &module.Description{
		Name: "Basic Screening",
		States: map[string]map[string]any{
			"Initial": {"type": "Initial", "direct_transition": "Done"},
			"Done":    {"type": "Terminal"},
		},
	})
	return src
}

func TestEngine_EndToEndWithSubmodule(t *testing.T) {
	eng, err := pathway.New("", pathway.WithSource(checkupDescriptions()))
	require.NoError(t, err)

	defs, err := eng.List(nil)
	require.NoError(t, err)
	require.Len(t, defs, 1, "submodule is loaded but not listed")
	checkup := defs[0]

	e := domain.NewEntity("p1", 7, 0)
	done, err := eng.Process(checkup, e, 0)
	require.NoError(t, err)
	assert.True(t, done)

	assert.NotNil(t, e.History("Checkup Module"))
	assert.NotNil(t, e.History("Basic Screening Module"), "submodule call leaves its own history")
	assert.Equal(t, "Done", e.History("Checkup Module").Current().Name())
}

func TestEngine_GetAndNames(t *testing.T) {
	eng, err := pathway.New("", pathway.WithSource(checkupDescriptions()))
	require.NoError(t, err)

	assert.Equal(t, []string{"checkup", "screening/basic"}, eng.Names())

	def, err := eng.Get("screening/basic")
	require.NoError(t, err)
	assert.True(t, def.Submodule())

	_, err = eng.Get("nope")
	assert.ErrorIs(t, err, domain.ErrModuleNotFound)
}

func TestEngine_FilesystemDiscovery(t *testing.T) {
	dir := t.TempDir()
	data := `{"name":"Flu","states":{"Initial":{"type":"Initial","direct_transition":"Done"},"Done":{"type":"Terminal"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "flu.json"), []byte(data), 0o644))

	eng, err := pathway.New(dir)
	require.NoError(t, err)

	def, err := eng.Get("flu")
	require.NoError(t, err)
	assert.Equal(t, "Flu Module", def.Name())

	e := domain.NewEntity("p1", 1, 0)
	done, err := eng.Process(def, e, 50)
	require.NoError(t, err)
	assert.True(t, done)
}

func TestEngine_MissingModulesDirIsNonFatal(t *testing.T) {
	eng, err := pathway.New(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err, "discovery failure must not abort startup")
	assert.Empty(t, eng.Names())
}
