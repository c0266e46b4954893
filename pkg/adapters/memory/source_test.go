package memory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pathway/pkg/adapters/memory"
	"github.com/aretw0/pathway/pkg/module"
)

func TestSource(t *testing.T) {
	src := memory.New()
	src.Add("top", &module.Description{Name: "Top"})
	src.Add("nested/sub", &module.Description{Name: "Sub"})

	refs, err := src.Modules()
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, "nested/sub", refs[0].Path)
	assert.True(t, refs[0].Submodule)
	assert.Equal(t, "top", refs[1].Path)
	assert.False(t, refs[1].Submodule)

	desc, err := refs[1].Load()
	require.NoError(t, err)
	assert.Equal(t, "Top", desc.Name)
}
