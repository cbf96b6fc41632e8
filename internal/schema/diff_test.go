package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffAddedRemovedChanged(t *testing.T) {
	old := map[string]any{"title": "x", "count": 2.0, "gone": "bye"}
	new := map[string]any{"title": "y", "count": 2.0, "fresh": "hi"}

	d := Diff(old, new)
	require.Len(t, d.Changed, 1)
	assert.Equal(t, "title", d.Changed[0].Path)
	require.Len(t, d.Removed, 1)
	assert.Equal(t, "gone", d.Removed[0].Path)
	require.Len(t, d.Added, 1)
	assert.Equal(t, "fresh", d.Added[0].Path)
}

func TestDiffNestedPath(t *testing.T) {
	old := map[string]any{"coordinator": map[string]any{"email": "a@b.com"}}
	new := map[string]any{"coordinator": map[string]any{"email": "c@d.com"}}

	d := Diff(old, new)
	require.Len(t, d.Changed, 1)
	assert.Equal(t, "coordinator.email", d.Changed[0].Path)
}

func TestDiffIgnoresSliceOrder(t *testing.T) {
	old := map[string]any{"rows": []any{
		map[string]any{"title": "a"},
		map[string]any{"title": "b"},
	}}
	new := map[string]any{"rows": []any{
		map[string]any{"title": "b"},
		map[string]any{"title": "a"},
	}}

	d := Diff(old, new)
	assert.True(t, d.Empty())
}

func TestDiffNumericCoercion(t *testing.T) {
	d := Diff(map[string]any{"n": 2}, map[string]any{"n": 2.0})
	assert.True(t, d.Empty())
}

func TestDiffSliceElementChange(t *testing.T) {
	old := map[string]any{"rows": []any{"a", "b"}}
	new := map[string]any{"rows": []any{"a", "c"}}

	d := Diff(old, new)
	require.Len(t, d.Removed, 1)
	require.Len(t, d.Added, 1)
}
