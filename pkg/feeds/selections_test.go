package feeds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionsSetAndGet(t *testing.T) {
	sel := NewSelections()
	impl := &Implementation{ID: "sha256:abc", Version: "1.0"}
	sel.Set("https://x/app.yaml", impl)

	got, ok := sel.Get("https://x/app.yaml")
	require.True(t, ok)
	assert.Same(t, impl, got)

	_, ok = sel.Get("https://x/other.yaml")
	assert.False(t, ok)
	assert.Equal(t, 1, sel.Len())
}

func TestSelectionsSetNilPanics(t *testing.T) {
	sel := NewSelections()
	assert.Panics(t, func() { sel.Set("https://x/app.yaml", nil) })
}

func TestSelectionsURIsSorted(t *testing.T) {
	sel := NewSelections()
	impl := &Implementation{ID: "sha256:abc"}
	sel.Set("https://x/c.yaml", impl)
	sel.Set("https://x/a.yaml", impl)
	sel.Set("https://x/b.yaml", impl)

	assert.Equal(t, []string{"https://x/a.yaml", "https://x/b.yaml", "https://x/c.yaml"}, sel.URIs())
}

func TestSelectionsNilSafe(t *testing.T) {
	var sel *Selections
	_, ok := sel.Get("https://x/app.yaml")
	assert.False(t, ok)
	assert.Equal(t, 0, sel.Len())
	assert.Nil(t, sel.URIs())
}
