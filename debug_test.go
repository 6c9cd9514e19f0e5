package thimble

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDebugContainer(t *testing.T) *Container {
	t.Helper()

	c := New()
	root := c.Root()

	require.NoError(t, ProvideValue(root, &testConfig{Port: 1}))
	require.NoError(t, Provide(root, func(_ context.Context, _ Resolver) (*testDB, error) {
		return &testDB{}, nil
	}, WithDependencies(Key[*testConfig]())))
	require.NoError(t, Provide(root, func(_ context.Context, _ Resolver) (*testCounter, error) {
		return &testCounter{}, nil
	}, WithLifetime(Transient)))

	return c
}

func TestContainer_Graph(t *testing.T) {
	t.Parallel()

	c := newDebugContainer(t)

	info := c.Graph()
	require.Len(t, info.Bindings, 3)

	byKey := make(map[string]BindingInfo, len(info.Bindings))
	for _, b := range info.Bindings {
		byKey[b.Key] = b
	}

	cfg := byKey[Key[*testConfig]()]
	assert.Equal(t, "value", cfg.Lifetime)
	assert.Empty(t, cfg.Dependencies)
	assert.Equal(t, []string{Key[*testDB]()}, cfg.Dependents)

	db := byKey[Key[*testDB]()]
	assert.Equal(t, "singleton", db.Lifetime)
	assert.Equal(t, []string{Key[*testConfig]()}, db.Dependencies)
	assert.False(t, db.Cached)

	counter := byKey[Key[*testCounter]()]
	assert.Equal(t, "transient", counter.Lifetime)
}

func TestContainer_GraphReflectsCache(t *testing.T) {
	t.Parallel()

	c := newDebugContainer(t)

	_, err := Resolve[*testDB](context.Background(), c.Root())
	require.NoError(t, err)

	var db BindingInfo
	for _, b := range c.Graph().Bindings {
		if b.Key == Key[*testDB]() {
			db = b
		}
	}
	assert.True(t, db.Cached)
}

func TestContainer_SprintGraph(t *testing.T) {
	t.Parallel()

	c := newDebugContainer(t)

	out := c.SprintGraph()
	assert.Contains(t, out, "○ "+Key[*testConfig]())
	assert.Contains(t, out, Key[*testDB]()+" ← "+Key[*testConfig]())

	_, err := Resolve[*testDB](context.Background(), c.Root())
	require.NoError(t, err)

	out = c.SprintGraph()
	assert.Contains(t, out, "● "+Key[*testDB]())
}

func TestContainer_SprintGraphEmpty(t *testing.T) {
	t.Parallel()

	c := New()
	assert.Contains(t, c.SprintGraph(), "(empty container)")
}

func TestContainer_SprintGraphDOT(t *testing.T) {
	t.Parallel()

	c := newDebugContainer(t)

	out := c.SprintGraphDOT()
	assert.Contains(t, out, "digraph dependencies {")
	assert.Contains(t, out, "rankdir=LR;")
	assert.Contains(t, out, Key[*testDB]())
	assert.Contains(t, out, "-> ")
	assert.Contains(t, out, "}")
}

func TestContainer_SprintBindings(t *testing.T) {
	t.Parallel()

	c := newDebugContainer(t)

	out := c.SprintBindings()
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "LIFETIME")
	assert.Contains(t, out, "singleton")
	assert.Contains(t, out, "transient")
	assert.Contains(t, out, "value")
}

func TestEscapeLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "thimble.testDB", escapeLabel("*github.com/thimble-di/thimble.testDB"))
	assert.Equal(t, "pkg.Type", escapeLabel("pkg.Type"))
}
