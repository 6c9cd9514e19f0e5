// Package thimbletest provides a test harness around a thimble container:
// automatic cleanup of opened scopes, fatal-on-error wrappers for common
// operations, and binding replacement for substituting fakes.
package thimbletest

import (
	"context"
	"sync"

	"github.com/thimble-di/thimble"
)

type TB interface {
	Helper()
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Cleanup(f func())
}

// TestContainer wraps a container and closes every scope opened through it,
// newest first, when the test ends.
type TestContainer struct {
	*thimble.Container
	tb TB

	mu     sync.Mutex
	scopes []*thimble.Scope
}

func New(tb TB, opts ...thimble.Option) *TestContainer {
	tb.Helper()

	c := thimble.New(opts...)
	tc := &TestContainer{
		Container: c,
		tb:        tb,
	}

	tb.Cleanup(func() {
		ctx := context.Background()

		tc.mu.Lock()
		scopes := tc.scopes
		tc.scopes = nil
		tc.mu.Unlock()

		for i := len(scopes) - 1; i >= 0; i-- {
			if scopes[i].Closed() {
				continue
			}
			if err := scopes[i].Close(ctx); err != nil {
				tb.Fatalf("failed to close scope %s: %v", scopes[i].Name(), err)
			}
		}

		if err := c.Close(ctx); err != nil && !thimble.IsAlreadyClosed(err) {
			tb.Fatalf("failed to close container: %v", err)
		}
	})

	return tc
}

// OpenScope opens a child of the root scope and schedules it for cleanup.
func (tc *TestContainer) OpenScope(name string) *thimble.Scope {
	tc.tb.Helper()

	s, err := tc.Container.OpenScope(name)
	if err != nil {
		tc.tb.Fatalf("failed to open scope %s: %v", name, err)
	}

	tc.mu.Lock()
	tc.scopes = append(tc.scopes, s)
	tc.mu.Unlock()

	return s
}

func (tc *TestContainer) RequireValidate() {
	tc.tb.Helper()

	if err := tc.Validate(); err != nil {
		tc.tb.Fatalf("container validation failed: %v", err)
	}
}

func (tc *TestContainer) RequireClose(ctx context.Context) {
	tc.tb.Helper()

	if err := tc.Close(ctx); err != nil {
		tc.tb.Fatalf("failed to close container: %v", err)
	}
}

// Replace swaps the root binding for T with a fixed value. Must run before
// the first resolution seals the registry.
func Replace[T any](tc *TestContainer, value T) {
	tc.tb.Helper()

	if err := thimble.ReplaceValue(tc.Root(), value); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", thimble.Key[T](), err)
	}
}

func ReplaceNamed[T any](tc *TestContainer, name string, value T) {
	tc.tb.Helper()

	if err := thimble.ReplaceNamedValue(tc.Root(), name, value); err != nil {
		tc.tb.Fatalf("failed to replace %s: %v", thimble.NamedKey[T](name), err)
	}
}

func ReplaceProvider[T any](tc *TestContainer, provider thimble.Provider[T], opts ...thimble.BindOption) {
	tc.tb.Helper()

	if err := thimble.Replace(tc.Root(), provider, opts...); err != nil {
		tc.tb.Fatalf("failed to replace provider %s: %v", thimble.Key[T](), err)
	}
}

func MustProvide[T any](tc *TestContainer, provider thimble.Provider[T], opts ...thimble.BindOption) {
	tc.tb.Helper()

	if err := thimble.Provide(tc.Root(), provider, opts...); err != nil {
		tc.tb.Fatalf("failed to provide %s: %v", thimble.Key[T](), err)
	}
}

func MustProvideValue[T any](tc *TestContainer, value T, opts ...thimble.BindOption) {
	tc.tb.Helper()

	if err := thimble.ProvideValue(tc.Root(), value, opts...); err != nil {
		tc.tb.Fatalf("failed to provide value %s: %v", thimble.Key[T](), err)
	}
}

func MustResolve[T any](tc *TestContainer, s *thimble.Scope) T {
	tc.tb.Helper()

	v, err := thimble.Resolve[T](context.Background(), s)
	if err != nil {
		tc.tb.Fatalf("failed to resolve %s: %v", thimble.Key[T](), err)
	}
	return v
}

func AssertHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if !thimble.Has[T](tc.Root()) {
		tc.tb.Fatalf("expected container to have %s", thimble.Key[T]())
	}
}

func AssertNotHas[T any](tc *TestContainer) {
	tc.tb.Helper()

	if thimble.Has[T](tc.Root()) {
		tc.tb.Fatalf("expected container to not have %s", thimble.Key[T]())
	}
}
