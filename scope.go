package thimble

import (
	"context"

	"github.com/thimble-di/thimble/internal/container"
	"github.com/thimble-di/thimble/internal/lifetime"
)

type Lifetime = lifetime.Lifetime

const (
	Singleton = lifetime.Singleton
	Transient = lifetime.Transient
)

// Scope is a named lifetime boundary. Singleton instances of bindings
// installed here live until the scope closes; child scopes see every binding
// on their parent chain and may shadow them with their own.
type Scope struct {
	inner     *container.Scope
	container *Container
}

func (s *Scope) Name() string {
	return s.inner.Name()
}

func (s *Scope) Container() *Container {
	return s.container
}

// OpenScope opens a child scope. The caller owns its lifetime and must close
// it before closing this scope.
func (s *Scope) OpenScope(name string) (*Scope, error) {
	child, err := s.inner.OpenChild(name)
	if err != nil {
		return nil, wrapErr(err)
	}
	return &Scope{inner: child, container: s.container}, nil
}

// Close seals the scope, waits for in-flight constructions, then releases
// every cached instance in reverse construction order. Closing twice reports
// an ALREADY_CLOSED error; closing before the scope's children is a
// SCOPE_ORDER error and releases nothing.
func (s *Scope) Close(ctx context.Context) error {
	if err := s.inner.Close(ctx); err != nil {
		return wrapErr(err)
	}
	return nil
}

func (s *Scope) Closed() bool {
	return s.inner.Closed()
}

// Plan returns the construction order the injector would use for key,
// dependencies first. Building the plan seals the scope chain.
func (s *Scope) Plan(key string) ([]string, error) {
	plan, err := s.inner.Plan(key)
	if err != nil {
		return nil, wrapErr(err)
	}
	return plan, nil
}

// Keys lists the keys bound directly in this scope, in registration order.
func (s *Scope) Keys() []string {
	return s.inner.Registry().Keys()
}

// Internal exposes the engine scope for the thimbletest package.
func (s *Scope) Internal() *container.Scope {
	return s.inner
}
