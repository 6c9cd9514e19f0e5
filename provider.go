package thimble

import (
	"context"

	"github.com/thimble-di/thimble/internal/container"
	"github.com/thimble-di/thimble/internal/lifetime"
	"github.com/thimble-di/thimble/internal/reflect"
)

// Provider builds an instance of T. The Resolver gives access to the
// binding's already-constructed dependencies; use Dep to read them typed.
type Provider[T any] func(ctx context.Context, r Resolver) (T, error)

type BindOption func(*bindConfig)

type bindConfig struct {
	name         string
	dependencies []string
	lifetime     lifetime.Lifetime
	onRelease    []container.ReleaseFunc
}

func applyBindOptions(opts []BindOption) *bindConfig {
	cfg := &bindConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Provide registers a provider for T in the given scope. The binding's
// singleton instance, if any, lives in that scope's cache.
func Provide[T any](s *Scope, provider Provider[T], opts ...BindOption) error {
	cfg := applyBindOptions(opts)

	key := reflect.TypeKey[T]()
	if cfg.name != "" {
		key = reflect.TypeKeyNamed[T](cfg.name)
	}

	wrapped := func(ctx context.Context, r container.Resolver) (any, error) {
		return provider(ctx, r)
	}

	b := &container.Binding{
		Key:          key,
		Provider:     wrapped,
		Lifetime:     cfg.lifetime,
		Dependencies: cfg.dependencies,
		OnRelease:    cfg.onRelease,
	}

	if err := s.inner.Register(b); err != nil {
		return wrapErr(err)
	}
	return nil
}

// ProvideValue registers a pre-built instance. Value bindings are never
// cached and never released; ownership stays with the registrant.
func ProvideValue[T any](s *Scope, value T, opts ...BindOption) error {
	cfg := applyBindOptions(opts)

	key := reflect.TypeKey[T]()
	if cfg.name != "" {
		key = reflect.TypeKeyNamed[T](cfg.name)
	}

	b := &container.Binding{
		Key:      key,
		Value:    value,
		HasValue: true,
	}

	if err := s.inner.Register(b); err != nil {
		return wrapErr(err)
	}
	return nil
}

func ProvideNamed[T any](s *Scope, name string, provider Provider[T], opts ...BindOption) error {
	opts = append(opts, WithName(name))
	return Provide(s, provider, opts...)
}

func ProvideNamedValue[T any](s *Scope, name string, value T, opts ...BindOption) error {
	opts = append(opts, WithName(name))
	return ProvideValue(s, value, opts...)
}

func WithName(name string) BindOption {
	return func(cfg *bindConfig) {
		cfg.name = name
	}
}

// WithDependencies declares the keys this binding consumes. The resolver
// constructs them first and the plan builder validates them eagerly.
func WithDependencies(deps ...string) BindOption {
	return func(cfg *bindConfig) {
		cfg.dependencies = deps
	}
}

func WithLifetime(l Lifetime) BindOption {
	return func(cfg *bindConfig) {
		cfg.lifetime = l
	}
}

// WithOnRelease adds a hook run when the owning scope releases the cached
// instance, before the instance's own Release method if it has one.
func WithOnRelease(hook func(ctx context.Context, instance any) error) BindOption {
	return func(cfg *bindConfig) {
		cfg.onRelease = append(cfg.onRelease, container.ReleaseFunc(hook))
	}
}
