package thimble

import (
	"context"

	"github.com/thimble-di/thimble/internal/container"
	"github.com/thimble-di/thimble/internal/lifetime"
	"github.com/thimble-di/thimble/internal/reflect"
)

// Replace swaps the binding for T in the given scope, registering it if
// absent. Intended for test setups; fails once the scope has sealed (after
// its first resolution).
func Replace[T any](s *Scope, provider Provider[T], opts ...BindOption) error {
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

	if err := s.inner.Replace(b); err != nil {
		return wrapErr(err)
	}
	return nil
}

func ReplaceValue[T any](s *Scope, value T, opts ...BindOption) error {
	cfg := applyBindOptions(opts)

	key := reflect.TypeKey[T]()
	if cfg.name != "" {
		key = reflect.TypeKeyNamed[T](cfg.name)
	}

	b := &container.Binding{
		Key:      key,
		Value:    value,
		HasValue: true,
		Lifetime: lifetime.Singleton,
	}

	if err := s.inner.Replace(b); err != nil {
		return wrapErr(err)
	}
	return nil
}

func ReplaceNamed[T any](s *Scope, name string, provider Provider[T], opts ...BindOption) error {
	opts = append(opts, WithName(name))
	return Replace(s, provider, opts...)
}

func ReplaceNamedValue[T any](s *Scope, name string, value T, opts ...BindOption) error {
	opts = append(opts, WithName(name))
	return ReplaceValue(s, value, opts...)
}

func MustReplace[T any](s *Scope, provider Provider[T], opts ...BindOption) {
	if err := Replace(s, provider, opts...); err != nil {
		panic(err)
	}
}

func MustReplaceValue[T any](s *Scope, value T, opts ...BindOption) {
	if err := ReplaceValue(s, value, opts...); err != nil {
		panic(err)
	}
}
