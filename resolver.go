package thimble

import (
	"context"
	"fmt"

	"github.com/thimble-di/thimble/internal/container"
	"github.com/thimble-di/thimble/internal/reflect"
)

// Resolver is the read side of a scope handed to providers and decorators.
type Resolver = container.Resolver

// Key returns the binding key for T.
func Key[T any]() string {
	return reflect.TypeKey[T]()
}

// NamedKey returns the binding key for T qualified with a name.
func NamedKey[T any](name string) string {
	return reflect.TypeKeyNamed[T](name)
}

// Resolve builds or reuses the instance for T as seen from scope s. The full
// dependency plan is validated before any provider runs; singleton instances
// cache in the scope that owns their binding.
func Resolve[T any](ctx context.Context, s *Scope) (T, error) {
	return resolveKey[T](ctx, s, reflect.TypeKey[T]())
}

func ResolveNamed[T any](ctx context.Context, s *Scope, name string) (T, error) {
	return resolveKey[T](ctx, s, reflect.TypeKeyNamed[T](name))
}

func resolveKey[T any](ctx context.Context, s *Scope, key string) (T, error) {
	var zero T

	instance, err := s.inner.Resolve(ctx, key)
	if err != nil {
		return zero, wrapErr(err)
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, newError(
			ErrCodeResolutionFailed,
			fmt.Sprintf("bound instance is not %s", reflect.TypeName[T]()),
			nil,
		).WithKey(key)
	}

	return typed, nil
}

func MustResolve[T any](ctx context.Context, s *Scope) T {
	v, err := Resolve[T](ctx, s)
	if err != nil {
		panic(err)
	}
	return v
}

func MustResolveNamed[T any](ctx context.Context, s *Scope, name string) T {
	v, err := ResolveNamed[T](ctx, s, name)
	if err != nil {
		panic(err)
	}
	return v
}

func TryResolve[T any](ctx context.Context, s *Scope) (T, bool) {
	v, err := Resolve[T](ctx, s)
	return v, err == nil
}

func Has[T any](s *Scope) bool {
	return s.inner.Has(reflect.TypeKey[T]())
}

func HasNamed[T any](s *Scope, name string) bool {
	return s.inner.Has(reflect.TypeKeyNamed[T](name))
}

// Dep reads a dependency of type T from the resolver handed to a provider.
// Declared dependencies come from the current resolution plan; anything else
// triggers a full resolution through the scope.
func Dep[T any](ctx context.Context, r Resolver) (T, error) {
	var zero T

	instance, err := r.Resolve(ctx, reflect.TypeKey[T]())
	if err != nil {
		return zero, wrapErr(err)
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, newError(
			ErrCodeResolutionFailed,
			fmt.Sprintf("bound instance is not %s", reflect.TypeName[T]()),
			nil,
		).WithKey(reflect.TypeKey[T]())
	}

	return typed, nil
}

func NamedDep[T any](ctx context.Context, r Resolver, name string) (T, error) {
	var zero T

	instance, err := r.Resolve(ctx, reflect.TypeKeyNamed[T](name))
	if err != nil {
		return zero, wrapErr(err)
	}

	typed, ok := instance.(T)
	if !ok {
		return zero, newError(
			ErrCodeResolutionFailed,
			fmt.Sprintf("bound instance is not %s", reflect.TypeName[T]()),
			nil,
		).WithKey(reflect.TypeKeyNamed[T](name))
	}

	return typed, nil
}

// Optional wraps a value that may or may not be present.
type Optional[T any] struct {
	value   T
	present bool
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) Present() bool {
	return o.present
}

func (o Optional[T]) OrElse(defaultValue T) T {
	if o.present {
		return o.value
	}
	return defaultValue
}

func (o Optional[T]) OrElseFunc(fn func() T) T {
	if o.present {
		return o.value
	}
	return fn()
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{value: value, present: true}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

// ResolveOptional resolves T if it is bound, returning None when unbound or
// when resolution fails.
func ResolveOptional[T any](ctx context.Context, s *Scope) Optional[T] {
	if !Has[T](s) {
		return None[T]()
	}

	v, err := Resolve[T](ctx, s)
	if err != nil {
		return None[T]()
	}
	return Some(v)
}

func ResolveOptionalNamed[T any](ctx context.Context, s *Scope, name string) Optional[T] {
	if !HasNamed[T](s, name) {
		return None[T]()
	}

	v, err := ResolveNamed[T](ctx, s, name)
	if err != nil {
		return None[T]()
	}
	return Some(v)
}
