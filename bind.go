package thimble

import (
	"context"

	"github.com/thimble-di/thimble/internal/container"
	"github.com/thimble-di/thimble/internal/lifetime"
	"github.com/thimble-di/thimble/internal/reflect"
)

// Decorator wraps a freshly constructed T before it is cached or returned.
type Decorator[T any] func(ctx context.Context, r Resolver, base T) (T, error)

// Bind registers interface I as an alias for implementation T. The alias is
// transient so caching and release stay with T's own binding; resolving I
// resolves T through the scope chain.
func Bind[I, T any](s *Scope, opts ...BindOption) error {
	cfg := applyBindOptions(opts)

	interfaceKey := reflect.TypeKey[I]()
	implKey := reflect.TypeKey[T]()

	if cfg.name != "" {
		interfaceKey = reflect.TypeKeyNamed[I](cfg.name)
	}

	provider := func(ctx context.Context, r container.Resolver) (any, error) {
		return r.Resolve(ctx, implKey)
	}

	b := &container.Binding{
		Key:          interfaceKey,
		Provider:     provider,
		Lifetime:     lifetime.Transient,
		Dependencies: []string{implKey},
	}

	if err := s.inner.Register(b); err != nil {
		return wrapErr(err)
	}
	return nil
}

func BindNamed[I, T any](s *Scope, name string, opts ...BindOption) error {
	opts = append(opts, WithName(name))
	return Bind[I, T](s, opts...)
}

// Decorate registers a decorator for T, applied container-wide in
// registration order whenever a provider constructs T.
func Decorate[T any](c *Container, decorator Decorator[T]) {
	addDecorator(c, reflect.TypeKey[T](), decorator)
}

func DecorateNamed[T any](c *Container, name string, decorator Decorator[T]) {
	addDecorator(c, reflect.TypeKeyNamed[T](name), decorator)
}

func addDecorator[T any](c *Container, key string, decorator Decorator[T]) {
	c.engine.AddDecorator(
		key, func(ctx context.Context, r container.Resolver, instance any) (any, error) {
			typed, ok := instance.(T)
			if !ok {
				var zero T
				return zero, errDecoratorTypeMismatch(reflect.TypeName[T]())
			}
			return decorator(ctx, r, typed)
		},
	)
}

func errDecoratorTypeMismatch(typeName string) *Error {
	return newError(
		ErrCodeDecoratorFailed,
		"decorator type mismatch for "+typeName,
		nil,
	)
}
