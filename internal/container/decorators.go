package container

import (
	"context"
	"fmt"
)

// DecoratorFunc wraps a freshly constructed instance before it is cached or
// returned.
type DecoratorFunc func(ctx context.Context, r Resolver, instance any) (any, error)

func (e *Engine) AddDecorator(key string, decorator DecoratorFunc) {
	e.decoratorsMu.Lock()
	defer e.decoratorsMu.Unlock()

	e.decorators[key] = append(e.decorators[key], decorator)
}

func (e *Engine) applyDecorators(ctx context.Context, key string, r Resolver, instance any) (any, error) {
	e.decoratorsMu.RLock()
	decorators := e.decorators[key]
	e.decoratorsMu.RUnlock()

	if len(decorators) == 0 {
		return instance, nil
	}

	var err error
	for _, decorator := range decorators {
		instance, err = decorator(ctx, r, instance)
		if err != nil {
			return nil, fmt.Errorf("decorator failed for %s: %w", key, err)
		}
	}

	return instance, nil
}
