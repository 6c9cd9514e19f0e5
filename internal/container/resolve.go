package container

import (
	"context"
	"time"

	"github.com/thimble-di/thimble/internal/lifetime"
)

// Resolve builds or reuses the instance for key, constructing its full
// dependency graph first. Failures propagate synchronously and never leave
// partial state in any cache.
func (s *Scope) Resolve(ctx context.Context, key string) (any, error) {
	start := time.Now()
	result, err := s.resolveWith(ctx, key, &resolveStack{})
	s.engine.notifyResolve(key, time.Since(start), err)
	return result, err
}

func (s *Scope) resolveWith(ctx context.Context, key string, stack *resolveStack) (any, error) {
	steps, err := s.plan(key)
	if err != nil {
		return nil, err
	}

	res := &resolution{scope: s, values: make(map[string]any, len(steps)), stack: stack}
	for _, step := range steps {
		instance, err := s.executeStep(ctx, step, res)
		if err != nil {
			return nil, err
		}
		res.values[step.key] = instance
	}

	return res.values[key], nil
}

func (s *Scope) executeStep(ctx context.Context, step planStep, res *resolution) (any, error) {
	if step.binding.HasValue {
		return step.binding.Value, nil
	}

	// A key whose provider is already executing on this resolution chain is
	// a cycle the planner could not see: the edge was never declared, so it
	// only shows up here, when the provider resolves it through the
	// fallback. Failing now keeps the chain from re-entering its own
	// in-flight construction and blocking forever.
	if res.stack.has(step.key) {
		return nil, &CycleError{Chain: res.stack.chain(step.key)}
	}

	build := func(ctx context.Context) (any, error) {
		res.stack.push(step.key)
		defer res.stack.pop()

		instance, err := step.binding.Provider(ctx, res)
		if err != nil {
			return nil, &ProviderError{Key: step.key, Cause: err}
		}
		return s.engine.applyDecorators(ctx, step.key, res, instance)
	}

	if step.binding.Lifetime == lifetime.Transient {
		return build(ctx)
	}
	return step.owner.once(ctx, step.key, step.binding, build)
}

// resolution carries the instances already constructed during one Resolve
// call. It is the Resolver handed to providers: declared dependencies come
// out of the plan's values, anything else falls back to a nested resolution
// sharing the same construction stack.
type resolution struct {
	scope  *Scope
	values map[string]any
	stack  *resolveStack
}

func (r *resolution) Resolve(ctx context.Context, key string) (any, error) {
	if v, ok := r.values[key]; ok {
		return v, nil
	}
	return r.scope.resolveWith(ctx, key, r.stack)
}

func (r *resolution) Has(key string) bool {
	if _, ok := r.values[key]; ok {
		return true
	}
	return r.scope.Has(key)
}

// resolveStack is the set of keys whose providers are currently executing in
// one resolution chain. Nested resolutions triggered by undeclared
// dependencies share it, so re-entering a key is detected as a cycle. The
// whole chain runs on the caller's goroutine; no locking needed.
type resolveStack struct {
	keys []string
}

func (st *resolveStack) has(key string) bool {
	for _, k := range st.keys {
		if k == key {
			return true
		}
	}
	return false
}

func (st *resolveStack) push(key string) {
	st.keys = append(st.keys, key)
}

func (st *resolveStack) pop() {
	st.keys = st.keys[:len(st.keys)-1]
}

// chain returns the closed cycle ending at key, e.g. [A B A].
func (st *resolveStack) chain(key string) []string {
	start := 0
	for i, k := range st.keys {
		if k == key {
			start = i
			break
		}
	}

	chain := make([]string, 0, len(st.keys)-start+1)
	chain = append(chain, st.keys[start:]...)
	return append(chain, key)
}
