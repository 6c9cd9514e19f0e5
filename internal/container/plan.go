package container

import "fmt"

// planStep is one construction step: the binding to build and the scope that
// owns it (where a singleton instance caches).
type planStep struct {
	key     string
	binding *Binding
	owner   *Scope
}

// Plan returns the construction order for key as seen from this scope, every
// dependency before its dependents. Exposed for inspection and tests.
func (s *Scope) Plan(key string) ([]string, error) {
	steps, err := s.plan(key)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(steps))
	for i, st := range steps {
		keys[i] = st.key
	}
	return keys, nil
}

// plan memoizes buildPlan per scope. The first plan built through a scope
// seals every registry on its parent chain, freezing the binding set the
// plan depends on.
func (s *Scope) plan(key string) ([]planStep, error) {
	if s.unavailable() {
		return nil, fmt.Errorf("%w: %s", ErrScopeClosed, s.name)
	}

	s.plansMu.RLock()
	if steps, ok := s.plans[key]; ok {
		s.plansMu.RUnlock()
		return steps, nil
	}
	s.plansMu.RUnlock()

	s.sealChain()

	steps, err := s.buildPlan(key)
	if err != nil {
		return nil, err
	}

	s.plansMu.Lock()
	s.plans[key] = steps
	s.plansMu.Unlock()

	return steps, nil
}

func (s *Scope) sealChain() {
	for cur := s; cur != nil; cur = cur.parent {
		cur.registry.Seal()
	}
}

// buildPlan walks bindings depth-first from root. Cycles and unbound keys
// fail here, before any provider runs. Dependencies are visited in declared
// order, so a fixed registry state always yields the same plan.
func (s *Scope) buildPlan(root string) ([]planStep, error) {
	var steps []planStep
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var stack []string

	var visit func(key string) error
	visit = func(key string) error {
		if onPath[key] {
			return &CycleError{Chain: cycleChain(stack, key)}
		}
		if visited[key] {
			return nil
		}

		binding, owner, ok := s.lookup(key)
		if !ok {
			requiredBy := ""
			if len(stack) > 0 {
				requiredBy = stack[len(stack)-1]
			}
			return &UnboundError{Key: key, RequiredBy: requiredBy}
		}

		stack = append(stack, key)
		onPath[key] = true

		for _, dep := range binding.Dependencies {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		onPath[key] = false
		visited[key] = true
		steps = append(steps, planStep{key: key, binding: binding, owner: owner})
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return steps, nil
}

// cycleChain extracts the closed cycle from the DFS stack: everything from
// the first occurrence of key onward, with key repeated at the end.
func cycleChain(stack []string, key string) []string {
	start := 0
	for i, k := range stack {
		if k == key {
			start = i
			break
		}
	}

	chain := make([]string, 0, len(stack)-start+1)
	chain = append(chain, stack[start:]...)
	return append(chain, key)
}
