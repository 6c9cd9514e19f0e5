package thimble

// Module is a named group of bindings that can be installed into any scope.
// Modules are the explicit registration table of the container: everything a
// module contributes is a key-to-factory entry, resolved without runtime
// type introspection.
type Module struct {
	name       string
	appliers   []func(s *Scope) error
	submodules []*Module
}

func NewModule(name string) *Module {
	return &Module{name: name}
}

func (m *Module) Name() string {
	return m.name
}

// Include nests another module; its bindings apply before this module's own.
func (m *Module) Include(submodule *Module) *Module {
	m.submodules = append(m.submodules, submodule)
	return m
}

func (m *Module) apply(s *Scope) error {
	for _, sub := range m.submodules {
		if err := sub.apply(s); err != nil {
			return err
		}
	}

	for _, apply := range m.appliers {
		if err := apply(s); err != nil {
			return err
		}
	}

	return nil
}

// Apply installs the given modules' bindings into this scope.
func (s *Scope) Apply(modules ...*Module) error {
	for _, m := range modules {
		if err := m.apply(s); err != nil {
			return newError(ErrCodeModuleApplyFailed, "failed to apply module "+m.name, err)
		}
	}
	return nil
}

func ModuleProvide[T any](m *Module, provider Provider[T], opts ...BindOption) *Module {
	m.appliers = append(m.appliers, func(s *Scope) error {
		return Provide(s, provider, opts...)
	})
	return m
}

func ModuleProvideValue[T any](m *Module, value T, opts ...BindOption) *Module {
	m.appliers = append(m.appliers, func(s *Scope) error {
		return ProvideValue(s, value, opts...)
	})
	return m
}

func ModuleBind[I, T any](m *Module, opts ...BindOption) *Module {
	m.appliers = append(m.appliers, func(s *Scope) error {
		return Bind[I, T](s, opts...)
	})
	return m
}

func ModuleDecorate[T any](m *Module, decorator Decorator[T]) *Module {
	m.appliers = append(m.appliers, func(s *Scope) error {
		Decorate(s.Container(), decorator)
		return nil
	})
	return m
}
