package container

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// Releaser is implemented by instances that own resources needing cleanup.
// Release runs when the caching scope closes.
type Releaser interface {
	Release(ctx context.Context) error
}

// Scope is one node of the scope tree. It owns a registry of bindings
// installed into it, a cache of singleton instances whose bindings it owns,
// and the in-flight bookkeeping that guarantees at-most-one construction per
// key under concurrent first use.
type Scope struct {
	name   string
	engine *Engine
	parent *Scope

	mu         sync.Mutex
	children   []*Scope
	cache      map[string]*cacheEntry
	cacheOrder []string
	inflight   map[string]*inflightCall
	closing    bool
	closed     bool
	building   sync.WaitGroup

	registry *Registry

	plansMu sync.RWMutex
	plans   map[string][]planStep
}

type cacheEntry struct {
	instance any
	binding  *Binding
}

type inflightCall struct {
	done chan struct{}
	val  any
	err  error
}

// CachedInstance is a (key, instance) pair currently held by a scope cache.
type CachedInstance struct {
	Key      string
	Instance any
}

func newScope(engine *Engine, parent *Scope, name string) *Scope {
	return &Scope{
		name:     name,
		engine:   engine,
		parent:   parent,
		registry: NewRegistry(),
		cache:    make(map[string]*cacheEntry),
		inflight: make(map[string]*inflightCall),
		plans:    make(map[string][]planStep),
	}
}

func (s *Scope) Name() string {
	return s.name
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

func (s *Scope) Registry() *Registry {
	return s.registry
}

// OpenChild creates a child scope. The child sees every binding on its
// parent chain and may shadow them with its own until it seals.
func (s *Scope) OpenChild(name string) (*Scope, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closing || s.closed {
		return nil, fmt.Errorf("%w: cannot open %q under %q", ErrScopeClosed, name, s.name)
	}

	child := newScope(s.engine, s, name)
	s.children = append(s.children, child)
	return child, nil
}

// Register installs a binding into this scope.
func (s *Scope) Register(b *Binding) error {
	s.mu.Lock()
	if s.closing || s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot register %s in %q", ErrScopeClosed, b.Key, s.name)
	}
	s.mu.Unlock()

	b.seq = s.engine.nextSeq()
	if err := s.registry.Register(b, s.engine.cfg.AllowOverride); err != nil {
		return fmt.Errorf("scope %q: %w", s.name, err)
	}

	s.engine.notifyProvide(b.Key)
	s.engine.logger.Debug("binding registered",
		"key", b.Key, "scope", s.name, "lifetime", b.Lifetime.String())
	return nil
}

// Replace swaps a binding, for test setups. Fails once the scope has sealed.
func (s *Scope) Replace(b *Binding) error {
	s.mu.Lock()
	if s.closing || s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: cannot replace %s in %q", ErrScopeClosed, b.Key, s.name)
	}
	s.mu.Unlock()

	b.seq = s.engine.nextSeq()
	if err := s.registry.Replace(b); err != nil {
		return fmt.Errorf("scope %q: %w", s.name, err)
	}
	return nil
}

// lookup returns the nearest binding for key walking from this scope up
// through its parents, together with the scope that owns it.
func (s *Scope) lookup(key string) (*Binding, *Scope, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if b, ok := cur.registry.Get(key); ok {
			return b, cur, true
		}
	}
	return nil, nil, false
}

func (s *Scope) Has(key string) bool {
	_, _, ok := s.lookup(key)
	return ok
}

func (s *Scope) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Scope) unavailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing || s.closed
}

// Close seals the scope, waits for in-flight constructions to finish or
// fail, then releases every cached instance in reverse construction order.
// The cache is cleared exactly once; a second Close reports ErrAlreadyClosed.
// Closing a scope that still has open children is a programming error.
func (s *Scope) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrAlreadyClosed, s.name)
	}
	if len(s.children) > 0 {
		names := make([]string, len(s.children))
		for i, c := range s.children {
			names[i] = c.name
		}
		s.mu.Unlock()
		return fmt.Errorf("%w: %s has open children %v", ErrScopeOrder, s.name, names)
	}
	s.closing = true
	s.mu.Unlock()

	// No new constructions can start past this point; wait for the ones
	// already running so we never release a half-constructed instance.
	s.building.Wait()

	s.mu.Lock()
	s.closed = true
	entries := make([]*cacheEntry, 0, len(s.cacheOrder))
	keys := make([]string, 0, len(s.cacheOrder))
	for i := len(s.cacheOrder) - 1; i >= 0; i-- {
		key := s.cacheOrder[i]
		entries = append(entries, s.cache[key])
		keys = append(keys, key)
	}
	s.cache = nil
	s.cacheOrder = nil
	s.mu.Unlock()

	var errs []error
	for i, entry := range entries {
		if err := s.release(ctx, keys[i], entry); err != nil {
			errs = append(errs, err)
		}
	}

	if s.parent != nil {
		s.parent.removeChild(s)
	}

	s.engine.logger.Debug("scope closed", "scope", s.name, "released", len(entries))

	if len(errs) > 0 {
		return fmt.Errorf("%w: scope %s: %w", ErrRelease, s.name, errors.Join(errs...))
	}
	return nil
}

func (s *Scope) release(ctx context.Context, key string, entry *cacheEntry) error {
	start := time.Now()

	var errs []error
	for _, hook := range entry.binding.OnRelease {
		if err := hook(ctx, entry.instance); err != nil {
			errs = append(errs, err)
		}
	}
	if releaser, ok := entry.instance.(Releaser); ok {
		if err := releaser.Release(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	err := errors.Join(errs...)
	s.engine.notifyRelease(key, time.Since(start), err)

	if err != nil {
		return fmt.Errorf("release %s: %w", key, err)
	}
	return nil
}

func (s *Scope) removeChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i], s.children[i+1:]...)
			return
		}
	}
}

// once returns the cached instance for key, joins an in-flight construction,
// or runs build itself. Failed builds are not cached and may be retried.
func (s *Scope) once(ctx context.Context, key string, binding *Binding, build func(context.Context) (any, error)) (any, error) {
	s.mu.Lock()
	if entry, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return entry.instance, nil
	}
	if call, ok := s.inflight[key]; ok {
		s.mu.Unlock()
		select {
		case <-call.done:
			return call.val, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.closing || s.closed {
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrScopeClosed, s.name)
	}
	call := &inflightCall{done: make(chan struct{})}
	s.inflight[key] = call
	s.building.Add(1)
	defer s.building.Done()
	s.mu.Unlock()

	call.val, call.err = build(ctx)

	s.mu.Lock()
	delete(s.inflight, key)
	if call.err == nil {
		s.cache[key] = &cacheEntry{instance: call.val, binding: binding}
		s.cacheOrder = append(s.cacheOrder, key)
	}
	s.mu.Unlock()

	close(call.done)

	if call.err == nil {
		s.engine.logger.Debug("instance constructed", "key", key, "scope", s.name)
	}
	return call.val, call.err
}

// CachedInstances snapshots the scope cache in construction order.
func (s *Scope) CachedInstances() []CachedInstance {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CachedInstance, 0, len(s.cacheOrder))
	for _, key := range s.cacheOrder {
		out = append(out, CachedInstance{Key: key, Instance: s.cache[key].instance})
	}
	return out
}

// Cached reports whether key currently has an instance in this scope cache.
func (s *Scope) Cached(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.cache[key]
	return ok
}

// Walk visits this scope and every open descendant, parents first.
func (s *Scope) Walk(fn func(*Scope)) {
	fn(s)

	s.mu.Lock()
	children := make([]*Scope, len(s.children))
	copy(children, s.children)
	s.mu.Unlock()

	for _, child := range children {
		child.Walk(fn)
	}
}
