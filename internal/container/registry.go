package container

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/thimble-di/thimble/internal/lifetime"
)

// ProviderFunc builds an instance. The Resolver gives access to already
// resolved dependencies of the binding being constructed.
type ProviderFunc func(ctx context.Context, r Resolver) (any, error)

// Resolver is the read side of a scope handed to providers.
type Resolver interface {
	Resolve(ctx context.Context, key string) (any, error)
	Has(key string) bool
}

// ReleaseFunc runs when a scope releases a cached instance.
type ReleaseFunc func(ctx context.Context, instance any) error

// Binding associates a key with its construction strategy.
type Binding struct {
	Key          string
	Provider     ProviderFunc
	Value        any
	HasValue     bool
	Lifetime     lifetime.Lifetime
	Dependencies []string
	OnRelease    []ReleaseFunc

	seq uint64
}

// Seq is the binding's global registration sequence number; orderings
// derived from the registry break ties by it.
func (b *Binding) Seq() uint64 {
	return b.seq
}

// Registry holds the bindings installed into one scope. It is mutable until
// sealed; sealing happens on the owning scope's first resolution, after
// which reads bypass the lock entirely.
type Registry struct {
	mu       sync.RWMutex
	bindings map[string]*Binding
	order    []string
	sealed   atomic.Bool
}

func NewRegistry() *Registry {
	return &Registry{
		bindings: make(map[string]*Binding),
	}
}

// Register installs a binding. A key already bound in this registry is a
// conflict unless override is set, in which case the new binding replaces
// the old one (last registered wins).
func (r *Registry) Register(b *Binding, override bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return fmt.Errorf("%w: cannot register %s", ErrSealed, b.Key)
	}

	if _, exists := r.bindings[b.Key]; exists {
		if !override {
			return fmt.Errorf("%w: %s", ErrConflict, b.Key)
		}
		r.removeFromOrder(b.Key)
	}

	r.bindings[b.Key] = b
	r.order = append(r.order, b.Key)
	return nil
}

// Replace swaps the binding for a key, registering it if absent. Used by the
// test harness; rejected once the registry is sealed.
func (r *Registry) Replace(b *Binding) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return fmt.Errorf("%w: cannot replace %s", ErrSealed, b.Key)
	}

	if _, exists := r.bindings[b.Key]; exists {
		r.removeFromOrder(b.Key)
	}

	r.bindings[b.Key] = b
	r.order = append(r.order, b.Key)
	return nil
}

func (r *Registry) Get(key string) (*Binding, bool) {
	// Lock-free read path once configuration is frozen.
	if r.sealed.Load() {
		b, ok := r.bindings[key]
		return b, ok
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bindings[key]
	return b, ok
}

func (r *Registry) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Keys returns bound keys in registration order.
func (r *Registry) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := make([]string, len(r.order))
	copy(keys, r.order)
	return keys
}

func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.bindings)
}

// Seal freezes the registry. Idempotent.
func (r *Registry) Seal() {
	r.mu.Lock()
	r.sealed.Store(true)
	r.mu.Unlock()
}

func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

func (r *Registry) removeFromOrder(key string) {
	for i, k := range r.order {
		if k == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			return
		}
	}
}
