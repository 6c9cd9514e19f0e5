package container

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/thimble-di/thimble/internal/graph"
)

// Observer hooks, invoked synchronously around engine operations.
type (
	ResolveHook func(key string, duration time.Duration, err error)
	ProvideHook func(key string)
	ReleaseHook func(key string, duration time.Duration, err error)
)

type Config struct {
	Logger        *slog.Logger
	AllowOverride bool
	OnResolve     []ResolveHook
	OnProvide     []ProvideHook
	OnRelease     []ReleaseHook
}

// Engine owns the scope tree and the cross-cutting state shared by all
// scopes: the registration sequence, decorators, and observers.
type Engine struct {
	cfg    *Config
	logger *slog.Logger
	root   *Scope
	seq    atomic.Uint64

	decoratorsMu sync.RWMutex
	decorators   map[string][]DecoratorFunc
}

func New(cfg *Config) *Engine {
	if cfg == nil {
		cfg = &Config{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		cfg:        cfg,
		logger:     logger,
		decorators: make(map[string][]DecoratorFunc),
	}
	e.root = newScope(e, nil, "root")
	return e
}

func (e *Engine) Root() *Scope {
	return e.root
}

// Close closes the root scope. Every child scope must already be closed.
func (e *Engine) Close(ctx context.Context) error {
	return e.root.Close(ctx)
}

func (e *Engine) Keys() []string {
	return e.root.registry.Keys()
}

func (e *Engine) Size() int {
	return e.root.registry.Size()
}

// Validate eagerly checks the root scope's graph, before any provider has
// run: every declared dependency must be bound, and the whole graph must
// admit a topological order. When the sort fails, the cycle is located and
// reported with its chain.
func (e *Engine) Validate() error {
	g := e.BuildGraph()

	if missing := g.MissingDependencies(); len(missing) > 0 {
		return fmt.Errorf("%w: missing bindings: %v", ErrUnboundKey, missing)
	}

	if _, err := g.TopologicalSort(); err != nil {
		cycles := g.DetectCycles()
		if len(cycles) == 0 {
			return err
		}
		if path := g.FindCyclePath(cycles[0][0]); path != nil {
			return &CycleError{Chain: path}
		}
		return &CycleError{Chain: cycles[0]}
	}

	return nil
}

// BuildGraph snapshots the root scope's bindings as a dependency graph, for
// validation and debug rendering.
func (e *Engine) BuildGraph() *graph.Graph {
	g := graph.New()
	for _, key := range e.root.registry.Keys() {
		if b, ok := e.root.registry.Get(key); ok {
			g.AddNode(key, b.Dependencies, b.seq)
		}
	}
	return g
}

func (e *Engine) nextSeq() uint64 {
	return e.seq.Add(1)
}

func (e *Engine) notifyResolve(key string, d time.Duration, err error) {
	for _, hook := range e.cfg.OnResolve {
		hook(key, d, err)
	}
}

func (e *Engine) notifyProvide(key string) {
	for _, hook := range e.cfg.OnProvide {
		hook(key)
	}
}

func (e *Engine) notifyRelease(key string, d time.Duration, err error) {
	for _, hook := range e.cfg.OnRelease {
		hook(key, d, err)
	}
}
