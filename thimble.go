package thimble

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/thimble-di/thimble/internal/container"
)

// Container is the entry point: it owns the root scope of the scope tree and
// the configuration shared by every scope.
type Container struct {
	engine *container.Engine
	root   *Scope
	config *containerConfig
}

func New(opts ...Option) *Container {
	cfg := &containerConfig{
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(cfg)
	}

	engine := container.New(
		&container.Config{
			Logger:        cfg.logger,
			AllowOverride: cfg.allowOverride,
			OnResolve:     cfg.onResolve,
			OnProvide:     cfg.onProvide,
			OnRelease:     cfg.onRelease,
		},
	)

	c := &Container{
		engine: engine,
		config: cfg,
	}
	c.root = &Scope{inner: engine.Root(), container: c}
	return c
}

// Root returns the root scope. Bindings registered during configuration go
// here; child scopes inherit them.
func (c *Container) Root() *Scope {
	return c.root
}

// OpenScope opens a child of the root scope.
func (c *Container) OpenScope(name string) (*Scope, error) {
	return c.root.OpenScope(name)
}

// Validate eagerly checks the root scope's dependency graph for missing
// bindings and cycles, before any provider has run.
func (c *Container) Validate() error {
	if err := c.engine.Validate(); err != nil {
		return newError(ErrCodeValidationFailed, "container validation failed", wrapErr(err))
	}
	return nil
}

func (c *Container) Keys() []string {
	return c.engine.Keys()
}

func (c *Container) Size() int {
	return c.engine.Size()
}

// Close closes the root scope, releasing every root-cached instance. Child
// scopes must already be closed.
func (c *Container) Close(ctx context.Context) error {
	if err := c.engine.Close(ctx); err != nil {
		return wrapErr(err)
	}
	return nil
}

// Run blocks until ctx is done or the process receives SIGINT/SIGTERM, then
// closes the container.
func (c *Container) Run(ctx context.Context) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
	case <-quit:
	}

	signal.Stop(quit)
	close(quit)

	return c.Close(context.Background())
}

// Internal exposes the engine for the thimbletest package.
func (c *Container) Internal() *container.Engine {
	return c.engine
}
