package thimble

import (
	"log/slog"

	"github.com/thimble-di/thimble/internal/container"
)

type Option func(*containerConfig)

type containerConfig struct {
	logger        *slog.Logger
	allowOverride bool
	onResolve     []container.ResolveHook
	onProvide     []container.ProvideHook
	onRelease     []container.ReleaseHook
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

// WithOverride permits re-registering an already bound key; the last
// registration wins. Without it a duplicate key is a CONFLICT error.
func WithOverride() Option {
	return func(cfg *containerConfig) {
		cfg.allowOverride = true
	}
}

func WithResolveObserver(hook ResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.onResolve = append(cfg.onResolve, container.ResolveHook(hook))
	}
}

func WithProvideObserver(hook ProvideHook) Option {
	return func(cfg *containerConfig) {
		cfg.onProvide = append(cfg.onProvide, container.ProvideHook(hook))
	}
}

func WithReleaseObserver(hook ReleaseHook) Option {
	return func(cfg *containerConfig) {
		cfg.onRelease = append(cfg.onRelease, container.ReleaseHook(hook))
	}
}
