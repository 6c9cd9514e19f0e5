package thimble

import (
	"context"
	"sync"
	"time"

	"github.com/thimble-di/thimble/internal/container"
)

type HealthStatus string

const (
	HealthStatusUp      HealthStatus = "up"
	HealthStatusDown    HealthStatus = "down"
	HealthStatusUnknown HealthStatus = "unknown"
)

type HealthReport struct {
	Key     string
	Scope   string
	Status  HealthStatus
	Error   error
	Latency time.Duration
}

// HealthChecker is discovered on cached instances anywhere in the scope
// tree.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type ReadinessChecker interface {
	ReadinessCheck(ctx context.Context) error
}

// Live fails if any cached HealthChecker across the scope tree reports an
// error.
func (c *Container) Live(ctx context.Context) error {
	for _, r := range c.runChecks(ctx, healthCheck) {
		if r.Status == HealthStatusDown {
			return errHealthCheckFailed(r.Key, r.Error)
		}
	}
	return nil
}

// Ready fails if any cached ReadinessChecker across the scope tree reports
// an error.
func (c *Container) Ready(ctx context.Context) error {
	for _, r := range c.runChecks(ctx, readinessCheck) {
		if r.Status == HealthStatusDown {
			return errHealthCheckFailed(r.Key, r.Error)
		}
	}
	return nil
}

// Health returns one report per cached HealthChecker, with latency.
func (c *Container) Health(ctx context.Context) []HealthReport {
	return c.runChecks(ctx, healthCheck)
}

type checkFunc func(ctx context.Context, instance any) (func(context.Context) error, bool)

func healthCheck(_ context.Context, instance any) (func(context.Context) error, bool) {
	if hc, ok := instance.(HealthChecker); ok {
		return hc.HealthCheck, true
	}
	return nil, false
}

func readinessCheck(_ context.Context, instance any) (func(context.Context) error, bool) {
	if rc, ok := instance.(ReadinessChecker); ok {
		return rc.ReadinessCheck, true
	}
	return nil, false
}

func (c *Container) runChecks(ctx context.Context, match checkFunc) []HealthReport {
	type target struct {
		key   string
		scope string
		check func(context.Context) error
	}

	var targets []target
	c.engine.Root().Walk(func(s *container.Scope) {
		for _, cached := range s.CachedInstances() {
			if check, ok := match(ctx, cached.Instance); ok {
				targets = append(targets, target{key: cached.Key, scope: s.Name(), check: check})
			}
		}
	})

	reports := make([]HealthReport, len(targets))
	var wg sync.WaitGroup

	for i, t := range targets {
		wg.Add(1)
		go func(i int, t target) {
			defer wg.Done()

			start := time.Now()
			err := t.check(ctx)

			reports[i] = HealthReport{
				Key:     t.key,
				Scope:   t.scope,
				Status:  HealthStatusUp,
				Latency: time.Since(start),
			}
			if err != nil {
				reports[i].Status = HealthStatusDown
				reports[i].Error = err
			}
		}(i, t)
	}

	wg.Wait()
	return reports
}

func errHealthCheckFailed(key string, cause error) *Error {
	return newError(ErrCodeHealthCheckFailed, "health check failed", cause).WithKey(key)
}
