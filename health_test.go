package thimble

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkedDB struct {
	healthErr error
	readyErr  error
}

func (d *checkedDB) HealthCheck(_ context.Context) error {
	return d.healthErr
}

func (d *checkedDB) ReadinessCheck(_ context.Context) error {
	return d.readyErr
}

func TestContainer_LiveAndReady(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	db := &checkedDB{}
	require.NoError(t, Provide(c.Root(), func(_ context.Context, _ Resolver) (*checkedDB, error) {
		return db, nil
	}))

	// Nothing cached yet, nothing to check.
	require.NoError(t, c.Live(ctx))
	require.NoError(t, c.Ready(ctx))

	_, err := Resolve[*checkedDB](ctx, c.Root())
	require.NoError(t, err)

	require.NoError(t, c.Live(ctx))
	require.NoError(t, c.Ready(ctx))

	db.healthErr = errors.New("connection lost")
	err = c.Live(ctx)
	require.Error(t, err)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, ErrCodeHealthCheckFailed, e.Code)
	assert.Equal(t, Key[*checkedDB](), e.Key)

	// Readiness is independent of liveness.
	require.NoError(t, c.Ready(ctx))

	db.readyErr = errors.New("warming up")
	require.Error(t, c.Ready(ctx))
}

func TestContainer_HealthReports(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	require.NoError(t, Provide(c.Root(), func(_ context.Context, _ Resolver) (*checkedDB, error) {
		return &checkedDB{}, nil
	}))

	// Non-checker instances are not reported.
	require.NoError(t, ProvideValue(c.Root(), &testConfig{Port: 1}))

	_, err := Resolve[*checkedDB](ctx, c.Root())
	require.NoError(t, err)

	reports := c.Health(ctx)
	require.Len(t, reports, 1)
	assert.Equal(t, Key[*checkedDB](), reports[0].Key)
	assert.Equal(t, HealthStatusUp, reports[0].Status)
	assert.NoError(t, reports[0].Error)
}

func TestContainer_HealthChecksChildScopes(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	s, err := c.OpenScope("worker")
	require.NoError(t, err)
	defer func() { _ = s.Close(ctx) }()

	db := &checkedDB{healthErr: errors.New("down in child")}
	require.NoError(t, Provide(s, func(_ context.Context, _ Resolver) (*checkedDB, error) {
		return db, nil
	}))

	_, err = Resolve[*checkedDB](ctx, s)
	require.NoError(t, err)

	reports := c.Health(ctx)
	require.Len(t, reports, 1)
	assert.Equal(t, "worker", reports[0].Scope)
	assert.Equal(t, HealthStatusDown, reports[0].Status)
}
