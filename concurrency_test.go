package thimble

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentFirstResolveConstructsOnce(t *testing.T) {
	t.Parallel()

	c := New()
	root := c.Root()
	ctx := context.Background()

	var constructions atomic.Int32
	require.NoError(t, Provide(root, func(_ context.Context, _ Resolver) (*testDB, error) {
		constructions.Add(1)
		time.Sleep(10 * time.Millisecond)
		return &testDB{dsn: "slow"}, nil
	}))

	const n = 50
	results := make([]*testDB, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = Resolve[*testDB](ctx, root)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), constructions.Load(), "single-flight must collapse concurrent first use")
	for i := 1; i < n; i++ {
		assert.Same(t, results[0], results[i])
	}
}

func TestConcurrentResolveAcrossScopes(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	var constructions atomic.Int32
	require.NoError(t, Provide(c.Root(), func(_ context.Context, _ Resolver) (*testConfig, error) {
		constructions.Add(1)
		return &testConfig{Port: 1}, nil
	}))

	const scopes = 8
	var wg sync.WaitGroup
	for i := 0; i < scopes; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s, err := c.OpenScope("worker")
			if err != nil {
				t.Error(err)
				return
			}
			defer func() { _ = s.Close(ctx) }()

			for j := 0; j < 10; j++ {
				if _, err := Resolve[*testConfig](ctx, s); err != nil {
					t.Error(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	// Root-owned singleton: one construction no matter how many scopes race.
	assert.Equal(t, int32(1), constructions.Load())
}

func TestCloseWaitsForInFlightConstruction(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	s, err := c.OpenScope("busy")
	require.NoError(t, err)

	started := make(chan struct{})
	var constructed, releasedAfterConstruction atomic.Bool

	require.NoError(t, Provide(s, func(_ context.Context, _ Resolver) (*testDB, error) {
		close(started)
		time.Sleep(20 * time.Millisecond)
		constructed.Store(true)
		return &testDB{dsn: "inflight"}, nil
	}, WithOnRelease(func(_ context.Context, _ any) error {
		releasedAfterConstruction.Store(constructed.Load())
		return nil
	})))

	done := make(chan *testDB, 1)
	go func() {
		db, _ := Resolve[*testDB](ctx, s)
		done <- db
	}()

	<-started
	require.NoError(t, s.Close(ctx))

	db := <-done
	require.NotNil(t, db)
	assert.True(t, constructed.Load())
	assert.True(t, releasedAfterConstruction.Load(),
		"close must wait for the in-flight construction before releasing")
	assert.True(t, db.released, "the instance finished during close is still released")
}

func TestResolveDuringCloseIsRejected(t *testing.T) {
	t.Parallel()

	c := New()
	ctx := context.Background()

	s, err := c.OpenScope("closing")
	require.NoError(t, err)

	require.NoError(t, Provide(s, func(_ context.Context, _ Resolver) (*testCounter, error) {
		return &testCounter{id: 1}, nil
	}))

	// Seal the plan so the race below only exercises construction.
	_, err = s.Plan(Key[*testCounter]())
	require.NoError(t, err)

	require.NoError(t, s.Close(ctx))

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Resolve[*testCounter](ctx, s)
			assert.Error(t, err)
		}()
	}
	wg.Wait()
}
