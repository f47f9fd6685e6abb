package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/AgentOS/searchprovider/internal/domain/provider"
)

func TestRegistryGetOrCreate(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	var calls int
	create := func(ctx context.Context) (provider.Provider, error) {
		calls++
		return newFakeProvider("a", testInterface), nil
	}

	p1, created, err := r.GetOrCreate(ctx, "a", create)
	require.NoError(t, err)
	assert.True(t, created)

	p2, created, err := r.GetOrCreate(ctx, "a", create)
	require.NoError(t, err)
	assert.False(t, created)

	assert.Same(t, p1, p2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, r.Len())
}

func TestRegistryDoesNotCacheErrors(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()
	boom := errors.New("boom")

	_, _, err := r.GetOrCreate(ctx, "a", func(ctx context.Context) (provider.Provider, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, r.Len())

	p, created, err := r.GetOrCreate(ctx, "a", func(ctx context.Context) (provider.Provider, error) {
		return newFakeProvider("a", testInterface), nil
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "a", p.AppID())
}

func TestRegistryNilProvider(t *testing.T) {
	r := NewRegistry()

	_, _, err := r.GetOrCreate(context.Background(), "a", func(ctx context.Context) (provider.Provider, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, ErrNilProvider)
	assert.Equal(t, 0, r.Len())
}

func TestRegistryConcurrentSingleConstruction(t *testing.T) {
	r := NewRegistry()
	release := make(chan struct{})
	var calls atomic.Int32

	create := func(ctx context.Context) (provider.Provider, error) {
		calls.Add(1)
		<-release
		return newFakeProvider("a", testInterface), nil
	}

	const workers = 32
	results := make([]provider.Provider, workers)
	var started, done sync.WaitGroup
	started.Add(workers)
	done.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer done.Done()
			started.Done()
			p, _, err := r.GetOrCreate(context.Background(), "a", create)
			assert.NoError(t, err)
			results[i] = p
		}(i)
	}

	started.Wait()
	time.Sleep(20 * time.Millisecond)
	close(release)
	done.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, p := range results {
		assert.Same(t, results[0], p)
	}
}

func TestRegistryWaitHonoursContext(t *testing.T) {
	r := NewRegistry()
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := r.GetOrCreate(ctx, "slow", func(ctx context.Context) (provider.Provider, error) {
		<-release
		return newFakeProvider("slow", testInterface), nil
	})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRegistryConstructionSurvivesCancelledCaller(t *testing.T) {
	r := NewRegistry()
	release := make(chan struct{})
	finished := make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		_, _, _ = r.GetOrCreate(ctx, "a", func(ctx context.Context) (provider.Provider, error) {
			defer close(finished)
			<-release
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return newFakeProvider("a", testInterface), nil
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()
	close(release)
	<-finished

	require.Eventually(t, func() bool { return r.Len() == 1 }, time.Second, 5*time.Millisecond)
}

func TestRegistryEntries(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	for _, seg := range []string{"b", "a", "c"} {
		seg := seg
		_, _, err := r.GetOrCreate(ctx, seg, func(ctx context.Context) (provider.Provider, error) {
			return newFakeProvider("id-"+seg, testInterface), nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []Entry{
		{Segment: "a", AppID: "id-a"},
		{Segment: "b", AppID: "id-b"},
		{Segment: "c", AppID: "id-c"},
	}, r.Entries())
}

func TestRegistryOnInsert(t *testing.T) {
	var sizes []int
	r := NewRegistry().OnInsert(func(size int) { sizes = append(sizes, size) })
	ctx := context.Background()

	for _, seg := range []string{"a", "b", "a"} {
		seg := seg
		_, _, err := r.GetOrCreate(ctx, seg, func(ctx context.Context) (provider.Provider, error) {
			return newFakeProvider(seg, testInterface), nil
		})
		require.NoError(t, err)
	}

	assert.Equal(t, []int{1, 2}, sizes)
}
