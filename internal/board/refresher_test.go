package board

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellsheli/pobboard/internal/domain"
	"github.com/wellsheli/pobboard/internal/store"
)

// blockingRemote parks every ListTrips call on release, so a test can
// hold a refresh in flight for as long as it needs.
func blockingRemote(started chan<- struct{}, release <-chan struct{}) *mockRemote {
	return &mockRemote{
		listTrips: func(ctx context.Context) ([]domain.Trip, error) {
			started <- struct{}{}
			<-release
			return nil, nil
		},
		listSites:      func(context.Context) ([]domain.Site, error) { return nil, nil },
		listPassengers: func(context.Context) ([]domain.Passenger, error) { return nil, nil },
	}
}

// TestTryRefresh_SkipsWhileInFlight verifies the overlap guard: a second
// refresh attempted while one is running returns immediately with no
// error and without touching the remote again.
func TestTryRefresh_SkipsWhileInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	coord := NewCoordinator(store.New(), blockingRemote(started, release), nil)
	r := NewRefresher(coord, time.Hour, nil)

	var wg sync.WaitGroup
	wg.Add(1)
	var firstErr error
	go func() {
		defer wg.Done()
		firstErr = r.TryRefresh(context.Background())
	}()

	<-started // the first refresh is now parked inside ListTrips

	assert.NoError(t, r.TryRefresh(context.Background()), "overlapping attempt skips, no error")

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
}

// After a refresh finishes — success or failure — the guard is released
// and the next attempt runs.
func TestTryRefresh_GuardReleasedAfterFailure(t *testing.T) {
	calls := 0
	remote := &mockRemote{
		listTrips: func(context.Context) ([]domain.Trip, error) {
			calls++
			return nil, fmt.Errorf("%w: status 500", domain.ErrRemote)
		},
	}
	coord := NewCoordinator(store.New(), remote, nil)
	r := NewRefresher(coord, time.Hour, nil)

	assert.ErrorIs(t, r.TryRefresh(context.Background()), domain.ErrRemote)
	assert.ErrorIs(t, r.TryRefresh(context.Background()), domain.ErrRemote)
	assert.Equal(t, 2, calls, "a failed refresh never wedges the guard")
}

// TestRun_StopsOnCancel verifies the ticker loop exits promptly when the
// context is cancelled and keeps ticking through failures until then.
func TestRun_StopsOnCancel(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	remote := &mockRemote{
		listTrips: func(context.Context) ([]domain.Trip, error) {
			mu.Lock()
			calls++
			mu.Unlock()
			return nil, fmt.Errorf("%w: refused", domain.ErrRemote)
		},
	}
	coord := NewCoordinator(store.New(), remote, nil)
	r := NewRefresher(coord, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx)
		close(done)
	}()

	// Let a few ticks fire, each one failing.
	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.GreaterOrEqual(t, calls, 2, "failures must not stop the schedule")
}
