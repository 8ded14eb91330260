package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPoller() *Poller {
	return &Poller{RefreshInterval: 20 * time.Millisecond, InitialDelay: 5 * time.Millisecond}
}

func TestPollerRunsInitialAndRepeatingChecks(t *testing.T) {
	p := fastPoller()
	var calls atomic.Int32

	p.Start(context.Background(), time.Hour, func(context.Context) { calls.Add(1) })
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
	assert.True(t, p.Running())
}

func TestPollerScanIntervalAlsoFires(t *testing.T) {
	p := &Poller{InitialDelay: time.Hour}
	var calls atomic.Int32

	p.Start(context.Background(), 10*time.Millisecond, func(context.Context) { calls.Add(1) })
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := fastPoller()
	var calls atomic.Int32

	p.Start(context.Background(), time.Hour, func(context.Context) { calls.Add(1) })
	p.Stop()
	p.Stop()

	assert.False(t, p.Running())
	assert.Nil(t, p.scanTicker)
	assert.Nil(t, p.refreshTicker)
	assert.Nil(t, p.initialTimer)

	settled := calls.Load()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, settled, calls.Load())
}

func TestPollerStopBeforeInitialDelay(t *testing.T) {
	p := &Poller{InitialDelay: 50 * time.Millisecond}
	var calls atomic.Int32

	p.Start(context.Background(), time.Hour, func(context.Context) { calls.Add(1) })
	p.Stop()

	time.Sleep(100 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestRunEveryStopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan struct{})

	go func() {
		RunEvery(ctx, 5*time.Millisecond, func(context.Context) { calls.Add(1) })
		close(done)
	}()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunEvery did not return after cancel")
	}
}
