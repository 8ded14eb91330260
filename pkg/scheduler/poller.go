package scheduler

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultRefreshInterval = 15 * time.Second
	DefaultInitialDelay    = 2 * time.Second
	DefaultStatsInterval   = 30 * time.Second
)

// CheckFunc is run on every tick. Errors are the callback's own business:
// a failing check never stops the schedule.
type CheckFunc func(ctx context.Context)

// Poller drives the scan ticker, the fast refresh ticker and the delayed
// first check against one CheckFunc.
type Poller struct {
	RefreshInterval time.Duration
	InitialDelay    time.Duration

	mu            sync.Mutex
	scanTicker    *time.Ticker
	refreshTicker *time.Ticker
	initialTimer  *time.Timer
	stop          chan struct{}
}

// NewPoller creates a Poller with the default refresh cadence and delay
func NewPoller() *Poller {
	return &Poller{
		RefreshInterval: DefaultRefreshInterval,
		InitialDelay:    DefaultInitialDelay,
	}
}

// Start begins polling. A running schedule is replaced. ctx is handed to
// every check; cancelling it does not stop the timers, Stop does.
func (p *Poller) Start(ctx context.Context, scanInterval time.Duration, check CheckFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()

	stop := make(chan struct{})
	p.stop = stop

	// time.NewTicker panics on a non-positive interval
	if scanInterval > 0 {
		p.scanTicker = time.NewTicker(scanInterval)
		go runTicker(ctx, p.scanTicker, stop, check)
	}

	if p.RefreshInterval > 0 {
		p.refreshTicker = time.NewTicker(p.RefreshInterval)
		go runTicker(ctx, p.refreshTicker, stop, check)
	}

	p.initialTimer = time.AfterFunc(p.InitialDelay, func() {
		select {
		case <-stop:
			return
		default:
		}
		check(ctx)
	})
}

// Stop cancels both tickers and a pending first check. Calling Stop on a
// stopped Poller does nothing.
func (p *Poller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *Poller) stopLocked() {
	if p.stop != nil {
		close(p.stop)
		p.stop = nil
	}
	if p.scanTicker != nil {
		p.scanTicker.Stop()
		p.scanTicker = nil
	}
	if p.refreshTicker != nil {
		p.refreshTicker.Stop()
		p.refreshTicker = nil
	}
	if p.initialTimer != nil {
		p.initialTimer.Stop()
		p.initialTimer = nil
	}
}

// Running reports whether a schedule is active
func (p *Poller) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stop != nil
}

func runTicker(ctx context.Context, ticker *time.Ticker, stop <-chan struct{}, check CheckFunc) {
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			check(ctx)
		}
	}
}

// RunEvery calls fn every interval until ctx is done, independent of any
// Poller. It blocks, so callers usually run it in a goroutine.
func RunEvery(ctx context.Context, interval time.Duration, fn CheckFunc) {
	if interval <= 0 {
		interval = DefaultStatsInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}
