package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/models"
)

// DefaultBannerTimeout is how long a banner stays up without user action
const DefaultBannerTimeout = 10 * time.Second

// Banner tracks the in-app meeting banner. At most one meeting link is held
// at a time; it is cleared on hide, join or timeout.
type Banner struct {
	timeout time.Duration
	logger  *slog.Logger
	onHide  func()

	mu      sync.Mutex
	meeting *models.Meeting
	link    string
	timer   *time.Timer
	shownAt uint64
}

// NewBanner creates a hidden Banner. onHide runs after every hide, including
// timeouts, and may be nil.
func NewBanner(timeout time.Duration, logger *slog.Logger, onHide func()) *Banner {
	if timeout <= 0 {
		timeout = DefaultBannerTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Banner{timeout: timeout, logger: logger, onHide: onHide}
}

// Show replaces the current meeting and restarts the timeout
func (b *Banner) Show(m models.Meeting) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.timer != nil {
		b.timer.Stop()
	}

	b.meeting = &m
	b.link = m.Link
	b.shownAt++
	shown := b.shownAt
	b.timer = time.AfterFunc(b.timeout, func() {
		b.expire(shown)
	})
}

func (b *Banner) expire(shown uint64) {
	b.mu.Lock()
	if b.shownAt != shown || b.meeting == nil {
		b.mu.Unlock()
		return
	}
	b.clearLocked()
	b.mu.Unlock()

	if b.onHide != nil {
		b.onHide()
	}
}

// Hide dismisses the banner
func (b *Banner) Hide() {
	b.mu.Lock()
	visible := b.meeting != nil
	b.clearLocked()
	b.mu.Unlock()

	if visible && b.onHide != nil {
		b.onHide()
	}
}

func (b *Banner) clearLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.meeting = nil
	b.link = ""
}

// Join opens the current link and hides the banner. Without a link it does
// nothing.
func (b *Banner) Join(open func(link string) error) error {
	link := b.CurrentLink()
	if link == "" {
		return nil
	}

	if err := open(link); err != nil {
		b.logger.Error(fmt.Sprintf("Failed to open meeting link: %v", err))
		return err
	}
	b.logger.Info("Opened meeting link")
	b.Hide()
	return nil
}

// Visible reports whether a meeting is on display
func (b *Banner) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.meeting != nil
}

// Current returns the displayed meeting
func (b *Banner) Current() (models.Meeting, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.meeting == nil {
		return models.Meeting{}, false
	}
	return *b.meeting, true
}

// CurrentLink returns the join link of the displayed meeting, if any
func (b *Banner) CurrentLink() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.link
}
