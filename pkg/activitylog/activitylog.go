// Package activitylog keeps the short rolling log shown in the dashboard and
// feeds it from slog.
package activitylog

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MaxEntries is the number of entries retained by default
const MaxEntries = 50

// LevelSuccess sits between Info and Warn
const LevelSuccess = slog.Level(2)

// Entry is one line of the activity log
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// Buffer is a bounded, oldest-first log
type Buffer struct {
	mu       sync.Mutex
	max      int
	entries  []Entry
	onChange func()
}

// NewBuffer creates a Buffer holding at most max entries
func NewBuffer(max int) *Buffer {
	if max <= 0 {
		max = MaxEntries
	}
	return &Buffer{max: max}
}

// OnChange registers a callback run after every append or clear.
// It is called without the buffer lock held.
func (b *Buffer) OnChange(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = fn
}

// Append adds an entry, evicting the oldest ones past the limit
func (b *Buffer) Append(e Entry) {
	b.mu.Lock()
	b.entries = append(b.entries, e)
	if overflow := len(b.entries) - b.max; overflow > 0 {
		b.entries = append([]Entry(nil), b.entries[overflow:]...)
	}
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// Entries returns a copy of the retained entries, oldest first
func (b *Buffer) Entries() []Entry {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Entry(nil), b.entries...)
}

// Len returns the number of retained entries
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Clear drops every entry
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.entries = nil
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange()
	}
}

// LevelName maps a level to the label shown in the log panel
func LevelName(level slog.Level) string {
	switch {
	case level < slog.LevelInfo:
		return "DEBUG"
	case level < LevelSuccess:
		return "INFO"
	case level < slog.LevelWarn:
		return "SUCCESS"
	case level < slog.LevelError:
		return "WARNING"
	default:
		return "ERROR"
	}
}

// ReplaceLevel is a slog.HandlerOptions.ReplaceAttr that prints LevelSuccess
// as SUCCESS instead of INFO+2.
func ReplaceLevel(groups []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey || len(groups) > 0 {
		return a
	}
	if level, ok := a.Value.Any().(slog.Level); ok && level == LevelSuccess {
		a.Value = slog.StringValue("SUCCESS")
	}
	return a
}

// Handler records every message at Debug or above into a Buffer and passes
// records on to the next handler, which applies its own level.
type Handler struct {
	buffer *Buffer
	next   slog.Handler
}

// NewHandler wraps next so its records also land in buffer
func NewHandler(buffer *Buffer, next slog.Handler) *Handler {
	return &Handler{buffer: buffer, next: next}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelDebug || h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	h.buffer.Append(Entry{Time: r.Time, Level: r.Level, Message: r.Message})
	if !h.next.Enabled(ctx, r.Level) {
		return nil
	}
	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{buffer: h.buffer, next: h.next.WithAttrs(attrs)}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{buffer: h.buffer, next: h.next.WithGroup(name)}
}
