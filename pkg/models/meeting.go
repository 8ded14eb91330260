package models

import (
	"strings"
	"time"
)

// Meeting is a calendar event the backend extracted from an email
type Meeting struct {
	ID       string     `json:"id,omitempty"`   // Backend message ID, used for dedup and deep links
	Title    string     `json:"title"`          // Meeting title
	Sender   string     `json:"sender"`         // Sender address as it appeared in the mail
	RawTime  string     `json:"time,omitempty"` // Scheduled time as the backend sent it
	Time     *time.Time `json:"-"`              // Parsed scheduled time, nil if absent or unparseable
	Platform string     `json:"platform"`       // Free-form label such as "Zoom"
	Link     string     `json:"link,omitempty"` // Join link
}

// timestampLayouts are tried in order when coercing RawTime. Values without
// an offset are read as local time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 style timestamp
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CoerceTime fills Time from RawTime if it has not been parsed yet.
// An unparseable value leaves Time nil.
func (m *Meeting) CoerceTime() {
	if m.Time != nil || m.RawTime == "" {
		return
	}
	if t, ok := ParseTimestamp(m.RawTime); ok {
		m.Time = &t
	}
}

// HasTime reports whether the meeting has a usable scheduled time
func (m *Meeting) HasTime() bool {
	return m.Time != nil
}

// SameAs reports whether two records describe the same meeting: matching
// identifiers, or matching title and timestamp. Two records without a
// usable time have matching timestamps.
func (m *Meeting) SameAs(other *Meeting) bool {
	if m.ID != "" && m.ID == other.ID {
		return true
	}
	if m.Title != other.Title {
		return false
	}
	if m.Time == nil || other.Time == nil {
		return m.Time == nil && other.Time == nil
	}
	return m.Time.Equal(*other.Time)
}

// Until returns the time left before the meeting starts
func (m *Meeting) Until(now time.Time) (time.Duration, bool) {
	if m.Time == nil {
		return 0, false
	}
	return m.Time.Sub(now), true
}

// IsUpcoming reports whether the meeting starts after now
func (m *Meeting) IsUpcoming(now time.Time) bool {
	return m.Time != nil && m.Time.After(now)
}

// InAlertWindow reports whether the meeting starts within lead of now
func (m *Meeting) InAlertWindow(now time.Time, lead time.Duration) bool {
	until, ok := m.Until(now)
	return ok && until > 0 && until <= lead
}

// Stats mirrors the backend's aggregate counters
type Stats struct {
	TotalMeetings    int `json:"totalMeetings"`
	UpcomingMeetings int `json:"upcomingMeetings"`
	EmailsScanned    int `json:"emailsScanned"`
	SuccessRate      int `json:"successRate"` // percent
}
