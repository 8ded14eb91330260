package store

import (
	"sync"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/calendar"
	"github.com/borgmon/meeting-alarm/pkg/models"
)

// storedMeeting is an admitted meeting plus its alert bookkeeping
type storedMeeting struct {
	meeting    models.Meeting
	admittedAt time.Time
	alerted    bool
}

// IngestResult summarizes one batch of candidates
type IngestResult struct {
	Admitted   []models.Meeting // New meetings, in input order
	Duplicates int              // Candidates already in the store
	Filtered   int              // Candidates rejected by the sender allow-list
}

// MeetingStore is the append-only set of meetings seen during a session.
// Lookups are linear scans; a session only ever holds a handful of meetings.
type MeetingStore struct {
	mu sync.RWMutex

	meetings  []*storedMeeting
	allowList []string
}

// NewMeetingStore creates an empty MeetingStore
func NewMeetingStore() *MeetingStore {
	return &MeetingStore{}
}

// SetAllowList replaces the sender allow-list. Entries must already be lowercase.
func (ms *MeetingStore) SetAllowList(allowList []string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.allowList = append([]string(nil), allowList...)
}

// AllowList returns a copy of the sender allow-list
func (ms *MeetingStore) AllowList() []string {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return append([]string(nil), ms.allowList...)
}

// Ingest admits every candidate that is neither a duplicate nor from a
// sender outside the allow-list. Candidates are evaluated in order, so a
// batch that repeats a meeting only admits the first copy.
func (ms *MeetingStore) Ingest(candidates []models.Meeting, now time.Time) IngestResult {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	result := IngestResult{}
	for _, candidate := range candidates {
		candidate.CoerceTime()

		if ms.contains(&candidate) {
			result.Duplicates++
			continue
		}

		if !models.SenderAllowed(ms.allowList, candidate.Sender) {
			result.Filtered++
			continue
		}

		candidate.Platform = calendar.ResolvePlatform(candidate.Platform, candidate.Link)
		ms.meetings = append(ms.meetings, &storedMeeting{
			meeting:    candidate,
			admittedAt: now,
		})
		result.Admitted = append(result.Admitted, candidate)
	}

	return result
}

func (ms *MeetingStore) contains(candidate *models.Meeting) bool {
	for _, stored := range ms.meetings {
		if stored.meeting.SameAs(candidate) {
			return true
		}
	}
	return false
}

// DueAlerts returns meetings that entered their alert window and have not
// been alerted yet, and marks them alerted.
func (ms *MeetingStore) DueAlerts(now time.Time, lead time.Duration) []models.Meeting {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	due := []models.Meeting{}
	for _, stored := range ms.meetings {
		if stored.alerted || !stored.meeting.InAlertWindow(now, lead) {
			continue
		}
		stored.alerted = true
		due = append(due, stored.meeting)
	}
	return due
}

// Meetings returns a copy of all admitted meetings in admission order
func (ms *MeetingStore) Meetings() []models.Meeting {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	result := make([]models.Meeting, 0, len(ms.meetings))
	for _, stored := range ms.meetings {
		result = append(result, stored.meeting)
	}
	return result
}

// Len returns the number of admitted meetings
func (ms *MeetingStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.meetings)
}

// UpcomingCount counts admitted meetings that start after now
func (ms *MeetingStore) UpcomingCount(now time.Time) int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	count := 0
	for _, stored := range ms.meetings {
		if stored.meeting.IsUpcoming(now) {
			count++
		}
	}
	return count
}

// Reset drops every admitted meeting. The allow-list is kept.
func (ms *MeetingStore) Reset() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.meetings = nil
}
