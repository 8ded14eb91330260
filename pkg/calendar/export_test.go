package calendar

import (
	"bytes"
	"testing"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportRoundTrip(t *testing.T) {
	start := time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)
	meetings := []models.Meeting{
		{ID: "abc", Title: "Standup", Sender: "a@x.com", Time: &start, Platform: "Unknown", Link: "https://zoom.us/j/123"},
		{Title: "Undated", Sender: "b@y.com"},
	}

	var buf bytes.Buffer
	n, err := Export(&buf, meetings, start.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 1)

	event := events[0]
	assert.Equal(t, "Standup", event.Props.Get(ical.PropSummary).Value)
	assert.Equal(t, "abc@meeting-alarm", event.Props.Get(ical.PropUID).Value)
	assert.Equal(t, "https://zoom.us/j/123", event.Props.Get(ical.PropLocation).Value)
	assert.Contains(t, event.Props.Get(ical.PropDescription).Value, "Platform: Zoom")

	got, err := event.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.True(t, got.Equal(start))
}

func TestExportWithoutDatedMeetings(t *testing.T) {
	var buf bytes.Buffer
	n, err := Export(&buf, []models.Meeting{{Title: "Undated"}}, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, buf.Len())
}

func TestEventUIDIsStable(t *testing.T) {
	start := time.Date(2026, 10, 16, 14, 0, 0, 0, time.UTC)
	a := models.Meeting{Title: "Review", Time: &start}
	b := models.Meeting{Title: "Review", Time: &start}
	assert.Equal(t, eventUID(&a), eventUID(&b))
}

func TestResolvePlatform(t *testing.T) {
	assert.Equal(t, "Zoom", ResolvePlatform("Zoom", ""))
	assert.Equal(t, "Google Meet", ResolvePlatform("Unknown", "https://meet.google.com/abc-defg-hij"))
	assert.Equal(t, "Microsoft Teams", ResolvePlatform("", "https://teams.microsoft.com/l/meetup-join/19%3a"))
	assert.Equal(t, "Webex", ResolvePlatform("unknown", "https://acme.webex.com/meet/bob"))
	assert.Equal(t, UnknownPlatform, ResolvePlatform("", "https://example.com/room"))
	assert.Equal(t, UnknownPlatform, ResolvePlatform("", ""))
}
