package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingDecodesBackendPayload(t *testing.T) {
	payload := `[{"id":"18c2","title":"Standup","sender":"a@x.com","time":"2026-10-16T09:30:00","platform":"Zoom","link":"https://zoom.us/j/1"},
		{"id":null,"title":"Sync","sender":"b@y.com","time":null,"platform":"Unknown","link":null}]`

	var meetings []Meeting
	require.NoError(t, json.Unmarshal([]byte(payload), &meetings))
	require.Len(t, meetings, 2)

	assert.Equal(t, "18c2", meetings[0].ID)
	assert.Equal(t, "2026-10-16T09:30:00", meetings[0].RawTime)
	assert.Nil(t, meetings[0].Time)
	assert.Empty(t, meetings[1].ID)
	assert.Empty(t, meetings[1].RawTime)
}

func TestCoerceTime(t *testing.T) {
	m := Meeting{RawTime: "2026-10-16T09:30:00"}
	m.CoerceTime()
	require.True(t, m.HasTime())
	assert.Equal(t, time.Date(2026, 10, 16, 9, 30, 0, 0, time.Local), *m.Time)

	withOffset := Meeting{RawTime: "2026-10-16T09:30:00+02:00"}
	withOffset.CoerceTime()
	require.True(t, withOffset.HasTime())
	assert.Equal(t, 7, withOffset.Time.UTC().Hour())

	bad := Meeting{RawTime: "next tuesday-ish"}
	bad.CoerceTime()
	assert.False(t, bad.HasTime())
}

func TestSameAs(t *testing.T) {
	at := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	later := at.Add(time.Hour)

	tests := []struct {
		name string
		a, b Meeting
		want bool
	}{
		{"same id", Meeting{ID: "1", Title: "A"}, Meeting{ID: "1", Title: "B"}, true},
		{"same title and time", Meeting{ID: "1", Title: "A", Time: &at}, Meeting{ID: "2", Title: "A", Time: &at}, true},
		{"same title other time", Meeting{ID: "1", Title: "A", Time: &at}, Meeting{ID: "2", Title: "A", Time: &later}, false},
		{"undated same title", Meeting{Title: "A"}, Meeting{Title: "A"}, true},
		{"undated other title", Meeting{Title: "A"}, Meeting{Title: "B"}, false},
		{"unparseable times", Meeting{Title: "A", RawTime: "not-a-date"}, Meeting{Title: "A", RawTime: "never"}, true},
		{"one missing time", Meeting{Title: "A", Time: &at}, Meeting{Title: "A"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.SameAs(&tt.b))
		})
	}
}

func TestInAlertWindow(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	soon := now.Add(5 * time.Minute)
	past := now.Add(-time.Minute)
	m := Meeting{Time: &soon}

	assert.True(t, m.InAlertWindow(now, 10*time.Minute))
	assert.True(t, m.InAlertWindow(now, 5*time.Minute))
	assert.False(t, m.InAlertWindow(now, 2*time.Minute))

	started := Meeting{Time: &past}
	assert.False(t, started.InAlertWindow(now, 10*time.Minute))

	undated := Meeting{}
	assert.False(t, undated.InAlertWindow(now, 10*time.Minute))
}

func TestParseListAndSenderAllowed(t *testing.T) {
	list := ParseList(" X.com , ,Boss@Corp.io,")
	assert.Equal(t, []string{"x.com", "boss@corp.io"}, list)

	assert.True(t, SenderAllowed(list, "Alice <A@X.COM>"))
	assert.False(t, SenderAllowed(list, "b@y.com"))
	assert.True(t, SenderAllowed(nil, "anyone@anywhere"))
	assert.Empty(t, ParseList(""))
}

func TestConfigDurations(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 5*time.Minute, cfg.ScanInterval())
	assert.Equal(t, 10*time.Minute, cfg.AlertLeadTime())
	assert.Contains(t, cfg.Keywords(), "zoom")
	assert.Empty(t, cfg.AllowList())
}
