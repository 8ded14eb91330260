package mockbackend

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartStopAndStats(t *testing.T) {
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)
	srv := New()
	srv.now = func() time.Time { return now }
	for _, m := range DemoMeetings(now) {
		srv.AddMeeting(m)
	}

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/start", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.True(t, srv.Monitoring())

	resp, err = http.Get(ts.URL + "/api/check-emails")
	require.NoError(t, err)
	var meetings []models.Meeting
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&meetings))
	resp.Body.Close()
	assert.Len(t, meetings, 3)

	resp, err = http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	var stats models.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
	resp.Body.Close()

	assert.Equal(t, models.Stats{TotalMeetings: 3, UpcomingMeetings: 2, EmailsScanned: 1, SuccessRate: 300}, stats)

	resp, err = http.Post(ts.URL+"/api/stop", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.False(t, srv.Monitoring())
}

func TestFailWith(t *testing.T) {
	srv := New()
	srv.FailWith(http.StatusServiceUnavailable)

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/stats")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestEmptyCheckEmailsIsAnArray(t *testing.T) {
	ts := httptest.NewServer(New().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/check-emails")
	require.NoError(t, err)
	defer resp.Body.Close()

	var raw []json.RawMessage
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&raw))
	assert.NotNil(t, raw)
	assert.Empty(t, raw)
}
