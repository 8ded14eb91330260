package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/mockbackend"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *mockbackend.Server) {
	t.Helper()
	srv := mockbackend.New()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return NewClient(ts.URL+"/", ts.Client()), srv
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("", nil)
	assert.Equal(t, models.DefaultBackendURL, c.BaseURL())

	c = NewClient("http://localhost:9000///", nil)
	assert.Equal(t, "http://localhost:9000", c.BaseURL())
}

func TestStartStop(t *testing.T) {
	c, srv := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Start(ctx))
	assert.True(t, srv.Monitoring())

	require.NoError(t, c.Stop(ctx))
	assert.False(t, srv.Monitoring())
}

func TestCheckEmailsKeepsRawTime(t *testing.T) {
	c, srv := newTestClient(t)
	srv.AddMeeting(models.Meeting{ID: "m1", Title: "Standup", Sender: "a@x.com", RawTime: "2026-10-16T09:05:00", Link: "https://zoom.us/j/1"})
	srv.AddMeeting(models.Meeting{Title: "Undated", Sender: "b@x.com"})

	meetings, err := c.CheckEmails(context.Background())
	require.NoError(t, err)
	require.Len(t, meetings, 2)

	assert.Equal(t, "m1", meetings[0].ID)
	assert.Equal(t, "2026-10-16T09:05:00", meetings[0].RawTime)
	assert.Nil(t, meetings[0].Time)
	assert.Equal(t, "", meetings[1].RawTime)
}

func TestStats(t *testing.T) {
	c, srv := newTestClient(t)
	srv.AddMeeting(models.Meeting{ID: "m1", Title: "Later", RawTime: time.Now().Add(time.Hour).Format(time.RFC3339)})

	ctx := context.Background()
	require.NoError(t, c.Start(ctx))
	_, err := c.CheckEmails(ctx)
	require.NoError(t, err)

	stats, err := c.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalMeetings)
	assert.Equal(t, 1, stats.UpcomingMeetings)
	assert.Equal(t, 1, stats.EmailsScanned)
	assert.Equal(t, 100, stats.SuccessRate)
}

func TestNon2xxBecomesStatusError(t *testing.T) {
	c, srv := newTestClient(t)
	srv.FailWith(http.StatusInternalServerError)

	_, err := c.Stats(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, "/api/stats", statusErr.Path)
	assert.Equal(t, "API error: 500", err.Error())

	meetings, err := c.CheckEmails(context.Background())
	assert.Error(t, err)
	assert.Nil(t, meetings)
}

func TestUnreachableBackend(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	err := NewClient(url, nil).Start(context.Background())
	require.Error(t, err)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, ts.Client()).CheckEmails(context.Background())
	assert.ErrorContains(t, err, "failed to decode")
}
