package tui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/activitylog"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/borgmon/meeting-alarm/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeController struct {
	mu      sync.Mutex
	snap    session.Snapshot
	toggles int
	checks  int
	clears  int
}

func (c *fakeController) Snapshot() session.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snap
}

func (c *fakeController) Toggle(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.toggles++
	c.snap.Running = !c.snap.Running
}

func (c *fakeController) CheckNow(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks++
}

func (c *fakeController) ClearLogs() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clears++
	c.snap.Logs = nil
}

func newTestModel(ctrl *fakeController) (Model, *bytes.Buffer) {
	var bell bytes.Buffer
	m := New(context.Background(), ctrl, NewAlerts(), session.NewBanner(time.Hour, nil, nil), &bell)
	m.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local) }
	return m, &bell
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSpaceTogglesInBackground(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(ctrl)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model := updated.(Model)
	require.NotNil(t, cmd)
	assert.True(t, model.busy)

	// a second press while busy is ignored
	_, again := model.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	assert.Nil(t, again)

	msg := cmd()
	assert.IsType(t, DoneMsg{}, msg)
	assert.Equal(t, 1, ctrl.toggles)

	updated, _ = model.Update(msg)
	model = updated.(Model)
	assert.False(t, model.busy)
	assert.True(t, model.snap.Running)
	assert.Contains(t, model.View(), "Monitoring every")
}

func TestCheckNowKey(t *testing.T) {
	ctrl := &fakeController{}
	m, _ := newTestModel(ctrl)

	_, cmd := m.Update(runes("c"))
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 1, ctrl.checks)
}

func TestClearLogsKey(t *testing.T) {
	ctrl := &fakeController{snap: session.Snapshot{Logs: []activitylog.Entry{{Message: "hello"}}}}
	m, _ := newTestModel(ctrl)

	updated, _ := m.Update(runes("x"))
	model := updated.(Model)
	assert.Equal(t, 1, ctrl.clears)
	assert.Empty(t, model.snap.Logs)
}

func TestQuit(t *testing.T) {
	m, _ := newTestModel(&fakeController{})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestAlertShowsBannerAndRingsBell(t *testing.T) {
	m, bell := newTestModel(&fakeController{})
	at := time.Date(2026, 10, 16, 9, 5, 0, 0, time.Local)

	updated, cmd := m.Update(AlertMsg{Meeting: models.Meeting{Title: "Standup", Sender: "a@x.com", Time: &at, Link: "https://zoom.us/j/1"}})
	model := updated.(Model)

	assert.NotNil(t, cmd, "must keep listening for alerts")
	assert.Equal(t, "\a", bell.String())

	view := model.View()
	assert.Contains(t, view, "Standup")
	assert.Contains(t, view, "https://zoom.us/j/1")

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(Model)
	assert.NotContains(t, model.View(), "https://zoom.us/j/1")
}

func TestAlertsForwarding(t *testing.T) {
	alerts := NewAlerts()
	alerts.ShowMeetingAlert(models.Meeting{Title: "Standup"})

	msg := waitForAlertCmd(alerts)()
	assert.Equal(t, AlertMsg{Meeting: models.Meeting{Title: "Standup"}}, msg)
}

func TestViewRendersMeetingsAndLogs(t *testing.T) {
	at := time.Date(2026, 10, 16, 14, 30, 0, 0, time.Local)
	ctrl := &fakeController{snap: session.Snapshot{
		Stats:    models.Stats{TotalMeetings: 2, SuccessRate: 40},
		Meetings: []models.Meeting{{Title: "Review", Time: &at, Platform: "Zoom"}, {Title: "Undated"}},
		Logs: []activitylog.Entry{
			{Time: at, Level: activitylog.LevelSuccess, Message: "Meeting detected: Review"},
		},
	}}
	m, _ := newTestModel(ctrl)

	view := m.View()
	assert.Contains(t, view, "Fri, Oct 16, 02:30 PM")
	assert.Contains(t, view, "Not specified")
	assert.Contains(t, view, "40%")
	assert.Contains(t, view, "[14:30:00] [SUCCESS] Meeting detected: Review")
	assert.True(t, strings.Contains(view, "Unknown"), "missing sender shows Unknown")
}

func TestViewWithoutMeetings(t *testing.T) {
	m, _ := newTestModel(&fakeController{})
	assert.Contains(t, m.View(), "No meetings detected yet")
}
