// Package tui is a terminal dashboard for a running session.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/activitylog"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/borgmon/meeting-alarm/pkg/present"
	"github.com/borgmon/meeting-alarm/pkg/session"
	"github.com/charmbracelet/lipgloss"

	tea "github.com/charmbracelet/bubbletea"
)

const (
	refreshInterval = time.Second
	maxLogLines     = 10
)

// Controller is the part of session.Session the dashboard drives
type Controller interface {
	Snapshot() session.Snapshot
	Toggle(ctx context.Context)
	CheckNow(ctx context.Context)
	ClearLogs()
}

// Alerts forwards session alerts into the bubbletea loop
type Alerts struct {
	ch chan models.Meeting
}

// NewAlerts creates an Alerts with room for a few pending meetings
func NewAlerts() *Alerts {
	return &Alerts{ch: make(chan models.Meeting, 8)}
}

// ShowMeetingAlert implements session.Alerter. Alerts beyond the buffer are dropped.
func (a *Alerts) ShowMeetingAlert(m models.Meeting) {
	select {
	case a.ch <- m:
	default:
	}
}

// TickMsg triggers a re-render from a fresh snapshot
type TickMsg time.Time

// AlertMsg carries a meeting that entered its alert window
type AlertMsg struct {
	Meeting models.Meeting
}

// DoneMsg reports that a background session call finished
type DoneMsg struct{}

// Model is the root bubbletea model for the dashboard
type Model struct {
	ctx    context.Context
	ctrl   Controller
	alerts *Alerts
	banner *session.Banner
	bell   io.Writer
	now    func() time.Time

	snap   session.Snapshot
	busy   bool
	width  int
	height int
}

// New creates a Model. bell receives a BEL character for every alert and
// may be nil.
func New(ctx context.Context, ctrl Controller, alerts *Alerts, banner *session.Banner, bell io.Writer) Model {
	return Model{
		ctx:    ctx,
		ctrl:   ctrl,
		alerts: alerts,
		banner: banner,
		bell:   bell,
		now:    time.Now,
		snap:   ctrl.Snapshot(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), waitForAlertCmd(m.alerts))
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// waitForAlertCmd blocks until the session raises an alert
func waitForAlertCmd(alerts *Alerts) tea.Cmd {
	if alerts == nil {
		return nil
	}
	return func() tea.Msg {
		return AlertMsg{Meeting: <-alerts.ch}
	}
}

// runCmd calls fn off the UI goroutine
func runCmd(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return DoneMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TickMsg:
		m.snap = m.ctrl.Snapshot()
		return m, tickCmd()

	case DoneMsg:
		m.busy = false
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case AlertMsg:
		m.banner.Show(msg.Meeting)
		if m.bell != nil {
			fmt.Fprint(m.bell, "\a")
		}
		return m, waitForAlertCmd(m.alerts)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "Q", "ctrl+c":
		return m, tea.Quit

	case " ", "ctrl+@":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, runCmd(func() { m.ctrl.Toggle(m.ctx) })

	case "c":
		if m.busy {
			return m, nil
		}
		m.busy = true
		return m, runCmd(func() { m.ctrl.CheckNow(m.ctx) })

	case "x":
		m.ctrl.ClearLogs()
		m.snap = m.ctrl.Snapshot()
		return m, nil

	case "esc":
		m.banner.Hide()
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderStats())
	b.WriteString("\n")

	if alert := m.renderAlert(); alert != "" {
		b.WriteString("\n")
		b.WriteString(alert)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(PanelTitleStyle.Render("Detected Meetings"))
	b.WriteString("\n")
	b.WriteString(m.renderMeetings())
	b.WriteString("\n")
	b.WriteString(m.divider())
	b.WriteString("\n")
	b.WriteString(PanelTitleStyle.Render("Activity Log"))
	b.WriteString("\n")
	b.WriteString(m.renderLogs())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	status := StoppedStyle.Render("○ Stopped")
	if m.snap.Running {
		status = RunningStyle.Render(fmt.Sprintf("● Monitoring every %d min", m.snap.Config.CheckInterval))
	}
	if m.busy {
		status += DimStyle.Render("  working...")
	}
	return TitleStyle.Render("Meeting Alarm") + "  " + status
}

func (m Model) renderStats() string {
	stat := func(label, value string) string {
		return DimStyle.Render(label+" ") + StatValueStyle.Render(value)
	}
	s := m.snap.Stats
	return strings.Join([]string{
		stat("Total", fmt.Sprint(s.TotalMeetings)),
		stat("Upcoming", fmt.Sprint(s.UpcomingMeetings)),
		stat("Scanned", fmt.Sprint(s.EmailsScanned)),
		stat("Success", present.SuccessRate(s.SuccessRate)),
	}, "   ")
}

func (m Model) renderAlert() string {
	meeting, ok := m.banner.Current()
	if !ok {
		return ""
	}

	lines := []string{present.AlertHeadline(meeting), present.AlertDetails(meeting)}
	if meeting.Link != "" {
		lines = append(lines, "🔗 "+meeting.Link)
	}
	return AlertStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) renderMeetings() string {
	if len(m.snap.Meetings) == 0 {
		return DimStyle.Render(present.NoMeetingsMessage)
	}

	now := m.now()
	rows := make([]string, 0, len(m.snap.Meetings))
	for _, meeting := range m.snap.Meetings {
		status := present.Status(meeting, now)
		statusStyle := PastStyle
		if status == present.Upcoming {
			statusStyle = UpcomingStyle
		}
		rows = append(rows, fmt.Sprintf("%s %-22s %s  %s  %s",
			statusStyle.Render("●"),
			present.MeetingTime(meeting),
			lipgloss.NewStyle().Bold(true).Render(meeting.Title),
			DimStyle.Render(present.OrUnknown(meeting.Sender)),
			DimStyle.Render(present.OrUnknown(meeting.Platform)),
		))
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderLogs() string {
	entries := m.snap.Logs
	if len(entries) > maxLogLines {
		entries = entries[len(entries)-maxLogLines:]
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		style, ok := levelStyles[activitylog.LevelName(e.Level)]
		if !ok {
			style = DimStyle
		}
		lines = append(lines, style.Render(present.LogLine(e)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	key := func(k, desc string) string {
		return FooterKeyStyle.Render(k) + " " + FooterDescStyle.Render(desc)
	}
	toggle := "start"
	if m.snap.Running {
		toggle = "stop"
	}
	return strings.Join([]string{
		key("space", toggle),
		key("c", "check now"),
		key("x", "clear log"),
		key("esc", "dismiss"),
		key("q", "quit"),
	}, "  ")
}

func (m Model) divider() string {
	width := m.width
	if width <= 0 {
		width = 60
	}
	return DividerStyle.Render(strings.Repeat("─", width))
}
