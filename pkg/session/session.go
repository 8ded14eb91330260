// Package session owns one monitoring run: the poll schedule, the meetings
// admitted so far, the backend stats and the alerts they trigger.
package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/activitylog"
	"github.com/borgmon/meeting-alarm/pkg/calendar"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/borgmon/meeting-alarm/pkg/notify"
	"github.com/borgmon/meeting-alarm/pkg/present"
	"github.com/borgmon/meeting-alarm/pkg/scheduler"
	"github.com/borgmon/meeting-alarm/pkg/store"
	"github.com/google/uuid"
)

// Backend is the mail-scanning service the session polls
type Backend interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Stats(ctx context.Context) (models.Stats, error)
	CheckEmails(ctx context.Context) ([]models.Meeting, error)
}

// Alerter presents a meeting that entered its alert window
type Alerter interface {
	ShowMeetingAlert(m models.Meeting)
}

// AlerterFunc adapts a function to Alerter
type AlerterFunc func(m models.Meeting)

func (f AlerterFunc) ShowMeetingAlert(m models.Meeting) { f(m) }

// ConfigSaver persists settings. store.ConfigStore satisfies it.
type ConfigSaver interface {
	Save(config *models.Config)
}

// Options configures a Session. Backend is required.
type Options struct {
	Backend  Backend
	Config   *models.Config
	Logger   *slog.Logger
	Logs     *activitylog.Buffer // cleared on Start, may be nil
	Saver    ConfigSaver         // may be nil
	Notifier notify.Notifier     // may be nil
	Poller   *scheduler.Poller   // defaults to scheduler.NewPoller()

	StatsInterval time.Duration
	Now           func() time.Time
}

// Snapshot is a consistent copy of what the dashboard renders
type Snapshot struct {
	Running    bool
	Generation string
	Config     models.Config
	Stats      models.Stats
	Meetings   []models.Meeting // sorted for display
	Logs       []activitylog.Entry
}

// Session is the single controller for a process. Start and Stop may be
// called from any goroutine.
type Session struct {
	backend       Backend
	logger        *slog.Logger
	logs          *activitylog.Buffer
	saver         ConfigSaver
	notifier      notify.Notifier
	poller        *scheduler.Poller
	meetings      *store.MeetingStore
	statsInterval time.Duration
	now           func() time.Time

	mu         sync.Mutex
	running    bool
	config     models.Config
	stats      models.Stats
	generation string
	cancel     context.CancelFunc
	alerters   []Alerter
	listeners  []func()
}

// New creates a stopped Session
func New(opts Options) *Session {
	config := models.DefaultConfig()
	if opts.Config != nil {
		*config = *opts.Config
	}

	s := &Session{
		backend:       opts.Backend,
		logger:        opts.Logger,
		logs:          opts.Logs,
		saver:         opts.Saver,
		notifier:      opts.Notifier,
		poller:        opts.Poller,
		meetings:      store.NewMeetingStore(),
		statsInterval: opts.StatsInterval,
		now:           opts.Now,
		config:        *config,
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.poller == nil {
		s.poller = scheduler.NewPoller()
	}
	if s.statsInterval <= 0 {
		s.statsInterval = scheduler.DefaultStatsInterval
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.meetings.SetAllowList(config.AllowList())
	return s
}

// AddAlerter registers an alerter called for every due meeting
func (s *Session) AddAlerter(a Alerter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerters = append(s.alerters, a)
}

// OnChange registers a callback run after state visible to the UI changes
func (s *Session) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Session) changed() {
	s.mu.Lock()
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}

// Running reports whether monitoring is active
func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Generation identifies the current run; empty while stopped
func (s *Session) Generation() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Config returns a copy of the active settings
func (s *Session) Config() models.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// Stats returns the latest counters
func (s *Session) Stats() models.Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Meetings returns admitted meetings in admission order
func (s *Session) Meetings() []models.Meeting {
	return s.meetings.Meetings()
}

// Upcoming returns up to limit future meetings, soonest first. A limit of
// zero or less returns all of them.
func (s *Session) Upcoming(limit int) []models.Meeting {
	now := s.now()
	upcoming := []models.Meeting{}
	for _, m := range present.SortMeetings(s.meetings.Meetings()) {
		if !m.IsUpcoming(now) {
			continue
		}
		upcoming = append(upcoming, m)
		if limit > 0 && len(upcoming) == limit {
			break
		}
	}
	return upcoming
}

// Snapshot copies everything the dashboard needs in one call
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	snap := Snapshot{
		Running:    s.running,
		Generation: s.generation,
		Config:     s.config,
		Stats:      s.stats,
	}
	s.mu.Unlock()

	snap.Meetings = present.SortMeetings(s.meetings.Meetings())
	if s.logs != nil {
		snap.Logs = s.logs.Entries()
	}
	return snap
}

// Start begins a new run: previous meetings and logs are dropped, the poll
// schedule starts and the backend is told to start monitoring. Starting a
// running session does nothing.
func (s *Session) Start(ctx context.Context) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}

	s.meetings.Reset()
	genCtx, cancel := context.WithCancel(context.Background())
	generation := uuid.NewString()
	s.generation = generation
	s.cancel = cancel
	s.running = true
	config := s.config
	s.mu.Unlock()

	s.clearLogs()

	s.poller.Start(genCtx, config.ScanInterval(), func(ctx context.Context) {
		s.check(ctx, generation)
	})
	s.logger.Log(ctx, activitylog.LevelSuccess, fmt.Sprintf("System started - checking every %d minutes", config.CheckInterval),
		"generation", generation)

	s.SaveSettings()

	if err := s.backend.Start(ctx); err != nil {
		s.logger.Error(fmt.Sprintf("Failed to start backend monitoring: %v", err))
	} else {
		s.logger.Info("Backend monitoring started")
	}

	s.changed()
}

// Stop ends the current run. In-flight checks are cancelled and their
// results discarded. Stopping a stopped session does nothing.
func (s *Session) Stop(ctx context.Context) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		s.poller.Stop()
		return
	}

	s.running = false
	s.generation = ""
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()

	s.poller.Stop()
	cancel()

	s.logger.Warn("System stopped")
	s.SaveSettings()

	if err := s.backend.Stop(ctx); err != nil {
		s.logger.Error(fmt.Sprintf("Failed to stop backend monitoring: %v", err))
	} else {
		s.logger.Info("Backend monitoring stopped")
	}

	s.changed()
}

// Toggle starts a stopped session and stops a running one
func (s *Session) Toggle(ctx context.Context) {
	if s.Running() {
		s.Stop(ctx)
		return
	}
	s.Start(ctx)
}

// Reset drops admitted meetings without touching the schedule
func (s *Session) Reset() {
	s.mu.Lock()
	s.meetings.Reset()
	s.mu.Unlock()
	s.changed()
}

// CheckNow runs one check cycle against the current run. It also works on
// a stopped session.
func (s *Session) CheckNow(ctx context.Context) {
	s.check(ctx, s.Generation())
}

func (s *Session) check(ctx context.Context, generation string) {
	s.logger.Info("Scanning Gmail for new emails...")

	candidates, err := s.backend.CheckEmails(ctx)

	s.mu.Lock()
	if s.generation != generation {
		s.mu.Unlock()
		s.logger.Debug("Discarded results from a stopped run", "generation", generation)
		return
	}
	if err != nil {
		s.mu.Unlock()
		s.logger.Error(fmt.Sprintf("Failed to check emails: %v", err))
		return
	}

	now := s.now()
	result := s.meetings.Ingest(candidates, now)
	s.stats.TotalMeetings += len(result.Admitted)
	lead := s.config.AlertLeadTime()
	s.mu.Unlock()

	switch {
	case len(candidates) == 0:
		s.logger.Debug("No meetings detected by backend")
	case len(result.Admitted) == 0:
		s.logger.Debug("No new meetings found in recent emails")
	}

	due := s.meetings.DueAlerts(now, lead)
	for _, m := range result.Admitted {
		s.logger.Log(ctx, activitylog.LevelSuccess, "Meeting detected: "+m.Title)

		var hit []models.Meeting
		hit, due = takeMatching(due, &m)
		s.dispatch(ctx, hit, now)
	}
	// meetings admitted by earlier checks that only now entered their window
	s.dispatch(ctx, due, now)
	s.changed()
}

func takeMatching(due []models.Meeting, m *models.Meeting) (hit, rest []models.Meeting) {
	for _, d := range due {
		if d.SameAs(m) {
			hit = append(hit, d)
		} else {
			rest = append(rest, d)
		}
	}
	return hit, rest
}

func (s *Session) dispatch(ctx context.Context, due []models.Meeting, now time.Time) {
	if len(due) == 0 {
		return
	}

	s.mu.Lock()
	alerters := append([]Alerter{}, s.alerters...)
	s.mu.Unlock()

	for _, m := range due {
		if s.notifier != nil {
			if err := s.notifier.Notify(present.AlertTitle, present.NotificationBody(m, now)); err != nil {
				s.logger.Error(fmt.Sprintf("Failed to show notification: %v", err), "notifier", s.notifier.Name())
			}
		}
		for _, a := range alerters {
			a.ShowMeetingAlert(m)
		}
		s.logger.Log(ctx, activitylog.LevelSuccess, "Meeting alert shown: "+m.Title)
	}
}

// RefreshStats replaces the counters with the backend's. On failure the
// previous values are kept.
func (s *Session) RefreshStats(ctx context.Context) {
	stats, err := s.backend.Stats(ctx)
	if err != nil {
		s.logger.Error(fmt.Sprintf("Failed to fetch stats: %v", err))
		return
	}

	s.mu.Lock()
	s.stats = stats
	s.mu.Unlock()
	s.changed()
}

// RunStats refreshes the counters now and then on the stats interval until
// ctx is done, whether or not monitoring is running.
func (s *Session) RunStats(ctx context.Context) {
	s.RefreshStats(ctx)
	scheduler.RunEvery(ctx, s.statsInterval, s.RefreshStats)
}

// UpdateConfig applies and saves new settings. A new scan interval takes
// effect on the next Start.
func (s *Session) UpdateConfig(config models.Config) {
	s.mu.Lock()
	s.config = config
	s.mu.Unlock()
	s.SaveSettings()
	s.changed()
}

// SaveSettings re-derives the allow-list and persists the settings
func (s *Session) SaveSettings() {
	s.mu.Lock()
	config := s.config
	s.mu.Unlock()

	s.meetings.SetAllowList(config.AllowList())
	if s.saver != nil {
		s.saver.Save(&config)
	}
	s.logger.Debug("Settings saved")
}

// ExportCalendar writes the dated meetings of this run as iCalendar
func (s *Session) ExportCalendar(w io.Writer) (int, error) {
	return calendar.Export(w, s.meetings.Meetings(), s.now())
}

// ClearLogs empties the activity log
func (s *Session) ClearLogs() {
	s.clearLogs()
	s.changed()
}

func (s *Session) clearLogs() {
	if s.logs == nil {
		return
	}
	s.logs.Clear()
	s.logger.Info("Logs cleared")
}

// Close stops monitoring without telling the backend
func (s *Session) Close() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.running = false
	s.generation = ""
	s.mu.Unlock()

	s.poller.Stop()
	if cancel != nil {
		cancel()
	}
}
