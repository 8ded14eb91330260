// Package mockbackend serves the four mail-scanner endpoints from memory so
// the desktop app can be exercised without a mailbox.
package mockbackend

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is an in-memory stand-in for the mail-scanning backend
type Server struct {
	mu sync.Mutex

	meetings      []models.Meeting
	monitoring    bool
	emailsScanned int
	failStatus    int
	now           func() time.Time
}

// New creates an empty Server
func New() *Server {
	return &Server{now: time.Now}
}

// AddMeeting queues a meeting for /api/check-emails. Only RawTime is served.
func (s *Server) AddMeeting(m models.Meeting) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.Time = nil
	s.meetings = append(s.meetings, m)
}

// FailWith makes every endpoint answer with status until it is called with 0
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// Monitoring reports whether /api/start was called more recently than /api/stop
func (s *Server) Monitoring() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.monitoring
}

// Handler returns the chi router serving the API
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.injectFailures)

	r.Route("/api", func(r chi.Router) {
		r.Post("/start", s.handleStart)
		r.Post("/stop", s.handleStop)
		r.Get("/stats", s.handleStats)
		r.Get("/check-emails", s.handleCheckEmails)
	})

	return r
}

func (s *Server) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failStatus
		s.mu.Unlock()

		if status != 0 {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.monitoring = true
	s.mu.Unlock()
	writeJSON(w, map[string]string{"status": "started"})
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.monitoring = false
	s.mu.Unlock()
	writeJSON(w, map[string]string{"status": "stopped"})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	stats := models.Stats{
		TotalMeetings: len(s.meetings),
		EmailsScanned: s.emailsScanned,
	}
	for i := range s.meetings {
		m := s.meetings[i]
		m.CoerceTime()
		if m.IsUpcoming(now) {
			stats.UpcomingMeetings++
		}
	}
	if stats.EmailsScanned > 0 {
		stats.SuccessRate = stats.TotalMeetings * 100 / stats.EmailsScanned
	}

	writeJSON(w, stats)
}

func (s *Server) handleCheckEmails(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.monitoring {
		s.emailsScanned++
	}

	meetings := s.meetings
	if meetings == nil {
		meetings = []models.Meeting{}
	}
	writeJSON(w, meetings)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// DemoMeetings returns a small set of meetings relative to now, one of them
// inside a ten-minute alert window.
func DemoMeetings(now time.Time) []models.Meeting {
	format := func(d time.Duration) string {
		return now.Add(d).Format("2006-01-02T15:04:05")
	}

	return []models.Meeting{
		{ID: "demo-standup", Title: "Team Standup", Sender: "lead@example.com", RawTime: format(5 * time.Minute), Platform: "Unknown", Link: "https://zoom.us/j/1234567890"},
		{ID: "demo-review", Title: "Design Review", Sender: "design@example.com", RawTime: format(2 * time.Hour), Platform: "Unknown", Link: "https://meet.google.com/abc-defg-hij"},
		{ID: "demo-workshop", Title: "Masterclass Workshop", Sender: "events@example.org", Platform: "Unknown"},
	}
}
