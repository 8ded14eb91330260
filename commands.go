package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/activitylog"
	"github.com/borgmon/meeting-alarm/pkg/backend"
	"github.com/borgmon/meeting-alarm/pkg/mockbackend"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/borgmon/meeting-alarm/pkg/present"
	"github.com/borgmon/meeting-alarm/pkg/session"
	"github.com/borgmon/meeting-alarm/pkg/tui"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/urfave/cli/v2"

	tea "github.com/charmbracelet/bubbletea"
)

const shutdownTimeout = 5 * time.Second

// sessionFlags are shared by the headless commands, which have no
// preference store
func sessionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:    "interval",
			Usage:   "minutes between backend scans",
			Value:   models.DefaultCheckInterval,
			EnvVars: []string{"MEETING_ALARM_CHECK_INTERVAL"},
		},
		&cli.IntFlag{
			Name:    "alert-time",
			Usage:   "alert when a meeting starts within this many minutes",
			Value:   models.DefaultAlertTime,
			EnvVars: []string{"MEETING_ALARM_ALERT_TIME"},
		},
		&cli.StringFlag{
			Name:    "allow",
			Usage:   "comma-separated sender substrings; empty allows everyone",
			EnvVars: []string{"MEETING_ALARM_ALLOWED_SENDERS"},
		},
	}
}

func configFromFlags(c *cli.Context) *models.Config {
	config := models.DefaultConfig()
	config.BackendURL = c.String("backend")
	config.CheckInterval = c.Int("interval")
	config.AlertTime = c.Int("alert-time")
	config.AllowedMailIDs = c.String("allow")
	return config
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Run one check against the backend and print the detected meetings.",
		Flags: append(sessionFlags(),
			&cli.StringFlag{
				Name:  "ics",
				Usage: "also write dated meetings to this .ics file",
			},
		),
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"), os.Stderr, nil)
			config := configFromFlags(c)

			s := session.New(session.Options{
				Backend: backend.NewClient(config.BackendURL, nil),
				Config:  config,
				Logger:  logger,
			})
			defer s.Close()

			s.AddAlerter(session.AlerterFunc(func(m models.Meeting) {
				fmt.Printf("ALERT  %s\n%s\n\n", present.AlertHeadline(m), present.AlertDetails(m))
			}))

			s.CheckNow(c.Context)
			s.RefreshStats(c.Context)

			printReport(os.Stdout, s.Snapshot(), time.Now())

			if path := c.String("ics"); path != "" {
				if err := exportToFile(s, path, logger); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func printReport(w io.Writer, snap session.Snapshot, now time.Time) {
	if len(snap.Meetings) == 0 {
		fmt.Fprintln(w, present.NoMeetingsMessage)
	}
	for _, m := range snap.Meetings {
		fmt.Fprintf(w, "%-22s  %-8s  %s\n", present.MeetingTime(m), present.Status(m, now), m.Title)
		fmt.Fprintf(w, "%-22s  %-8s  from %s via %s\n", "", "", present.OrUnknown(m.Sender), present.OrUnknown(m.Platform))
	}

	st := snap.Stats
	fmt.Fprintf(w, "\nTotal: %d  Upcoming: %d  Scanned: %d  Success: %s\n",
		st.TotalMeetings, st.UpcomingMeetings, st.EmailsScanned, present.SuccessRate(st.SuccessRate))
}

func exportToFile(s *session.Session, path string, logger *slog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	n, err := s.ExportCalendar(f)
	if err != nil {
		return err
	}
	logger.Info("Exported meetings", "count", n, "path", path)
	return nil
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Monitor from a terminal dashboard.",
		Flags: append(sessionFlags(),
			&cli.BoolFlag{
				Name:  "start",
				Usage: "start monitoring immediately",
				Value: true,
			},
		),
		Action: func(c *cli.Context) error {
			logs := activitylog.NewBuffer(activitylog.MaxEntries)
			// The dashboard owns the terminal, so records only go to the panel
			logger := setupLogger(c.String("log-level"), io.Discard, logs)
			config := configFromFlags(c)

			alerts := tui.NewAlerts()
			s := session.New(session.Options{
				Backend: backend.NewClient(config.BackendURL, nil),
				Config:  config,
				Logger:  logger,
				Logs:    logs,
			})
			s.AddAlerter(alerts)
			defer s.Close()

			ctx, cancel := context.WithCancel(c.Context)
			defer cancel()
			go s.RunStats(ctx)

			logger.Info("Application loaded successfully")
			if c.Bool("start") {
				s.Start(ctx)
			}

			banner := session.NewBanner(session.DefaultBannerTimeout, logger, nil)
			program := tea.NewProgram(tui.New(ctx, s, alerts, banner, os.Stdout), tea.WithAltScreen())
			if _, err := program.Run(); err != nil {
				return fmt.Errorf("dashboard failed: %w", err)
			}

			s.Stop(context.Background())
			return nil
		},
	}
}

func mockBackendCommand() *cli.Command {
	return &cli.Command{
		Name:  "mock-backend",
		Usage: "Serve the backend API from memory with demo meetings.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "listen address",
				Value:   "127.0.0.1:8000",
				EnvVars: []string{"MOCK_BACKEND_ADDR"},
			},
			&cli.BoolFlag{
				Name:  "demo",
				Usage: "seed demo meetings relative to now",
				Value: true,
			},
		},
		Action: func(c *cli.Context) error {
			logger := setupLogger(c.String("log-level"), os.Stderr, nil)

			srv := mockbackend.New()
			if c.Bool("demo") {
				for _, m := range mockbackend.DemoMeetings(time.Now()) {
					srv.AddMeeting(m)
				}
			}

			router := chi.NewRouter()
			router.Use(middleware.RequestID)
			router.Use(middleware.Logger)
			router.Mount("/", srv.Handler())

			server := &http.Server{
				Addr:    c.String("addr"),
				Handler: router,
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				logger.Info("Mock backend listening", "addr", server.Addr)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					return fmt.Errorf("mock backend failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutdown signal received, stopping mock backend")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
			return nil
		},
	}
}
