package main

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"fyne.io/fyne/v2/app"
	"github.com/borgmon/meeting-alarm/pkg/activitylog"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

const appID = "com.borgmon.meeting-alarm"

func main() {
	// A missing .env file is fine; real environment variables still apply.
	_ = godotenv.Load()

	cliApp := &cli.App{
		Name:  "meeting-alarm",
		Usage: "Alert before meetings detected in your email.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "backend",
				Usage:   "mail-scanning backend address",
				Value:   models.DefaultBackendURL,
				EnvVars: []string{"MEETING_ALARM_BACKEND"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "debug, info, warn or error",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Action: runDesktop,
		Commands: []*cli.Command{
			checkCommand(),
			watchCommand(),
			mockBackendCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func runDesktop(c *cli.Context) error {
	logs := activitylog.NewBuffer(activitylog.MaxEntries)
	logger := setupLogger(c.String("log-level"), os.Stderr, logs)
	slog.SetDefault(logger)

	backendURL := ""
	if c.IsSet("backend") {
		backendURL = c.String("backend")
	}

	ma := newMeetingAlarm(app.NewWithID(appID), logger, logs, backendURL)
	if err := ma.initialize(); err != nil {
		return err
	}

	ma.run()
	return nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupLogger writes text logs to w at the given level. With a buffer,
// every record from debug up is also kept for the activity panel.
func setupLogger(level string, w io.Writer, logs *activitylog.Buffer) *slog.Logger {
	var handler slog.Handler = slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:       parseLevel(level),
		ReplaceAttr: activitylog.ReplaceLevel,
	})
	if logs != nil {
		handler = activitylog.NewHandler(logs, handler)
	}
	return slog.New(handler)
}
