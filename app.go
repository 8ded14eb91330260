package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"github.com/borgmon/meeting-alarm/pkg/activitylog"
	"github.com/borgmon/meeting-alarm/pkg/backend"
	"github.com/borgmon/meeting-alarm/pkg/notify"
	"github.com/borgmon/meeting-alarm/pkg/platform"
	"github.com/borgmon/meeting-alarm/pkg/present"
	"github.com/borgmon/meeting-alarm/pkg/session"
	"github.com/borgmon/meeting-alarm/pkg/store"
	"golang.design/x/hotkey"
)

type MeetingAlarm struct {
	app         fyne.App
	logger      *slog.Logger
	logs        *activitylog.Buffer
	configStore *store.ConfigStore
	backendURL  string

	session    *session.Session
	banner     *AlertBanner
	mainWindow *MainWindow

	toggleMu  sync.Mutex
	toggleKey *hotkey.Hotkey
	cancel    context.CancelFunc
}

func newMeetingAlarm(app fyne.App, logger *slog.Logger, logs *activitylog.Buffer, backendURL string) *MeetingAlarm {
	return &MeetingAlarm{
		app:         app,
		logger:      logger,
		logs:        logs,
		configStore: store.NewConfigStore(app.Preferences()),
		backendURL:  backendURL,
	}
}

func (ma *MeetingAlarm) initialize() error {
	config := ma.configStore.Load()
	if ma.backendURL != "" {
		config.BackendURL = ma.backendURL
	}

	// Sync autostart state with config on startup
	if err := platform.SetupAutostart(config.AutoStart); err != nil {
		ma.logger.Warn(fmt.Sprintf("Failed to set up autostart: %v", err))
	}

	ma.mainWindow = NewMainWindow(ma)

	ma.session = session.New(session.Options{
		Backend:  backend.NewClient(config.BackendURL, nil),
		Config:   config,
		Logger:   ma.logger,
		Logs:     ma.logs,
		Saver:    ma.configStore,
		Notifier: ma.selectNotifier(),
	})

	ma.banner = NewAlertBanner(ma.app, ma.logger)
	ma.session.AddAlerter(ma.banner)
	ma.session.OnChange(ma.refresh)
	ma.logs.OnChange(ma.refreshLogs)

	ma.mainWindow.build()
	ma.setupSystemTray()

	ctx, cancel := context.WithCancel(context.Background())
	ma.cancel = cancel
	go ma.session.RunStats(ctx)

	ma.registerToggleHotkey()

	ma.logger.Info("Application loaded successfully")
	ma.logger.Debug("Settings loaded", "backend", config.BackendURL)
	return nil
}

func (ma *MeetingAlarm) run() {
	ma.app.Lifecycle().SetOnStarted(func() {
		platform.SetActivationPolicy()
	})
	ma.mainWindow.Show()
	ma.app.Run()
}

// selectNotifier picks the OS notification path once at startup
func (ma *MeetingAlarm) selectNotifier() notify.Notifier {
	caps := notify.Capabilities{
		Fallback: notify.NewFuncNotifier("dialog", ma.showAlertDialog),
	}

	if _, ok := ma.app.Driver().(desktop.Driver); ok {
		caps.Shell = ma.app
	} else {
		caps.Permission = newConsentBroker(ma.app, ma.mainWindow)
	}

	notifier := notify.Select(caps)
	ma.logger.Debug("Notification method selected", "notifier", notifier.Name())
	return notifier
}

func (ma *MeetingAlarm) showAlertDialog(title, body string) {
	fyne.Do(func() {
		dialog.ShowInformation(title, body, ma.mainWindow.window)
	})
}

func (ma *MeetingAlarm) toggle() {
	go ma.session.Toggle(context.Background())
}

func (ma *MeetingAlarm) checkNow() {
	go ma.session.CheckNow(context.Background())
}

// openLink opens a URL in the default browser
func (ma *MeetingAlarm) openLink(link string) {
	u, err := url.Parse(link)
	if err != nil {
		ma.logger.Error(fmt.Sprintf("Invalid link %q: %v", link, err))
		return
	}
	if err := ma.app.OpenURL(u); err != nil {
		ma.logger.Error(fmt.Sprintf("Failed to open link: %v", err))
	}
}

func (ma *MeetingAlarm) openGmailMessage(id string) {
	if id == "" {
		return
	}
	link := present.GmailURL(id)
	ma.logger.Debug("Attempting to open Gmail message: " + link)
	ma.openLink(link)
}

func (ma *MeetingAlarm) refresh() {
	fyne.Do(func() {
		ma.mainWindow.Refresh()
		ma.updateSystemTrayMenu()
	})
}

func (ma *MeetingAlarm) refreshLogs() {
	fyne.Do(func() {
		ma.mainWindow.RefreshLogs()
	})
}

func (ma *MeetingAlarm) quit() {
	ma.unregisterToggleHotkey()
	if ma.session.Running() {
		ma.session.Stop(context.Background())
	}
	ma.session.Close()
	if ma.cancel != nil {
		ma.cancel()
	}
	ma.app.Quit()
}
