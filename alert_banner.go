package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/meeting-alarm/pkg/audio"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/borgmon/meeting-alarm/pkg/platform"
	"github.com/borgmon/meeting-alarm/pkg/present"
	"github.com/borgmon/meeting-alarm/pkg/session"
)

// AlertBanner is the in-app meeting banner: a small always-on-top style
// window with Join and Close, dismissed automatically after a timeout.
type AlertBanner struct {
	app    fyne.App
	logger *slog.Logger
	state  *session.Banner

	window fyne.Window // UI goroutine only
}

func NewAlertBanner(app fyne.App, logger *slog.Logger) *AlertBanner {
	ab := &AlertBanner{
		app:    app,
		logger: logger,
	}
	ab.state = session.NewBanner(session.DefaultBannerTimeout, logger, ab.closeWindow)
	return ab
}

// ShowMeetingAlert implements session.Alerter
func (ab *AlertBanner) ShowMeetingAlert(m models.Meeting) {
	ab.state.Show(m)

	if err := audio.PlayChime(); err != nil {
		ab.logger.Debug("Audio cue unavailable", "error", err)
	}

	// Create window and build UI on the main Fyne thread
	fyne.Do(func() {
		ab.replaceWindow(m)
	})
}

func (ab *AlertBanner) replaceWindow(m models.Meeting) {
	ab.closeCurrent()

	w := ab.app.NewWindow("Meeting Alert")
	ab.window = w

	w.SetContent(ab.buildUI(m))
	w.Resize(fyne.NewSize(440, 0))
	w.SetFixedSize(true)
	w.CenterOnScreen()

	stop := make(chan struct{})
	w.SetOnClosed(func() {
		close(stop)
		// Closed by the user through the window manager
		if ab.window == w {
			ab.window = nil
			ab.state.Hide()
		}
	})

	w.Show()
	w.RequestFocus()
	ab.setupFocusMonitoring(w, stop)
}

func (ab *AlertBanner) buildUI(m models.Meeting) fyne.CanvasObject {
	title := canvas.NewText(present.AlertHeadline(m), theme.Color(theme.ColorNameForeground))
	title.TextSize = 22
	title.TextStyle = fyne.TextStyle{Bold: true}

	details := widget.NewLabel(present.AlertDetails(m))
	details.Wrapping = fyne.TextWrapWord

	buttonRow := container.NewHBox()
	if m.Link != "" {
		joinButton := widget.NewButtonWithIcon("Join Meeting", theme.MediaPlayIcon(), func() {
			go ab.join()
		})
		joinButton.Importance = widget.HighImportance
		buttonRow.Add(joinButton)
	}
	buttonRow.Add(widget.NewButton("Close", func() {
		go ab.state.Hide()
	}))

	return container.NewPadded(container.NewVBox(
		container.NewPadded(title),
		widget.NewSeparator(),
		details,
		widget.NewSeparator(),
		container.NewCenter(buttonRow),
	))
}

func (ab *AlertBanner) join() {
	ab.state.Join(func(link string) error {
		u, err := url.Parse(link)
		if err != nil {
			return fmt.Errorf("invalid meeting link: %w", err)
		}
		return ab.app.OpenURL(u)
	})
}

// closeWindow is the banner state's hide hook; it may run on any goroutine
func (ab *AlertBanner) closeWindow() {
	fyne.Do(ab.closeCurrent)
}

func (ab *AlertBanner) closeCurrent() {
	if ab.window == nil {
		return
	}
	w := ab.window
	ab.window = nil
	w.Close()
}

// setupFocusMonitoring keeps the banner in front until it goes away
func (ab *AlertBanner) setupFocusMonitoring(w fyne.Window, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if platform.IsAppActive() {
					continue
				}
				platform.ActivateApp()
				fyne.Do(func() {
					if ab.window == w {
						w.Show()
					}
				})
			}
		}
	}()
}
