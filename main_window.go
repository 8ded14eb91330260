package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/borgmon/meeting-alarm/pkg/platform"
	"github.com/borgmon/meeting-alarm/pkg/present"
	"github.com/borgmon/meeting-alarm/pkg/ui/components"
)

type MainWindow struct {
	window fyne.Window
	ma     *MeetingAlarm

	// Dashboard tab
	statusLabel   *widget.Label
	toggleButton  *widget.Button
	totalLabel    *widget.Label
	upcomingLabel *widget.Label
	scannedLabel  *widget.Label
	successLabel  *widget.Label
	meetingsBox   *fyne.Container

	// Activity tab
	logList  *widget.List
	logLines []string

	// Settings tab
	intervalEntry  *widget.Entry
	alertEntry     *widget.Entry
	keywordsEntry  *widget.Entry
	allowedEntry   *widget.Entry
	backendEntry   *widget.Entry
	autoStartCheck *widget.Check

	// UI state
	hasUnsavedChanges bool
	saveStatusLabel   *widget.Label
	saveButton        *widget.Button
}

func NewMainWindow(ma *MeetingAlarm) *MainWindow {
	mw := &MainWindow{ma: ma}
	mw.window = ma.app.NewWindow("Meeting Alarm")
	return mw
}

func (mw *MainWindow) build() {
	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Dashboard", theme.HomeIcon(), mw.buildDashboardTab()),
		container.NewTabItemWithIcon("Activity", theme.ListIcon(), mw.buildActivityTab()),
		container.NewTabItemWithIcon("Settings", theme.SettingsIcon(), mw.buildSettingsTab()),
	)

	mw.window.SetContent(tabs)
	mw.window.Resize(fyne.NewSize(900, 700))
	mw.window.CenterOnScreen()

	mw.setupKeyboardShortcuts()

	// Closing the window keeps the app running in the tray
	mw.window.SetCloseIntercept(func() {
		mw.window.Hide()
	})

	mw.Refresh()
	mw.RefreshLogs()
}

func (mw *MainWindow) Show() {
	mw.window.Show()
	mw.window.RequestFocus()
}

func (mw *MainWindow) buildDashboardTab() fyne.CanvasObject {
	mw.statusLabel = widget.NewLabel("")
	mw.statusLabel.TextStyle = fyne.TextStyle{Bold: true}

	mw.toggleButton = widget.NewButtonWithIcon("Start Monitoring", theme.MediaPlayIcon(), func() {
		mw.ma.toggle()
	})
	mw.toggleButton.Importance = widget.HighImportance

	checkButton := widget.NewButtonWithIcon("Check Now", theme.ViewRefreshIcon(), func() {
		mw.ma.checkNow()
	})

	controls := container.NewBorder(nil, nil, mw.statusLabel, container.NewHBox(checkButton, mw.toggleButton))

	mw.totalLabel = statValue()
	mw.upcomingLabel = statValue()
	mw.scannedLabel = statValue()
	mw.successLabel = statValue()

	stats := container.NewGridWithColumns(4,
		statTile("Total Meetings", mw.totalLabel),
		statTile("Upcoming", mw.upcomingLabel),
		statTile("Emails Scanned", mw.scannedLabel),
		statTile("Success Rate", mw.successLabel),
	)

	mw.meetingsBox = container.NewVBox()

	header := container.NewVBox(
		controls,
		widget.NewSeparator(),
		stats,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Detected Meetings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
	)

	return container.NewPadded(container.NewBorder(header, nil, nil, nil, container.NewVScroll(mw.meetingsBox)))
}

func statValue() *widget.Label {
	label := widget.NewLabelWithStyle("0", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	label.Importance = widget.HighImportance
	return label
}

func statTile(title string, value *widget.Label) fyne.CanvasObject {
	caption := widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{})
	caption.Importance = widget.MediumImportance
	return container.NewVBox(value, caption)
}

func (mw *MainWindow) buildActivityTab() fyne.CanvasObject {
	mw.logList = widget.NewList(
		func() int {
			return len(mw.logLines)
		},
		func() fyne.CanvasObject {
			label := widget.NewLabel("template")
			label.TextStyle = fyne.TextStyle{Monospace: true}
			return label
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < len(mw.logLines) {
				o.(*widget.Label).SetText(mw.logLines[i])
			}
		})

	clearButton := widget.NewButtonWithIcon("Clear Logs", theme.DeleteIcon(), func() {
		go mw.ma.session.ClearLogs()
	})

	return container.NewPadded(container.NewBorder(
		nil,
		container.NewHBox(layout.NewSpacer(), clearButton),
		nil,
		nil,
		mw.logList,
	))
}

func (mw *MainWindow) buildSettingsTab() fyne.CanvasObject {
	config := mw.ma.session.Config()

	mw.intervalEntry = mw.newEntry(strconv.Itoa(config.CheckInterval))
	mw.alertEntry = mw.newEntry(strconv.Itoa(config.AlertTime))
	mw.keywordsEntry = mw.newEntry(config.EmailKeywords)
	mw.allowedEntry = mw.newEntry(config.AllowedMailIDs)
	mw.allowedEntry.SetPlaceHolder("boss@company.com, @partner.org")
	mw.backendEntry = mw.newEntry(config.BackendURL)

	mw.autoStartCheck = widget.NewCheck("Launch Meeting Alarm when your system starts", func(bool) {
		mw.markChanged()
	})
	mw.autoStartCheck.SetChecked(config.AutoStart)

	help := func(text string) *widget.Label {
		label := widget.NewLabel(text)
		label.Wrapping = fyne.TextWrapWord
		label.Importance = widget.MediumImportance
		return label
	}

	form := container.New(layout.NewFormLayout(),
		container.NewVBox(widget.NewLabel("Check Interval (minutes):"), help("How often the backend is asked to scan")),
		mw.intervalEntry,

		container.NewVBox(widget.NewLabel("Alert Time (minutes):"), help("Alert when a meeting is this close")),
		mw.alertEntry,

		container.NewVBox(widget.NewLabel("Email Keywords:"), help("Comma-separated")),
		mw.keywordsEntry,

		container.NewVBox(widget.NewLabel("Allowed Senders:"), help("Comma-separated; empty allows everyone")),
		mw.allowedEntry,

		container.NewVBox(widget.NewLabel("Backend:"), help("Used from the next launch")),
		mw.backendEntry,

		widget.NewLabel("Auto Start:"),
		mw.autoStartCheck,
	)

	mw.saveStatusLabel = widget.NewLabel("")
	mw.saveStatusLabel.Importance = widget.SuccessImportance

	mw.saveButton = widget.NewButton("Save", func() {
		mw.triggerSave()
	})
	mw.saveButton.Importance = widget.HighImportance
	mw.saveButton.Disable() // Initially disabled until changes are made
	mw.hasUnsavedChanges = false

	content := container.NewVBox(
		widget.NewLabel("Settings"),
		widget.NewSeparator(),
		form,
		widget.NewSeparator(),
		container.NewHBox(mw.saveButton, mw.saveStatusLabel),
	)

	return container.NewPadded(container.NewVScroll(content))
}

func (mw *MainWindow) newEntry(text string) *widget.Entry {
	entry := widget.NewEntry()
	entry.SetText(text)
	entry.OnChanged = func(string) {
		mw.markChanged()
	}
	return entry
}

func (mw *MainWindow) markChanged() {
	mw.hasUnsavedChanges = true
	mw.updateSaveButtonState()
}

func (mw *MainWindow) updateSaveButtonState() {
	if mw.saveButton == nil {
		return
	}
	if mw.hasUnsavedChanges {
		mw.saveButton.Enable()
	} else {
		mw.saveButton.Disable()
	}
}

// parseMinutes reads a positive whole number of minutes from a form field
func parseMinutes(field, text string) (int, error) {
	minutes, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || minutes < 1 {
		return 0, fmt.Errorf("%s must be a whole number of minutes", field)
	}
	return minutes, nil
}

// getConfigFromUI reads the settings form
func (mw *MainWindow) getConfigFromUI() (models.Config, error) {
	config := mw.ma.session.Config()

	interval, err := parseMinutes("check interval", mw.intervalEntry.Text)
	if err != nil {
		return config, err
	}
	alertTime, err := parseMinutes("alert time", mw.alertEntry.Text)
	if err != nil {
		return config, err
	}

	config.CheckInterval = interval
	config.AlertTime = alertTime
	config.EmailKeywords = mw.keywordsEntry.Text
	config.AllowedMailIDs = mw.allowedEntry.Text
	config.BackendURL = strings.TrimSpace(mw.backendEntry.Text)
	config.AutoStart = mw.autoStartCheck.Checked
	return config, nil
}

func (mw *MainWindow) triggerSave() {
	newConfig, err := mw.getConfigFromUI()
	if err != nil {
		dialog.ShowError(err, mw.window)
		return
	}

	mw.saveButton.Disable()
	mw.saveStatusLabel.SetText("Saving...")
	mw.saveStatusLabel.Importance = widget.MediumImportance
	mw.saveStatusLabel.Refresh()

	go func() {
		// Handle autostart setting
		if err := platform.SetupAutostart(newConfig.AutoStart); err != nil {
			mw.ma.logger.Error(fmt.Sprintf("Error setting autostart: %v", err))
			fyne.Do(func() {
				mw.saveStatusLabel.SetText("Error: Failed to set autostart")
				mw.saveStatusLabel.Importance = widget.DangerImportance
				mw.saveStatusLabel.Refresh()
				mw.updateSaveButtonState()
			})
			return
		}

		mw.ma.session.UpdateConfig(newConfig)

		fyne.Do(func() {
			mw.hasUnsavedChanges = false
			mw.saveStatusLabel.SetText("Settings saved successfully")
			mw.saveStatusLabel.Importance = widget.SuccessImportance
			mw.saveStatusLabel.Refresh()
			mw.updateSaveButtonState()

			// Clear success message after 3 seconds
			go func() {
				time.Sleep(3 * time.Second)
				fyne.Do(func() {
					if mw.saveStatusLabel.Text == "Settings saved successfully" {
						mw.saveStatusLabel.SetText("")
						mw.saveStatusLabel.Refresh()
					}
				})
			}()
		})
	}()
}

// setupKeyboardShortcuts binds Ctrl+Space inside the window, which works
// even where the global hotkey could not be registered
func (mw *MainWindow) setupKeyboardShortcuts() {
	mw.window.Canvas().AddShortcut(&desktop.CustomShortcut{
		KeyName:  fyne.KeySpace,
		Modifier: fyne.KeyModifierControl,
	}, func(fyne.Shortcut) {
		mw.ma.toggle()
	})
}

// Refresh redraws the dashboard. Must run on the UI goroutine.
func (mw *MainWindow) Refresh() {
	if mw.meetingsBox == nil {
		return
	}

	snap := mw.ma.session.Snapshot()

	if snap.Running {
		mw.statusLabel.SetText(fmt.Sprintf("● Monitoring - every %d minutes", snap.Config.CheckInterval))
		mw.toggleButton.SetText("Stop Monitoring")
		mw.toggleButton.SetIcon(theme.MediaPauseIcon())
		mw.toggleButton.Importance = widget.DangerImportance
	} else {
		mw.statusLabel.SetText("○ Stopped")
		mw.toggleButton.SetText("Start Monitoring")
		mw.toggleButton.SetIcon(theme.MediaPlayIcon())
		mw.toggleButton.Importance = widget.HighImportance
	}
	mw.toggleButton.Refresh()

	mw.totalLabel.SetText(strconv.Itoa(snap.Stats.TotalMeetings))
	mw.upcomingLabel.SetText(strconv.Itoa(snap.Stats.UpcomingMeetings))
	mw.scannedLabel.SetText(strconv.Itoa(snap.Stats.EmailsScanned))
	mw.successLabel.SetText(present.SuccessRate(snap.Stats.SuccessRate))

	mw.meetingsBox.RemoveAll()
	if len(snap.Meetings) == 0 {
		empty := widget.NewLabelWithStyle(present.NoMeetingsMessage, fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
		empty.Importance = widget.MediumImportance
		mw.meetingsBox.Add(empty)
	}

	now := time.Now()
	for _, m := range snap.Meetings {
		mw.meetingsBox.Add(components.NewMeetingCard(m, now, mw.ma.openLink, mw.ma.openGmailMessage))
		mw.meetingsBox.Add(widget.NewSeparator())
	}
	mw.meetingsBox.Refresh()
}

// RefreshLogs redraws the activity list. Must run on the UI goroutine.
func (mw *MainWindow) RefreshLogs() {
	if mw.logList == nil {
		return
	}

	entries := mw.ma.logs.Entries()
	mw.logLines = make([]string, 0, len(entries))
	for _, e := range entries {
		mw.logLines = append(mw.logLines, present.LogLine(e))
	}
	mw.logList.Refresh()
	if len(mw.logLines) > 0 {
		mw.logList.ScrollToBottom()
	}
}
