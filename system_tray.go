package main

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
)

const trayUpcomingLimit = 5

func (ma *MeetingAlarm) setupSystemTray() {
	ma.updateSystemTrayMenu()
}

func (ma *MeetingAlarm) updateSystemTrayMenu() {
	desk, ok := ma.app.(desktop.App)
	if !ok {
		return
	}

	menuItems := []*fyne.MenuItem{}

	// Add upcoming meetings section at the top
	upcoming := ma.session.Upcoming(trayUpcomingLimit)
	if len(upcoming) > 0 {
		headerItem := fyne.NewMenuItem("Upcoming:", nil)
		headerItem.Disabled = true
		menuItems = append(menuItems, headerItem)

		for _, m := range upcoming {
			item := fyne.NewMenuItem(fmt.Sprintf("  %s - %s", m.Time.Format("Mon 3:04 PM"), truncateString(m.Title, 35)), nil)
			if m.Link != "" {
				link := m.Link
				item.Action = func() { ma.openLink(link) }
			} else {
				item.Disabled = true
			}
			menuItems = append(menuItems, item)
		}

		menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	}

	toggleLabel := "Start Monitoring"
	if ma.session.Running() {
		toggleLabel = "Stop Monitoring"
	}

	menuItems = append(menuItems,
		fyne.NewMenuItem(toggleLabel, func() {
			ma.toggle()
		}),
		fyne.NewMenuItem("Check Now", func() {
			ma.checkNow()
		}),
		fyne.NewMenuItem("Open Dashboard", func() {
			ma.mainWindow.Show()
		}),
		fyne.NewMenuItem("Export Meetings (.ics)...", func() {
			ma.exportCalendar()
		}),
	)

	menuItems = append(menuItems, fyne.NewMenuItemSeparator())
	menuItems = append(menuItems, fyne.NewMenuItem("Quit", func() {
		ma.quit()
	}))

	menu := fyne.NewMenu("Meeting Alarm", menuItems...)
	desk.SetSystemTrayMenu(menu)
	desk.SetSystemTrayIcon(theme.MailComposeIcon())
}

// exportCalendar asks where to save the detected meetings as .ics
func (ma *MeetingAlarm) exportCalendar() {
	ma.mainWindow.Show()

	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, ma.mainWindow.window)
			return
		}
		if writer == nil {
			return // cancelled
		}
		defer writer.Close()

		n, err := ma.session.ExportCalendar(writer)
		if err != nil {
			ma.logger.Error(fmt.Sprintf("Failed to export meetings: %v", err))
			dialog.ShowError(err, ma.mainWindow.window)
			return
		}
		ma.logger.Info(fmt.Sprintf("Exported %d meetings to %s", n, writer.URI().Name()))
	}, ma.mainWindow.window)

	save.SetFileName("meetings.ics")
	save.SetFilter(storage.NewExtensionFileFilter([]string{".ics"}))
	save.Show()
}

// truncateString truncates a string to maxLen runes, adding "..." if needed
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
