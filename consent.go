package main

import (
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"github.com/borgmon/meeting-alarm/pkg/notify"
)

const notificationPermissionKey = "notification_permission"

// consentBroker asks once, in-app, before sending OS notifications and
// remembers the answer in preferences
type consentBroker struct {
	app    fyne.App
	window *MainWindow

	mu sync.Mutex
}

func newConsentBroker(app fyne.App, window *MainWindow) *consentBroker {
	return &consentBroker{app: app, window: window}
}

func (b *consentBroker) SendNotification(n *fyne.Notification) {
	b.app.SendNotification(n)
}

func (b *consentBroker) Permission() notify.Permission {
	b.mu.Lock()
	defer b.mu.Unlock()
	return notify.Permission(b.app.Preferences().IntWithFallback(notificationPermissionKey, int(notify.PermissionDefault)))
}

func (b *consentBroker) setPermission(p notify.Permission) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.app.Preferences().SetInt(notificationPermissionKey, int(p))
}

func (b *consentBroker) RequestPermission(done func(notify.Permission)) {
	fyne.Do(func() {
		dialog.ShowConfirm("Notifications",
			"Allow Meeting Alarm to show notifications before your meetings?",
			func(allow bool) {
				p := notify.PermissionDenied
				if allow {
					p = notify.PermissionGranted
				}
				b.setPermission(p)
				go done(p)
			}, b.window.window)
	})
}
