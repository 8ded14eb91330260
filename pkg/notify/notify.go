// Package notify surfaces meeting alerts through whichever notification
// mechanism the host offers.
package notify

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
)

// Notifier shows a single title/body notification
type Notifier interface {
	Notify(title, body string) error
	Name() string
}

// Permission is the user's answer to a notification prompt
type Permission int

const (
	PermissionDefault Permission = iota // not asked yet
	PermissionGranted
	PermissionDenied
)

func (p Permission) String() string {
	switch p {
	case PermissionGranted:
		return "granted"
	case PermissionDenied:
		return "denied"
	default:
		return "default"
	}
}

// Sender is the native shell notification surface. fyne.App satisfies it.
type Sender interface {
	SendNotification(*fyne.Notification)
}

// PermissionBroker gates notifications behind an explicit user grant
type PermissionBroker interface {
	Sender
	Permission() Permission
	// RequestPermission asks the user and calls done with the answer,
	// possibly from another goroutine.
	RequestPermission(done func(Permission))
}

// Capabilities lists what the host exposes. Nil fields are unavailable.
type Capabilities struct {
	Shell      Sender
	Permission PermissionBroker
	Fallback   Notifier
}

// Select picks the first available notifier: shell, then permission-gated,
// then fallback. It returns nil if nothing is available.
func Select(caps Capabilities) Notifier {
	switch {
	case caps.Shell != nil:
		return &ShellNotifier{sender: caps.Shell}
	case caps.Permission != nil:
		return &PermissionNotifier{broker: caps.Permission}
	case caps.Fallback != nil:
		return caps.Fallback
	default:
		return nil
	}
}

// ShellNotifier sends native notifications directly
type ShellNotifier struct {
	sender Sender
}

// NewShellNotifier creates a ShellNotifier
func NewShellNotifier(sender Sender) *ShellNotifier {
	return &ShellNotifier{sender: sender}
}

func (n *ShellNotifier) Name() string { return "shell" }

func (n *ShellNotifier) Notify(title, body string) error {
	n.sender.SendNotification(fyne.NewNotification(title, body))
	return nil
}

// PermissionNotifier sends only once the broker reports a grant. While the
// answer is pending, notifications are held back and sent if it is granted.
type PermissionNotifier struct {
	broker PermissionBroker

	mu         sync.Mutex
	requesting bool
	pending    []*fyne.Notification
}

// NewPermissionNotifier creates a PermissionNotifier
func NewPermissionNotifier(broker PermissionBroker) *PermissionNotifier {
	return &PermissionNotifier{broker: broker}
}

func (n *PermissionNotifier) Name() string { return "permission" }

func (n *PermissionNotifier) Notify(title, body string) error {
	notification := fyne.NewNotification(title, body)

	switch n.broker.Permission() {
	case PermissionGranted:
		n.broker.SendNotification(notification)
		return nil
	case PermissionDenied:
		return nil
	}

	n.mu.Lock()
	n.pending = append(n.pending, notification)
	if n.requesting {
		n.mu.Unlock()
		return nil
	}
	n.requesting = true
	n.mu.Unlock()

	n.broker.RequestPermission(n.answer)
	return nil
}

func (n *PermissionNotifier) answer(p Permission) {
	n.mu.Lock()
	pending := n.pending
	n.pending = nil
	n.requesting = false
	n.mu.Unlock()

	if p != PermissionGranted {
		return
	}
	for _, notification := range pending {
		n.broker.SendNotification(notification)
	}
}

// FuncNotifier adapts a plain function, typically a modal dialog
type FuncNotifier struct {
	name string
	fn   func(title, body string)
}

// NewFuncNotifier wraps fn as a Notifier
func NewFuncNotifier(name string, fn func(title, body string)) *FuncNotifier {
	return &FuncNotifier{name: name, fn: fn}
}

func (n *FuncNotifier) Name() string { return n.name }

func (n *FuncNotifier) Notify(title, body string) error {
	if n.fn == nil {
		return fmt.Errorf("notifier %s has no handler", n.name)
	}
	n.fn(title, body)
	return nil
}
