package platform

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/emersion/go-autostart"
)

const (
	autostartName        = "meeting-alarm"
	autostartDisplayName = "Meeting Alarm"
)

// AutostartEntry describes the login item for the running executable
func AutostartEntry() (*autostart.App, error) {
	execPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("failed to locate executable: %w", err)
	}

	// Resolve symlinks if any
	execPath, err = filepath.EvalSymlinks(execPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve executable: %w", err)
	}

	return &autostart.App{
		Name:        autostartName,
		DisplayName: autostartDisplayName,
		Exec:        []string{execPath},
	}, nil
}

// SetupAutostart enables or disables launching at login
func SetupAutostart(enable bool) error {
	app, err := AutostartEntry()
	if err != nil {
		return err
	}
	return applyAutostart(app, enable)
}

type loginItem interface {
	IsEnabled() bool
	Enable() error
	Disable() error
}

func applyAutostart(app loginItem, enable bool) error {
	if enable == app.IsEnabled() {
		return nil
	}

	if enable {
		if err := app.Enable(); err != nil {
			return fmt.Errorf("failed to enable autostart: %w", err)
		}
		log.Println("Autostart enabled")
		return nil
	}

	if err := app.Disable(); err != nil {
		return fmt.Errorf("failed to disable autostart: %w", err)
	}
	log.Println("Autostart disabled")
	return nil
}
