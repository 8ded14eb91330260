package main

import (
	"fmt"

	"golang.design/x/hotkey"
)

// registerToggleHotkey binds Ctrl+Space to start/stop monitoring system-wide
func (ma *MeetingAlarm) registerToggleHotkey() {
	go func() {
		hk := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl}, hotkey.KeySpace)
		if err := hk.Register(); err != nil {
			ma.logger.Warn(fmt.Sprintf("Failed to register Ctrl+Space hotkey: %v", err))
			return
		}

		ma.toggleMu.Lock()
		ma.toggleKey = hk
		ma.toggleMu.Unlock()

		for range hk.Keydown() {
			ma.toggle()
		}
	}()
}

func (ma *MeetingAlarm) unregisterToggleHotkey() {
	ma.toggleMu.Lock()
	defer ma.toggleMu.Unlock()

	if ma.toggleKey != nil {
		if err := ma.toggleKey.Unregister(); err != nil {
			ma.logger.Debug("Failed to unregister hotkey", "error", err)
		}
		ma.toggleKey = nil
	}
}
