package store

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestConfigStoreDefaults(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	cfg := NewConfigStore(app.Preferences()).Load()
	assert.Equal(t, models.DefaultConfig(), cfg)
}

func TestConfigStoreSaveLoad(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	cs := NewConfigStore(app.Preferences())
	cs.Save(&models.Config{
		AutoStart:      true,
		BackendURL:     "http://localhost:9000",
		CheckInterval:  2,
		AlertTime:      15,
		EmailKeywords:  "standup",
		AllowedMailIDs: "x.com, boss@corp.io",
	})

	cfg := cs.Load()
	assert.True(t, cfg.AutoStart)
	assert.Equal(t, "http://localhost:9000", cfg.BackendURL)
	assert.Equal(t, 2, cfg.CheckInterval)
	assert.Equal(t, 15, cfg.AlertTime)
	assert.Equal(t, []string{"x.com", "boss@corp.io"}, cfg.AllowList())
}
