package store

import (
	"fyne.io/fyne/v2"
	"github.com/borgmon/meeting-alarm/pkg/models"
)

// ConfigStore handles configuration persistence using Fyne preferences
type ConfigStore struct {
	prefs fyne.Preferences
}

// NewConfigStore creates a new ConfigStore instance
func NewConfigStore(prefs fyne.Preferences) *ConfigStore {
	return &ConfigStore{prefs: prefs}
}

// Load loads configuration from preferences, falling back to defaults
func (cs *ConfigStore) Load() *models.Config {
	defaults := models.DefaultConfig()

	return &models.Config{
		AutoStart:      cs.prefs.BoolWithFallback("auto_start", defaults.AutoStart),
		BackendURL:     cs.prefs.StringWithFallback("backend_url", defaults.BackendURL),
		CheckInterval:  cs.prefs.IntWithFallback("check_interval", defaults.CheckInterval),
		AlertTime:      cs.prefs.IntWithFallback("alert_time", defaults.AlertTime),
		EmailKeywords:  cs.prefs.StringWithFallback("email_keywords", defaults.EmailKeywords),
		AllowedMailIDs: cs.prefs.StringWithFallback("allowed_mail_ids", defaults.AllowedMailIDs),
	}
}

// Save saves configuration to preferences
func (cs *ConfigStore) Save(config *models.Config) {
	cs.prefs.SetBool("auto_start", config.AutoStart)
	cs.prefs.SetString("backend_url", config.BackendURL)
	cs.prefs.SetInt("check_interval", config.CheckInterval)
	cs.prefs.SetInt("alert_time", config.AlertTime)
	cs.prefs.SetString("email_keywords", config.EmailKeywords)
	cs.prefs.SetString("allowed_mail_ids", config.AllowedMailIDs)
}
