package models

import (
	"strings"
	"time"
)

const (
	DefaultBackendURL    = "http://127.0.0.1:8000"
	DefaultCheckInterval = 5  // minutes
	DefaultAlertTime     = 10 // minutes
	DefaultEmailKeywords = "meeting, zoom, conference, appointment, masterclass, workshop"
)

// Config holds application configuration
type Config struct {
	AutoStart      bool   `json:"auto_start"`
	BackendURL     string `json:"backend_url"`
	CheckInterval  int    `json:"check_interval"`   // minutes between backend scans
	AlertTime      int    `json:"alert_time"`       // minutes before a meeting to alert
	EmailKeywords  string `json:"email_keywords"`   // comma-separated, display only
	AllowedMailIDs string `json:"allowed_mail_ids"` // comma-separated sender substrings
}

// DefaultConfig returns the settings used on first launch
func DefaultConfig() *Config {
	return &Config{
		BackendURL:    DefaultBackendURL,
		CheckInterval: DefaultCheckInterval,
		AlertTime:     DefaultAlertTime,
		EmailKeywords: DefaultEmailKeywords,
	}
}

// ScanInterval converts CheckInterval to a duration. No minimum is applied.
func (c *Config) ScanInterval() time.Duration {
	return time.Duration(c.CheckInterval) * time.Minute
}

// AlertLeadTime converts AlertTime to a duration
func (c *Config) AlertLeadTime() time.Duration {
	return time.Duration(c.AlertTime) * time.Minute
}

// AllowList returns the parsed sender allow-list
func (c *Config) AllowList() []string {
	return ParseList(c.AllowedMailIDs)
}

// Keywords returns the parsed keyword list
func (c *Config) Keywords() []string {
	return ParseList(c.EmailKeywords)
}

// ParseList splits comma-separated input into trimmed, lowercase, non-empty entries
func ParseList(input string) []string {
	entries := []string{}
	for _, part := range strings.Split(input, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// SenderAllowed reports whether sender contains any allow-list entry.
// An empty allow-list admits every sender.
func SenderAllowed(allowList []string, sender string) bool {
	if len(allowList) == 0 {
		return true
	}
	sender = strings.ToLower(sender)
	for _, entry := range allowList {
		if strings.Contains(sender, entry) {
			return true
		}
	}
	return false
}
