// Package present turns session state into the strings shown by the desktop
// window, the tray menu and the terminal dashboard.
package present

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/activitylog"
	"github.com/borgmon/meeting-alarm/pkg/models"
)

const (
	MeetingTimeLayout = "Mon, Jan 2, 03:04 PM"
	AlertTimeLayout   = "03:04 PM"
	AlertDateLayout   = "Monday, January 2"
	LogTimeLayout     = "15:04:05"

	NotSpecified = "Not specified"
	Unknown      = "Unknown"
	Upcoming     = "Upcoming"
	Past         = "Past"

	NoMeetingsMessage = "No meetings detected yet. Start the system to begin scanning your emails."
	AlertTitle        = "Meeting Alert"

	gmailMessageURL = "https://mail.google.com/mail/u/0/#inbox/"
)

// SortMeetings returns a copy ordered by start time. Undated meetings go
// last; ties keep their original order.
func SortMeetings(meetings []models.Meeting) []models.Meeting {
	sorted := append([]models.Meeting(nil), meetings...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Time, sorted[j].Time
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})
	return sorted
}

// MeetingTime formats the scheduled time for the meeting list
func MeetingTime(m models.Meeting) string {
	if m.Time == nil {
		return NotSpecified
	}
	return m.Time.Format(MeetingTimeLayout)
}

// Status labels a meeting as upcoming or past
func Status(m models.Meeting, now time.Time) string {
	if m.IsUpcoming(now) {
		return Upcoming
	}
	return Past
}

// OrUnknown substitutes "Unknown" for an empty value
func OrUnknown(value string) string {
	if strings.TrimSpace(value) == "" {
		return Unknown
	}
	return value
}

// LogLine formats an activity log entry as "[15:04:05] [LEVEL] message"
func LogLine(e activitylog.Entry) string {
	return fmt.Sprintf("[%s] [%s] %s", e.Time.Format(LogTimeLayout), activitylog.LevelName(e.Level), e.Message)
}

// SuccessRate formats the backend's success percentage
func SuccessRate(rate int) string {
	return fmt.Sprintf("%d%%", rate)
}

// AlertHeadline is the first line of the alert banner
func AlertHeadline(m models.Meeting) string {
	return "📢 " + m.Title
}

// AlertDetails lists sender, time, date and platform for the alert banner
func AlertDetails(m models.Meeting) string {
	timeStr, dateStr := NotSpecified, NotSpecified
	if m.Time != nil {
		timeStr = m.Time.Format(AlertTimeLayout)
		dateStr = m.Time.Format(AlertDateLayout)
	}

	return strings.Join([]string{
		"👤 From: " + OrUnknown(m.Sender),
		"⏰ Time: " + timeStr,
		"📅 Date: " + dateStr,
		"🌐 Platform: " + OrUnknown(m.Platform),
	}, "\n")
}

// NotificationBody is the short text used for OS notifications
func NotificationBody(m models.Meeting, now time.Time) string {
	until, ok := m.Until(now)
	if !ok {
		return m.Title
	}
	minutes := int((until + time.Minute - 1) / time.Minute)
	if minutes == 1 {
		return fmt.Sprintf("%s starts in 1 minute", m.Title)
	}
	return fmt.Sprintf("%s starts in %d minutes", m.Title, minutes)
}

// GmailURL links to the message a meeting was extracted from
func GmailURL(id string) string {
	return gmailMessageURL + url.PathEscape(id)
}
