package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/emersion/go-ical"
	"github.com/google/uuid"
)

const productID = "-//borgmon//meeting-alarm//EN"

// DefaultDuration is used for DTEND since the backend only reports start times
const DefaultDuration = 30 * time.Minute

// Export writes meetings that have a scheduled time as a VCALENDAR.
// It returns the number of events written.
func Export(w io.Writer, meetings []models.Meeting, stamp time.Time) (int, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	for i := range meetings {
		m := &meetings[i]
		if !m.HasTime() {
			continue
		}
		cal.Children = append(cal.Children, meetingEvent(m, stamp).Component)
	}

	if len(cal.Children) == 0 {
		return 0, nil
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return 0, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return len(cal.Children), nil
}

func meetingEvent(m *models.Meeting, stamp time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, eventUID(m))
	event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, m.Time.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, m.Time.Add(DefaultDuration).UTC())
	event.Props.SetText(ical.PropSummary, m.Title)

	description := []string{"From: " + m.Sender, "Platform: " + ResolvePlatform(m.Platform, m.Link)}
	if m.Link != "" {
		description = append(description, "Join: "+m.Link)
		event.Props.SetText(ical.PropLocation, m.Link)
	}
	event.Props.SetText(ical.PropDescription, strings.Join(description, "\n"))

	return event
}

// eventUID is stable across exports so calendar apps update instead of duplicating
func eventUID(m *models.Meeting) string {
	if m.ID != "" {
		return m.ID + "@meeting-alarm"
	}
	key := m.Title + "|" + m.Time.UTC().Format(time.RFC3339)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@meeting-alarm"
}
