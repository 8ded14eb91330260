package components

import (
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findButton(t *testing.T, card *MeetingCard, text string) *widget.Button {
	t.Helper()
	for _, o := range test.WidgetRenderer(card).Objects() {
		if b := searchButton(o, text); b != nil {
			return b
		}
	}
	return nil
}

func TestMeetingCardActions(t *testing.T) {
	test.NewApp()

	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)
	at := now.Add(time.Hour)
	var joined, viewed string

	card := NewMeetingCard(
		models.Meeting{ID: "abc", Title: "Standup", Time: &at, Link: "https://zoom.us/j/1"},
		now,
		func(link string) { joined = link },
		func(id string) { viewed = id },
	)

	join := findButton(t, card, "Join Meeting")
	require.NotNil(t, join)
	test.Tap(join)
	assert.Equal(t, "https://zoom.us/j/1", joined)

	view := findButton(t, card, "View Email")
	require.NotNil(t, view)
	test.Tap(view)
	assert.Equal(t, "abc", viewed)
}

func TestMeetingCardHidesMissingActions(t *testing.T) {
	test.NewApp()

	card := NewMeetingCard(models.Meeting{Title: "Undated"}, time.Now(), func(string) {}, func(string) {})

	assert.Nil(t, findButton(t, card, "Join Meeting"))
	assert.Nil(t, findButton(t, card, "View Email"))
}

// searchButton walks containers looking for a button with the given text
func searchButton(o fyne.CanvasObject, text string) *widget.Button {
	switch v := o.(type) {
	case *widget.Button:
		if v.Text == text {
			return v
		}
	case *fyne.Container:
		for _, child := range v.Objects {
			if b := searchButton(child, text); b != nil {
				return b
			}
		}
	}
	return nil
}
