package components

import (
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/borgmon/meeting-alarm/pkg/models"
	"github.com/borgmon/meeting-alarm/pkg/present"
)

var (
	upcomingColor = color.NRGBA{R: 0x10, G: 0xb9, B: 0x81, A: 0xff}
	pastColor     = color.NRGBA{R: 0xa0, G: 0xae, B: 0xc0, A: 0xff}
)

// MeetingCard shows one detected meeting with a status stripe and the
// Join Meeting / View Email actions
type MeetingCard struct {
	widget.BaseWidget
	Meeting     models.Meeting
	Now         time.Time
	OnJoin      func(link string)
	OnViewEmail func(id string)
}

// NewMeetingCard creates a MeetingCard
func NewMeetingCard(m models.Meeting, now time.Time, onJoin, onViewEmail func(string)) *MeetingCard {
	c := &MeetingCard{
		Meeting:     m,
		Now:         now,
		OnJoin:      onJoin,
		OnViewEmail: onViewEmail,
	}
	c.ExtendBaseWidget(c)
	return c
}

// CreateRenderer implements fyne.Widget
func (c *MeetingCard) CreateRenderer() fyne.WidgetRenderer {
	m := c.Meeting
	status := present.Status(m, c.Now)

	stripeColor := color.Color(pastColor)
	if status == present.Upcoming {
		stripeColor = upcomingColor
	}
	stripe := canvas.NewRectangle(stripeColor)
	stripe.SetMinSize(fyne.NewSize(4, 0))

	title := widget.NewLabelWithStyle(m.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	title.Wrapping = fyne.TextWrapWord

	details := container.NewGridWithColumns(4,
		iconLabel(theme.HistoryIcon(), present.MeetingTime(m)),
		iconLabel(theme.AccountIcon(), present.OrUnknown(m.Sender)),
		iconLabel(theme.ComputerIcon(), present.OrUnknown(m.Platform)),
		iconLabel(theme.RadioButtonCheckedIcon(), status),
	)

	actions := container.NewHBox()
	if m.Link != "" && c.OnJoin != nil {
		join := widget.NewButtonWithIcon("Join Meeting", theme.MediaPlayIcon(), func() {
			c.OnJoin(m.Link)
		})
		join.Importance = widget.HighImportance
		actions.Add(join)
	}
	if m.ID != "" && c.OnViewEmail != nil {
		view := widget.NewButtonWithIcon("View Email", theme.MailComposeIcon(), func() {
			c.OnViewEmail(m.ID)
		})
		view.Importance = widget.SuccessImportance
		actions.Add(view)
	}

	body := container.NewVBox(title, details)
	if len(actions.Objects) > 0 {
		body.Add(actions)
	}

	return widget.NewSimpleRenderer(container.NewBorder(nil, nil, stripe, nil, container.NewPadded(body)))
}

func iconLabel(icon fyne.Resource, text string) fyne.CanvasObject {
	return container.NewHBox(widget.NewIcon(icon), widget.NewLabel(text))
}
