package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/frontdesk/internal/tui/theme"
)

// ButtonState is how a control button is drawn.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Enabled
	ButtonDisabled                    // Not available at this step
	ButtonFocused                     // Default action for enter
	ButtonBusy                        // Action in progress
)

// Button is one entry of a ButtonBar.
type Button struct {
	Label string
	State ButtonState
}

// ButtonBar lays out buttons centered on one line.
type ButtonBar struct {
	buttons []Button
	width   int
}

func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{buttons: buttons, width: 60}
}

func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Buttons returns the buttons in display order.
func (b *ButtonBar) Buttons() []Button {
	return b.buttons
}

func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	parts := make([]string, 0, len(b.buttons))
	for _, btn := range b.buttons {
		switch btn.State {
		case ButtonDisabled:
			parts = append(parts, s.ButtonDisabled.Render(btn.Label))
		case ButtonFocused:
			parts = append(parts, s.ButtonFocused.Render(btn.Label))
		case ButtonBusy:
			parts = append(parts, s.ButtonDisabled.Italic(true).Render(btn.Label+"…"))
		default:
			parts = append(parts, s.Button.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(parts, ""))
}

// CreateBackNextButtons builds the Back/Next pair. Next is the focused
// button whenever it is enabled.
func CreateBackNextButtons(backEnabled, nextEnabled bool, nextLabel string) []Button {
	back := Button{Label: "← Back", State: ButtonNormal}
	if !backEnabled {
		back.State = ButtonDisabled
	}
	next := Button{Label: nextLabel, State: ButtonFocused}
	if !nextEnabled {
		next.State = ButtonDisabled
	}
	return []Button{back, next}
}
