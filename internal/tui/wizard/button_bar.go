package wizard

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mark3labs/beacon/internal/form"
	"github.com/mark3labs/beacon/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Primary action, highlighted
)

// Button represents a single button in the button bar.
type Button struct {
	Label string
	Key   string
	State ButtonState
}

// ButtonBar manages a set of buttons with consistent styling.
type ButtonBar struct {
	buttons []Button
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// Buttons returns the buttons of the bar.
func (b *ButtonBar) Buttons() []Button {
	return b.buttons
}

// Render renders the button bar with proper spacing and styling.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}
	s := theme.Current().S()

	var rendered []string
	for _, btn := range b.buttons {
		label := btn.Label
		if btn.Key != "" {
			label += " (" + btn.Key + ")"
		}
		switch btn.State {
		case ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(label))
		case ButtonFocused:
			rendered = append(rendered, s.ButtonFocused.Render(label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// navButtons builds the Back, Save draft and Next buttons from the
// navigator's affordances.
func navButtons(nav *form.Navigator) []Button {
	busy := nav.Busy()

	back := Button{Label: "← " + nav.BackStepLabel(), Key: "esc", State: ButtonNormal}
	if busy {
		back.State = ButtonDisabled
	}

	buttons := []Button{back}
	if nav.Machine().State().CurrentStep > form.FirstStep {
		draft := Button{Label: "Save draft", Key: "ctrl+s", State: ButtonDisabled}
		if nav.CanSaveDraft() {
			draft.State = ButtonNormal
		}
		buttons = append(buttons, draft)
	}

	next := Button{Label: nav.NextStepLabel() + " →", Key: "enter", State: ButtonDisabled}
	if !busy && nav.CanAdvance() {
		next.State = ButtonFocused
	}
	return append(buttons, next)
}
