package components

import (
	"github.com/abhisek/stepquiz/internal/ui/theme"
)

// Button is a navigation button. Activation is handled by the owning screen.
type Button struct {
	Label   string
	Focused bool
}

// NewButton creates a button.
func NewButton(label string, focused bool) Button {
	return Button{Label: label, Focused: focused}
}

// View renders the button.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render(b.Label)
}
