// Package screen defines the contract between the router and the views of
// the terminal player.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepquiz/internal/ui/layout"
)

// Screen is one view on the router stack.
type Screen interface {
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the body between header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens that supply their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// ProgressProvider is implemented by screens that report a position in a
// quiz for the header.
type ProgressProvider interface {
	Progress() (label string, fraction float64)
}
