package play

import (
	"charm.land/bubbles/v2/key"

	"github.com/abhisek/stepquiz/internal/ui/layout"
)

type keyMap struct {
	Next     key.Binding
	Previous key.Binding
	Submit   key.Binding
	Up       key.Binding
	Down     key.Binding
	Activate key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Next: key.NewBinding(
			key.WithKeys("n", "right"),
			key.WithHelp("n/→", "Next"),
		),
		Previous: key.NewBinding(
			key.WithKeys("p", "left"),
			key.WithHelp("p/←", "Back"),
		),
		Submit: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Submit"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑↓", "Focus"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "tab"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter", "space"),
			key.WithHelp("Enter", "Select"),
		),
	}
}

// hints renders the bindings that carry help text as footer hints.
func (k keyMap) hints() []layout.KeyHint {
	var out []layout.KeyHint
	for _, b := range []key.Binding{k.Previous, k.Next, k.Submit, k.Up, k.Activate} {
		if !b.Enabled() || b.Help().Key == "" {
			continue
		}
		out = append(out, layout.KeyHint{Key: b.Help().Key, Description: b.Help().Desc})
	}
	return out
}
