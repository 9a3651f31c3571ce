package components

import (
	"fmt"
	"strings"

	"github.com/abhisek/stepquiz/internal/ui/theme"
)

// ChoiceList renders a multiple-choice question and tracks which options are
// picked. A single-answer list keeps at most one pick.
type ChoiceList struct {
	Question string
	Options  []string
	Multiple bool
	Picked   []bool
}

// NewChoiceList creates a list with nothing picked.
func NewChoiceList(question string, options []string, multiple bool) ChoiceList {
	return ChoiceList{
		Question: question,
		Options:  options,
		Multiple: multiple,
		Picked:   make([]bool, len(options)),
	}
}

// Toggle flips option i. Out-of-range indexes are ignored.
func (c ChoiceList) Toggle(i int) ChoiceList {
	if i < 0 || i >= len(c.Options) {
		return c
	}
	picked := make([]bool, len(c.Picked))
	if c.Multiple {
		copy(picked, c.Picked)
	}
	picked[i] = !c.Picked[i]
	c.Picked = picked
	return c
}

// Selected returns the picked option indexes in order.
func (c ChoiceList) Selected() []int {
	var out []int
	for i, p := range c.Picked {
		if p {
			out = append(out, i)
		}
	}
	return out
}

// View renders the list. cursor is the focused option, or -1.
func (c ChoiceList) View(cursor int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(c.Question))
	b.WriteString("\n")

	for i, opt := range c.Options {
		prefix := "  "
		if i == cursor {
			prefix = "▸ "
		}
		box := "( )"
		if c.Multiple {
			box = "[ ]"
		}
		if c.Picked[i] {
			box = "(•)"
			if c.Multiple {
				box = "[x]"
			}
		}
		line := fmt.Sprintf("%s%s %s", prefix, box, opt)

		switch {
		case i == cursor:
			b.WriteString(theme.Selected.Render(line))
		case c.Picked[i]:
			b.WriteString(theme.Checked.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
