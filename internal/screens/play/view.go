package play

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepquiz/internal/quiz"
	"github.com/abhisek/stepquiz/internal/ui/components"
	"github.com/abhisek/stepquiz/internal/ui/theme"
)

func (s *PlayScreen) View(width, height int) string {
	bodyWidth := min(max(width-8, 20), 76)
	pad := lipgloss.NewStyle().PaddingLeft(max((width-bodyWidth)/2, 0))

	var b strings.Builder
	step := s.snap.Step
	if step.Title != "" {
		b.WriteString(theme.Title.Render(step.Title))
		b.WriteString("\n")
	}
	label, frac := s.Progress()
	b.WriteString(components.NewProgressBar(label, frac, true, bodyWidth).View())
	b.WriteString("\n\n")

	var focused *focusItem
	if s.cursor < len(s.focus) {
		focused = &s.focus[s.cursor]
	}

	var buttons []string
	for i, el := range step.Elements {
		switch c := el.Content.(type) {
		case quiz.TextContent:
			b.WriteString(theme.Body.Width(bodyWidth).Render(c.Text))
			b.WriteString("\n\n")
		case quiz.MultipleChoiceContent:
			cursor := -1
			if focused != nil && focused.element == i {
				cursor = focused.option
			}
			b.WriteString(s.choices[el.ID].View(cursor))
			b.WriteString("\n")
		case quiz.NavigationButtonContent:
			isFocused := focused != nil && focused.element == i
			buttons = append(buttons, components.NewButton(c.Label, isFocused).View())
		}
	}
	if len(buttons) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, buttons...))
		b.WriteString("\n")
	}
	if len(step.Elements) == 0 {
		b.WriteString(theme.Hint.Render("This step is empty."))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case s.flash != "":
		b.WriteString(theme.Flash.Render(s.flash))
	case s.busy:
		b.WriteString(theme.Hint.Render("…"))
	case s.snap.Info.IsLastStep:
		b.WriteString(theme.Hint.Render("Last step. Press s or n to finish."))
	}

	return pad.Render(b.String())
}
