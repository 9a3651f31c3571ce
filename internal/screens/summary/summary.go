// Package summary shows the outcome of a completed navigation session.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepquiz/internal/player"
	"github.com/abhisek/stepquiz/internal/router"
	"github.com/abhisek/stepquiz/internal/screen"
	"github.com/abhisek/stepquiz/internal/ui/layout"
	"github.com/abhisek/stepquiz/internal/ui/theme"
)

// SummaryScreen displays a finished session.
type SummaryScreen struct {
	snap player.Snapshot
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for snap.
func New(snap player.Snapshot) *SummaryScreen {
	return &SummaryScreen{snap: snap}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Done"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

// Path returns the visited step ids in order, without the repeated final
// entry recorded on completion.
func (s *SummaryScreen) Path() []string {
	h := s.snap.State.History
	if n := len(h); n > 1 && h[n-1] == h[n-2] {
		h = h[:n-1]
	}
	return h
}

func (s *SummaryScreen) View(width, height int) string {
	center := func(str string) string {
		return lipgloss.PlaceHorizontal(width, lipgloss.Center, str)
	}

	var b strings.Builder
	title := s.snap.QuizTitle
	if title == "" {
		title = s.snap.State.QuizID
	}
	b.WriteString(center(theme.Title.Render(title)))
	b.WriteString("\n\n")

	if !s.snap.State.Completed() {
		b.WriteString(center(theme.Hint.Render("This session is still in progress.")))
		return b.String()
	}

	b.WriteString(center(theme.Done.Render("Completed!")))
	b.WriteString("\n\n")

	path := s.Path()
	b.WriteString(center(theme.Body.Render(fmt.Sprintf(
		"Steps visited: %d of %d", distinct(path), s.snap.Info.TotalSteps))))
	b.WriteString("\n")
	if at := s.snap.State.CompletedAt; at != nil {
		b.WriteString(center(theme.Subtitle.Render("Finished " + at.Local().Format("Jan 2 15:04"))))
		b.WriteString("\n")
	}

	divider := theme.Subtitle.Render(strings.Repeat("─", min(max(width-8, 0), 60)))
	b.WriteString("\n")
	b.WriteString(center(divider))
	b.WriteString("\n")
	b.WriteString(center(theme.Hint.Render(strings.Join(path, " → "))))
	b.WriteString("\n")

	return b.String()
}

func distinct(ids []string) int {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		seen[id] = struct{}{}
	}
	return len(seen)
}
