// Package home lists stored quizzes and starts a session for the one picked.
package home

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/stepquiz/internal/navigation"
	"github.com/abhisek/stepquiz/internal/player"
	"github.com/abhisek/stepquiz/internal/router"
	"github.com/abhisek/stepquiz/internal/screen"
	"github.com/abhisek/stepquiz/internal/screens/play"
	"github.com/abhisek/stepquiz/internal/store"
	"github.com/abhisek/stepquiz/internal/ui/components"
	"github.com/abhisek/stepquiz/internal/ui/layout"
	"github.com/abhisek/stepquiz/internal/ui/theme"
)

// Lister returns the quizzes to offer.
type Lister interface {
	List(ctx context.Context) ([]store.QuizSummary, error)
}

// Player starts sessions and sends intents to them.
type Player interface {
	Start(ctx context.Context, quizID string) (player.Snapshot, error)
	Send(ctx context.Context, sessionID string, intent navigation.Intent) (player.Snapshot, error)
}

type listedMsg struct {
	quizzes []store.QuizSummary
	err     error
}

type startedMsg struct {
	snap player.Snapshot
	err  error
}

// HomeScreen is the quiz picker.
type HomeScreen struct {
	lister  Lister
	player  Player
	menu    components.Menu
	loaded  bool
	flash   string
	quizzes []store.QuizSummary
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.KeyHintProvider = (*HomeScreen)(nil)

// New creates a HomeScreen.
func New(lister Lister, p Player) *HomeScreen {
	return &HomeScreen{lister: lister, player: p}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.refresh()
}

func (h *HomeScreen) Title() string {
	return "Quizzes"
}

func (h *HomeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "r", Description: "Refresh"},
	}
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case listedMsg:
		h.loaded = true
		if msg.err != nil {
			h.flash = "Could not load quizzes: " + msg.err.Error()
			return h, nil
		}
		h.setQuizzes(msg.quizzes)
		return h, nil

	case startedMsg:
		if msg.err != nil {
			h.flash = describeStart(msg.err)
			return h, nil
		}
		h.flash = ""
		return h, func() tea.Msg {
			return router.PushScreenMsg{Screen: play.New(h.player, msg.snap)}
		}

	case tea.KeyPressMsg:
		if msg.String() == "r" {
			return h, h.refresh()
		}
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) refresh() tea.Cmd {
	lister := h.lister
	return func() tea.Msg {
		quizzes, err := lister.List(context.Background())
		return listedMsg{quizzes: quizzes, err: err}
	}
}

func (h *HomeScreen) setQuizzes(quizzes []store.QuizSummary) {
	h.quizzes = quizzes
	items := make([]components.MenuItem, len(quizzes))
	for i, q := range quizzes {
		id := q.ID
		title := q.Title
		if title == "" {
			title = id
		}
		items[i] = components.MenuItem{
			Label:    title,
			Detail:   fmt.Sprintf("%d steps", q.StepCount),
			Disabled: q.StepCount == 0,
			Action:   func() tea.Cmd { return h.start(id) },
		}
	}
	h.menu = components.NewMenu(items)
}

func (h *HomeScreen) start(quizID string) tea.Cmd {
	p := h.player
	return func() tea.Msg {
		snap, err := p.Start(context.Background(), quizID)
		return startedMsg{snap: snap, err: err}
	}
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("Pick a quiz"))
	b.WriteString("\n\n")

	switch {
	case !h.loaded:
		b.WriteString(theme.Hint.Render("Loading…"))
	case len(h.quizzes) == 0:
		b.WriteString(theme.Hint.Render("No quizzes yet. Add one with: stepquiz import FILE"))
	default:
		b.WriteString(h.menu.View())
	}

	if h.flash != "" {
		b.WriteString("\n")
		b.WriteString(theme.Flash.Render(h.flash))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		theme.Card.Render(b.String()))
}

func describeStart(err error) string {
	if quizErr := player.Describe(err); quizErr != "" {
		return quizErr
	}
	return "Could not start quiz: " + err.Error()
}
