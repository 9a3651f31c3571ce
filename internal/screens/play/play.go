// Package play is the screen that walks an end user through a quiz one step
// at a time.
package play

import (
	"context"
	"fmt"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepquiz/internal/navigation"
	"github.com/abhisek/stepquiz/internal/player"
	"github.com/abhisek/stepquiz/internal/quiz"
	"github.com/abhisek/stepquiz/internal/router"
	"github.com/abhisek/stepquiz/internal/screen"
	"github.com/abhisek/stepquiz/internal/screens/summary"
	"github.com/abhisek/stepquiz/internal/ui/components"
	"github.com/abhisek/stepquiz/internal/ui/layout"
)

// Navigator sends intents for a running session.
type Navigator interface {
	Send(ctx context.Context, sessionID string, intent navigation.Intent) (player.Snapshot, error)
}

// focusItem addresses something the cursor can land on: an option of a
// multiple-choice element or a navigation button (option == -1).
type focusItem struct {
	element int
	option  int
}

// PlayScreen renders the current step and turns keys into intents.
type PlayScreen struct {
	nav  Navigator
	snap player.Snapshot
	keys keyMap

	focus  []focusItem
	cursor int

	// Picks survive moving between steps.
	choices map[string]components.ChoiceList

	flash string
	busy  bool
}

var _ screen.Screen = (*PlayScreen)(nil)
var _ screen.KeyHintProvider = (*PlayScreen)(nil)
var _ screen.ProgressProvider = (*PlayScreen)(nil)

// New creates a PlayScreen for a session that has already been started.
func New(nav Navigator, snap player.Snapshot) *PlayScreen {
	s := &PlayScreen{
		nav:     nav,
		keys:    defaultKeys(),
		choices: make(map[string]components.ChoiceList),
	}
	s.load(snap)
	return s
}

func (s *PlayScreen) Init() tea.Cmd {
	if s.snap.Info.IsCompleted {
		return s.finish()
	}
	return nil
}

func (s *PlayScreen) Title() string {
	if s.snap.QuizTitle != "" {
		return s.snap.QuizTitle
	}
	return "Quiz"
}

func (s *PlayScreen) KeyHints() []layout.KeyHint {
	return s.keys.hints()
}

// Progress reports the step position for the header.
func (s *PlayScreen) Progress() (string, float64) {
	info := s.snap.Info
	return fmt.Sprintf("Step %d of %d", info.CurrentStepIndex+1, info.TotalSteps), info.Progress
}

// Snapshot returns the last state received from the navigator.
func (s *PlayScreen) Snapshot() player.Snapshot {
	return s.snap
}

// Flash returns the current error line, if any.
func (s *PlayScreen) Flash() string {
	return s.flash
}

func (s *PlayScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case navigatedMsg:
		return s.handleNavigated(msg)
	case tea.KeyPressMsg:
		if s.busy {
			return s, nil
		}
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *PlayScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch {
	case key.Matches(msg, s.keys.Next):
		return s, s.send(navigation.Next())
	case key.Matches(msg, s.keys.Previous):
		return s, s.send(navigation.Previous())
	case key.Matches(msg, s.keys.Submit):
		return s, s.send(navigation.Submit())
	case key.Matches(msg, s.keys.Up):
		if s.cursor > 0 {
			s.cursor--
		}
	case key.Matches(msg, s.keys.Down):
		if s.cursor < len(s.focus)-1 {
			s.cursor++
		}
	case key.Matches(msg, s.keys.Activate):
		return s.activate()
	}
	return s, nil
}

func (s *PlayScreen) activate() (screen.Screen, tea.Cmd) {
	if len(s.focus) == 0 {
		return s, nil
	}
	item := s.focus[s.cursor]
	el := s.snap.Step.Elements[item.element]

	if item.option >= 0 {
		s.choices[el.ID] = s.choices[el.ID].Toggle(item.option)
		return s, nil
	}

	target, ok := el.Target()
	if !ok {
		return s, nil
	}
	intent, err := navigation.IntentFromTarget(target)
	if err != nil {
		s.flash = describe(err)
		return s, nil
	}
	return s, s.send(intent)
}

func (s *PlayScreen) send(intent navigation.Intent) tea.Cmd {
	s.busy = true
	s.flash = ""
	nav, id := s.nav, s.snap.SessionID
	return func() tea.Msg {
		snap, err := nav.Send(context.Background(), id, intent)
		return navigatedMsg{Intent: intent, Snap: snap, Err: err}
	}
}

func (s *PlayScreen) handleNavigated(msg navigatedMsg) (screen.Screen, tea.Cmd) {
	s.busy = false
	if msg.Snap.SessionID != "" {
		s.load(msg.Snap)
	}
	if msg.Err != nil {
		s.flash = describe(msg.Err)
		return s, nil
	}
	if s.snap.Info.IsCompleted {
		return s, s.finish()
	}
	return s, nil
}

func (s *PlayScreen) finish() tea.Cmd {
	snap := s.snap
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(snap)}
	}
}

// load installs snap and rebuilds the focus ring when the step changed.
func (s *PlayScreen) load(snap player.Snapshot) {
	sameStep := s.snap.Step.ID == snap.Step.ID && s.snap.SessionID == snap.SessionID
	s.snap = snap
	if sameStep && s.focus != nil {
		return
	}

	s.focus = s.focus[:0]
	s.cursor = 0
	for i, el := range snap.Step.Elements {
		switch c := el.Content.(type) {
		case quiz.MultipleChoiceContent:
			if _, ok := s.choices[el.ID]; !ok {
				labels := make([]string, len(c.Options))
				for j, opt := range c.Options {
					labels[j] = opt.Label
				}
				s.choices[el.ID] = components.NewChoiceList(c.Question, labels, c.Multiple)
			}
			for j := range c.Options {
				s.focus = append(s.focus, focusItem{element: i, option: j})
			}
		case quiz.NavigationButtonContent:
			s.focus = append(s.focus, focusItem{element: i, option: -1})
		}
	}
}

func describe(err error) string {
	if msg := player.Describe(err); msg != "" {
		return msg
	}
	return err.Error()
}
