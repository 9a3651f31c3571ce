package play

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/stepquiz/internal/navigation"
	"github.com/abhisek/stepquiz/internal/player"
	"github.com/abhisek/stepquiz/internal/quiz"
	"github.com/abhisek/stepquiz/internal/router"
	"github.com/abhisek/stepquiz/internal/screen"
	"github.com/abhisek/stepquiz/internal/screens/summary"
)

// engineNav drives a navigation engine in memory.
type engineNav struct {
	eng   *navigation.Engine
	state navigation.State
	sent  []navigation.Intent
	err   error
}

func (n *engineNav) Send(_ context.Context, id string, in navigation.Intent) (player.Snapshot, error) {
	n.sent = append(n.sent, in)
	if n.err != nil {
		return n.snapshot(id), n.err
	}
	next, err := n.eng.Apply(n.state, in)
	if err != nil {
		return n.snapshot(id), err
	}
	n.state = next
	return n.snapshot(id), nil
}

func (n *engineNav) snapshot(id string) player.Snapshot {
	info, _ := n.eng.Info(n.state)
	step, _ := n.eng.CurrentStep(n.state)
	return player.Snapshot{SessionID: id, QuizTitle: n.eng.Quiz().Title, State: n.state, Info: info, Step: step}
}

func testQuiz() quiz.Quiz {
	return quiz.Normalize(quiz.Quiz{ID: "q", Title: "Onboarding", Steps: []quiz.Step{
		{ID: "intro", Title: "Welcome", Elements: []quiz.Element{
			{ID: "t1", Type: quiz.ElementText, Content: quiz.TextContent{Text: "Hello there"}},
			{ID: "mc", Type: quiz.ElementMultipleChoice, Content: quiz.MultipleChoiceContent{
				Question: "Pick a color",
				Options:  []quiz.Choice{{ID: "r", Label: "Red"}, {ID: "g", Label: "Green"}},
			}},
			{ID: "skip", Type: quiz.ElementNavigationButton,
				Content: quiz.NavigationButtonContent{Label: "Skip ahead", Target: quiz.StepTarget("end")}},
		}},
		{ID: "middle", Elements: []quiz.Element{}},
		{ID: "end", Title: "Done", Elements: []quiz.Element{}},
	}})
}

func newScreen(t *testing.T) (*PlayScreen, *engineNav) {
	t.Helper()
	eng, err := navigation.NewEngine(testQuiz())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	state, err := eng.Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	nav := &engineNav{eng: eng, state: state}
	return New(nav, nav.snapshot("s1")), nav
}

// press sends a key and runs any resulting command back through the screen
// until it settles. It returns the last message that left the screen.
func press(t *testing.T, s screen.Screen, k tea.KeyPressMsg) (screen.Screen, tea.Msg) {
	t.Helper()
	s, cmd := s.Update(k)
	var out tea.Msg
	for cmd != nil {
		msg := cmd()
		if _, ok := msg.(navigatedMsg); !ok {
			return s, msg
		}
		s, cmd = s.Update(msg)
	}
	return s, out
}

func keyRune(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestPlay_Title(t *testing.T) {
	s, _ := newScreen(t)
	if s.Title() != "Onboarding" {
		t.Errorf("Title = %q, want Onboarding", s.Title())
	}
	label, frac := s.Progress()
	if label != "Step 1 of 3" {
		t.Errorf("Progress label = %q", label)
	}
	if frac <= 0 || frac >= 1 {
		t.Errorf("Progress fraction = %v", frac)
	}
}

func TestPlay_NextAndPrevious(t *testing.T) {
	s, nav := newScreen(t)

	press(t, s, keyRune('n'))
	if got := s.Snapshot().State.CurrentStepID; got != "middle" {
		t.Fatalf("after next current = %q, want middle", got)
	}
	press(t, s, tea.KeyPressMsg{Code: tea.KeyLeft})
	if got := s.Snapshot().State.CurrentStepID; got != "intro" {
		t.Fatalf("after previous current = %q, want intro", got)
	}
	if len(nav.sent) != 2 || nav.sent[1] != navigation.Previous() {
		t.Errorf("sent = %v", nav.sent)
	}
}

func TestPlay_ChoicesSurviveNavigation(t *testing.T) {
	s, _ := newScreen(t)

	press(t, s, tea.KeyPressMsg{Code: tea.KeyDown})
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})
	if !strings.Contains(s.View(80, 24), "(•) Green") {
		t.Fatalf("Green not picked:\n%s", s.View(80, 24))
	}

	press(t, s, keyRune('n'))
	press(t, s, keyRune('p'))
	if !strings.Contains(s.View(80, 24), "(•) Green") {
		t.Errorf("pick lost after navigating away and back")
	}
}

func TestPlay_ButtonJumpsToTarget(t *testing.T) {
	s, nav := newScreen(t)

	// Focus ring: Red, Green, Skip ahead.
	press(t, s, tea.KeyPressMsg{Code: tea.KeyDown})
	press(t, s, tea.KeyPressMsg{Code: tea.KeyDown})
	press(t, s, tea.KeyPressMsg{Code: tea.KeyDown})
	press(t, s, tea.KeyPressMsg{Code: tea.KeyEnter})

	if got := s.Snapshot().State.CurrentStepID; got != "end" {
		t.Fatalf("current = %q, want end", got)
	}
	if nav.sent[0] != navigation.GoTo("end") {
		t.Errorf("sent %v, want step(end)", nav.sent[0])
	}
	if !strings.Contains(s.View(80, 24), "Last step") {
		t.Error("expected last-step hint")
	}
}

func TestPlay_RecoverableErrorFlashes(t *testing.T) {
	s, nav := newScreen(t)
	nav.err = quiz.NewError(quiz.ErrUnknownStep, "", nil, map[string]any{"id": "gone"})

	press(t, s, keyRune('n'))
	if s.Snapshot().State.CurrentStepID != "intro" {
		t.Error("state moved despite error")
	}
	if !strings.Contains(s.Flash(), "no longer exists") {
		t.Errorf("Flash = %q", s.Flash())
	}

	nav.err = nil
	press(t, s, keyRune('n'))
	if s.Flash() != "" {
		t.Errorf("flash not cleared: %q", s.Flash())
	}
}

func TestPlay_SubmitShowsSummary(t *testing.T) {
	s, _ := newScreen(t)

	_, msg := press(t, s, keyRune('s'))
	rep, ok := msg.(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", msg)
	}
	if _, ok := rep.Screen.(*summary.SummaryScreen); !ok {
		t.Errorf("replacement is %T, want summary", rep.Screen)
	}
	if !s.Snapshot().State.Completed() {
		t.Error("state not completed")
	}
}

func TestPlay_BusyIgnoresKeys(t *testing.T) {
	s, nav := newScreen(t)

	_, cmd := s.Update(keyRune('n'))
	if cmd == nil {
		t.Fatal("expected a navigation command")
	}
	s.Update(keyRune('n'))
	if len(nav.sent) != 0 {
		t.Fatal("command ran before being executed")
	}
	s.Update(cmd())
	if len(nav.sent) != 1 {
		t.Errorf("sent %d intents, want 1", len(nav.sent))
	}
}

func TestPlay_KeyHints(t *testing.T) {
	s, _ := newScreen(t)
	var keys []string
	for _, h := range s.KeyHints() {
		keys = append(keys, h.Key)
	}
	if got := strings.Join(keys, " "); got != "p/← n/→ s ↑↓ Enter" {
		t.Errorf("hints = %q", got)
	}
}
