package navigation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/stepquiz/internal/quiz"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func linearQuiz(n int) quiz.Quiz {
	q := quiz.Quiz{ID: "q"}
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		q.Steps = append(q.Steps, quiz.Step{ID: id, Elements: []quiz.Element{
			{ID: "t" + id, Type: quiz.ElementText, Content: quiz.TextContent{Text: id}},
		}})
	}
	return quiz.Normalize(q)
}

func newEngine(t *testing.T, q quiz.Quiz) (*Engine, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	e, err := NewEngine(q, WithClock(clock.Now))
	require.NoError(t, err)
	return e, clock
}

func apply(t *testing.T, e *Engine, s State, intents ...Intent) State {
	t.Helper()
	for _, in := range intents {
		var err error
		s, err = e.Apply(s, in)
		require.NoError(t, err, "intent %s", in)
	}
	return s
}

func TestStart(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(3))
	s, err := e.Start()
	require.NoError(t, err)

	assert.Equal(t, "q", s.QuizID)
	assert.Equal(t, "a", s.CurrentStepID)
	assert.Equal(t, []string{"a"}, s.History)
	assert.Equal(t, StatusInProgress, s.Status)
	assert.Empty(t, s.LastStepID)
	assert.False(t, s.LastNavigationAt.IsZero())
}

func TestStart_EmptyQuiz(t *testing.T) {
	e, _ := newEngine(t, quiz.Quiz{ID: "empty", Steps: []quiz.Step{}})
	_, err := e.Start()
	require.Error(t, err)
	assert.True(t, quiz.IsEmptyQuiz(err))
	assert.True(t, quiz.PresentAsNotFound(err))
}

func TestNewEngine_RejectsMalformedQuiz(t *testing.T) {
	q := linearQuiz(2)
	q.Steps[1].ID = "a"
	_, err := NewEngine(q)
	assert.True(t, quiz.IsMalformed(err), "got %v", err)
}

func TestNextThroughThreeSteps(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(3))
	s, err := e.Start()
	require.NoError(t, err)

	s = apply(t, e, s, Next(), Next())
	assert.Equal(t, "c", s.CurrentStepID)
	assert.False(t, s.Completed())

	s = apply(t, e, s, Next())
	assert.True(t, s.Completed())
	assert.Equal(t, "c", s.CurrentStepID)
	require.NotNil(t, s.CompletedAt)
	assert.Equal(t, s.LastNavigationAt, *s.CompletedAt)
	assert.Equal(t, []string{"a", "b", "c", "c"}, s.History)

	for _, in := range []Intent{Next(), Submit(), Previous(), GoTo("a")} {
		got, err := e.Apply(s, in)
		assert.True(t, quiz.IsAlreadyCompleted(err), "intent %s: %v", in, err)
		assert.Equal(t, s, got)
	}
}

func TestPreviousAsFirstIntentIsNoop(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(3))
	s, err := e.Start()
	require.NoError(t, err)

	got, err := e.Apply(s, Previous())
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestPreviousReturnsToPriorEntry(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(4))
	s, _ := e.Start()

	s = apply(t, e, s, GoTo("d"), Previous())
	assert.Equal(t, "a", s.CurrentStepID)
	assert.Equal(t, "d", s.LastStepID)
	assert.Equal(t, []string{"a", "d", "a"}, s.History)
}

func TestPreviousWalksBackThroughHistory(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(3))
	s, _ := e.Start()

	s = apply(t, e, s, Next(), Next(), Previous())
	assert.Equal(t, "b", s.CurrentStepID)

	s = apply(t, e, s, Previous())
	assert.Equal(t, "a", s.CurrentStepID)
	assert.Equal(t, "b", s.LastStepID)
	assert.Equal(t, []string{"a", "b", "c", "b", "a"}, s.History)

	got, err := e.Apply(s, Previous())
	require.NoError(t, err)
	assert.Equal(t, s, got, "previous at the first entry is a no-op")
}

func TestPreviousAfterForwardMoveStartsOver(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(4))
	s, _ := e.Start()

	s = apply(t, e, s, Next(), Next(), Previous(), Previous(), GoTo("d"))
	assert.Zero(t, s.BackDepth)

	s = apply(t, e, s, Previous())
	assert.Equal(t, "a", s.CurrentStepID, "previous returns to the step before d")
	s = apply(t, e, s, Previous())
	assert.Equal(t, "b", s.CurrentStepID)
	s = apply(t, e, s, Previous())
	assert.Equal(t, "c", s.CurrentStepID)
}

func TestUnknownIntentKind(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(2))
	s, _ := e.Start()

	got, err := e.Apply(s, Intent{Kind: "sideways"})
	require.Error(t, err)
	assert.True(t, quiz.IsUnknownIntent(err))
	assert.False(t, quiz.IsMalformed(err))
	assert.Equal(t, s, got)
}

func TestGoToAppendsOneEntry(t *testing.T) {
	e, clock := newEngine(t, linearQuiz(4))
	s, _ := e.Start()
	before := len(s.History)

	got, err := e.Apply(s, GoTo("c"))
	require.NoError(t, err)
	assert.Equal(t, "c", got.CurrentStepID)
	assert.Equal(t, "a", got.LastStepID)
	assert.Len(t, got.History, before+1)
	assert.Equal(t, clock.t, got.LastNavigationAt)

	// Backwards jumps are allowed too.
	got, err = e.Apply(got, GoTo("a"))
	require.NoError(t, err)
	assert.Equal(t, "a", got.CurrentStepID)
}

func TestGoToUnknownStepLeavesStateUnchanged(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(2))
	s, _ := e.Start()

	got, err := e.Apply(s, GoTo("ghost"))
	require.Error(t, err)
	assert.True(t, quiz.IsUnknownStep(err))
	assert.Equal(t, "ghost", quiz.OffendingID(err))
	assert.Equal(t, s, got)
}

func TestSubmitFromAnyStep(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(3))
	s, _ := e.Start()

	s = apply(t, e, s, Submit())
	assert.True(t, s.Completed())
	assert.Equal(t, "a", s.CurrentStepID)

	info, err := e.Info(s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, info.Progress)
	assert.True(t, info.IsCompleted)
	assert.True(t, info.IsFirstStep)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(3))
	s, _ := e.Start()
	s.History = make([]string, 1, 8)
	s.History[0] = "a"

	next := apply(t, e, s, Next())
	_ = apply(t, e, s, GoTo("c"))
	assert.Equal(t, []string{"a"}, s.History)
	assert.Equal(t, []string{"a", "b"}, next.History)
}

func TestInfo(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(4))
	s, _ := e.Start()

	tests := []struct {
		intent   Intent
		index    int
		progress float64
		first    bool
		last     bool
	}{
		{Next(), 1, 0.5, false, false},
		{Next(), 2, 0.75, false, false},
		{Next(), 3, 1, false, true},
	}

	info, err := e.Info(s)
	require.NoError(t, err)
	assert.Equal(t, 0.25, info.Progress)
	assert.True(t, info.IsFirstStep)
	assert.Equal(t, 4, info.TotalSteps)

	for _, tt := range tests {
		s = apply(t, e, s, tt.intent)
		info, err := e.Info(s)
		require.NoError(t, err)
		assert.Equal(t, tt.index, info.CurrentStepIndex)
		assert.Equal(t, tt.progress, info.Progress)
		assert.Equal(t, tt.first, info.IsFirstStep)
		assert.Equal(t, tt.last, info.IsLastStep)
		assert.False(t, info.IsCompleted)
	}

	s = apply(t, e, s, Next())
	info, err = e.Info(s)
	require.NoError(t, err)
	assert.Equal(t, 1.0, info.Progress)
	assert.True(t, info.IsCompleted)
}

func TestInfo_ForeignState(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(2))
	_, err := e.Info(State{CurrentStepID: "zzz"})
	assert.True(t, quiz.IsUnknownStep(err))

	_, err = e.Apply(State{CurrentStepID: "zzz", Status: StatusInProgress}, Next())
	assert.True(t, quiz.IsUnknownStep(err))
}

func TestCurrentStep(t *testing.T) {
	e, _ := newEngine(t, linearQuiz(2))
	s, _ := e.Start()
	step, err := e.CurrentStep(s)
	require.NoError(t, err)
	assert.Equal(t, "a", step.ID)
}

func TestIntentFromTarget(t *testing.T) {
	tests := []struct {
		target quiz.NavigationTarget
		want   Intent
	}{
		{quiz.NextTarget(), Next()},
		{quiz.PreviousTarget(), Previous()},
		{quiz.SubmitTarget(), Submit()},
		{quiz.StepTarget("x"), GoTo("x")},
	}
	for _, tt := range tests {
		got, err := IntentFromTarget(tt.target)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := IntentFromTarget(quiz.NavigationTarget{Type: "teleport"})
	assert.True(t, quiz.IsMalformed(err))
}

func TestParseIntent(t *testing.T) {
	for _, in := range []Intent{Next(), Previous(), Submit(), GoTo("step-7")} {
		got, err := ParseIntent(in.String())
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
	for _, bad := range []string{"", "jump", "step(", "step()"} {
		_, err := ParseIntent(bad)
		assert.True(t, quiz.IsUnknownIntent(err), "input %q: %v", bad, err)
	}
}

func TestIntentTarget(t *testing.T) {
	for _, in := range []Intent{Next(), Previous(), Submit(), GoTo("s2")} {
		got, err := IntentFromTarget(in.Target())
		require.NoError(t, err)
		assert.Equal(t, in, got)
	}
}
