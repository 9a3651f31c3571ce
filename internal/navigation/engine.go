package navigation

import (
	"fmt"
	"time"

	"github.com/abhisek/stepquiz/internal/logging"
	"github.com/abhisek/stepquiz/internal/quiz"
)

// Engine computes navigation transitions over one validated quiz. It holds no
// per-user state and is safe for concurrent use.
type Engine struct {
	quiz  quiz.Quiz
	index map[string]int
	now   func() time.Time
	log   logging.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLogger sets the logger transitions are reported to.
func WithLogger(l logging.Logger) Option {
	return func(e *Engine) { e.log = logging.Normalize(l) }
}

// NewEngine validates q and builds an engine for it. A quiz with zero steps
// is accepted here; Start reports it as EmptyQuiz.
func NewEngine(q quiz.Quiz, opts ...Option) (*Engine, error) {
	if err := quiz.Validate(q); err != nil {
		return nil, err
	}
	e := &Engine{
		quiz:  q.Clone(),
		index: q.StepIndexByID(),
		now:   time.Now,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithFields(map[string]any{"quiz_id": q.ID})
	return e, nil
}

// Quiz returns a copy of the quiz the engine navigates.
func (e *Engine) Quiz() quiz.Quiz {
	return e.quiz.Clone()
}

// Start returns the initial state, positioned on the first step.
func (e *Engine) Start() (State, error) {
	if len(e.quiz.Steps) == 0 {
		return State{}, quiz.NewError(quiz.ErrEmptyQuiz,
			fmt.Sprintf("quiz %q has no steps", e.quiz.ID), nil,
			map[string]any{"id": e.quiz.ID})
	}
	first := e.quiz.Steps[0].ID
	s := State{
		QuizID:           e.quiz.ID,
		CurrentStepID:    first,
		History:          []string{first},
		LastNavigationAt: e.now(),
		Status:           StatusInProgress,
	}
	e.log.Debug("navigation started at step %s", first)
	return s, nil
}

// Apply computes the state that follows s for intent. On error, or for the
// previous-with-no-history boundary, the returned state equals s.
func (e *Engine) Apply(s State, in Intent) (State, error) {
	if s.Completed() {
		return s, quiz.NewError(quiz.ErrQuizAlreadyCompleted,
			fmt.Sprintf("quiz %q is already completed", e.quiz.ID), nil,
			map[string]any{"id": s.CurrentStepID, "intent": in.String()})
	}
	cur, ok := e.index[s.CurrentStepID]
	if !ok {
		return s, e.unknownStep(s.CurrentStepID)
	}

	switch in.Kind {
	case IntentNext:
		if cur == len(e.quiz.Steps)-1 {
			return e.complete(s), nil
		}
		return e.moveTo(s, e.quiz.Steps[cur+1].ID), nil

	case IntentPrevious:
		at := priorEntry(s)
		if at < 0 {
			e.log.Trace("previous ignored at step %s: no prior entry", s.CurrentStepID)
			return s, nil
		}
		out := e.moveTo(s, s.History[at])
		out.BackDepth = s.BackDepth + 1
		return out, nil

	case IntentStep:
		if _, ok := e.index[in.StepID]; !ok {
			return s, e.unknownStep(in.StepID)
		}
		return e.moveTo(s, in.StepID), nil

	case IntentSubmit:
		return e.complete(s), nil

	default:
		return s, quiz.NewError(quiz.ErrUnknownIntent,
			fmt.Sprintf("unknown navigation intent %q", in.Kind), nil,
			map[string]any{"intent": string(in.Kind)})
	}
}

// Info derives the position summary for s.
func (e *Engine) Info(s State) (StepInfo, error) {
	idx, ok := e.index[s.CurrentStepID]
	if !ok {
		return StepInfo{}, e.unknownStep(s.CurrentStepID)
	}
	total := len(e.quiz.Steps)
	info := StepInfo{
		CurrentStepID:    s.CurrentStepID,
		CurrentStepIndex: idx,
		TotalSteps:       total,
		IsFirstStep:      idx == 0,
		IsLastStep:       idx == total-1,
		IsCompleted:      s.Completed(),
		Progress:         float64(idx+1) / float64(total),
	}
	if info.IsCompleted {
		info.Progress = 1
	}
	return info, nil
}

// CurrentStep returns the step s is positioned on.
func (e *Engine) CurrentStep(s State) (quiz.Step, error) {
	idx, ok := e.index[s.CurrentStepID]
	if !ok {
		return quiz.Step{}, e.unknownStep(s.CurrentStepID)
	}
	return e.quiz.Steps[idx].Clone(), nil
}

func (e *Engine) moveTo(s State, stepID string) State {
	out := s.Clone()
	out.LastStepID = s.CurrentStepID
	out.CurrentStepID = stepID
	out.History = append(out.History, stepID)
	out.BackDepth = 0
	out.LastNavigationAt = e.now()
	e.log.Debug("navigated %s -> %s", s.CurrentStepID, stepID)
	return out
}

// priorEntry returns the history index previous moves to, or -1 at the
// first entry.
func priorEntry(s State) int {
	if s.BackDepth < 0 {
		return -1
	}
	return len(s.History) - 2 - 2*s.BackDepth
}

func (e *Engine) complete(s State) State {
	out := e.moveTo(s, s.CurrentStepID)
	at := out.LastNavigationAt
	out.Status = StatusCompleted
	out.CompletedAt = &at
	e.log.Info("quiz completed at step %s", s.CurrentStepID)
	return out
}

func (e *Engine) unknownStep(stepID string) error {
	return quiz.NewError(quiz.ErrUnknownStep,
		fmt.Sprintf("step %q does not exist in quiz %q", stepID, e.quiz.ID), nil,
		map[string]any{"id": stepID})
}
