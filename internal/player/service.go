// Package player runs navigation sessions for end users: it loads a quiz
// through a QuizSource, drives the navigation engine and persists every
// committed transition.
package player

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/stepquiz/internal/logging"
	"github.com/abhisek/stepquiz/internal/navigation"
	"github.com/abhisek/stepquiz/internal/quiz"
	"github.com/abhisek/stepquiz/internal/store"
)

// QuizSource is the fetch-by-id contract. Get returns a validated quiz or a
// QuizNotFound error.
type QuizSource interface {
	Get(ctx context.Context, id string) (quiz.Quiz, error)
}

// Service wires quizzes, the navigation engine and persistence together.
type Service struct {
	quizzes  QuizSource
	sessions store.SessionRepo
	events   store.EventRepo
	tx       store.Transactor
	now      func() time.Time
	log      logging.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides time.Now for every engine the service builds.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Service) { s.log = logging.Normalize(l) }
}

// WithTransactor stores each transition's session state and event in one
// transaction.
func WithTransactor(tx store.Transactor) Option {
	return func(s *Service) { s.tx = tx }
}

// NewService returns a Service. events may be nil to skip the event log.
func NewService(quizzes QuizSource, sessions store.SessionRepo, events store.EventRepo, opts ...Option) *Service {
	s := &Service{
		quizzes:  quizzes,
		sessions: sessions,
		events:   events,
		now:      time.Now,
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot is what a renderer needs after every call.
type Snapshot struct {
	SessionID string
	QuizTitle string
	State     navigation.State
	Info      navigation.StepInfo
	Step      quiz.Step
}

// Start loads quizID and opens a new session on its first step. A missing or
// invalid quiz is fatal for the render and presents as not found.
func (s *Service) Start(ctx context.Context, quizID string) (Snapshot, error) {
	eng, err := s.engine(ctx, quizID)
	if err != nil {
		return Snapshot{}, err
	}
	state, err := eng.Start()
	if err != nil {
		return Snapshot{}, err
	}
	sess, err := s.sessions.Create(ctx, state)
	if err != nil {
		return Snapshot{}, fmt.Errorf("create session: %w", err)
	}
	s.log.WithFields(map[string]any{"quiz_id": quizID, "session_id": sess.ID}).
		Info("session started")
	return snapshot(eng, sess.ID, state)
}

// Send applies intent to the session. Engine errors are recoverable: the
// stored state is left untouched and the returned snapshot reflects it.
func (s *Service) Send(ctx context.Context, sessionID string, intent navigation.Intent) (Snapshot, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	eng, err := s.engine(ctx, sess.State.QuizID)
	if err != nil {
		return Snapshot{}, err
	}

	next, navErr := eng.Apply(sess.State, intent)
	if navErr != nil {
		s.log.WithFields(map[string]any{"session_id": sessionID, "intent": intent.String()}).
			Debug("intent rejected: %v", navErr)
		snap, err := snapshot(eng, sessionID, sess.State)
		if err != nil {
			return Snapshot{}, err
		}
		return snap, navErr
	}
	if len(next.History) == len(sess.State.History) {
		// Boundary no-op; nothing to persist.
		return snapshot(eng, sessionID, next)
	}

	event := store.NavigationEventData{
		SessionID:  sessionID,
		QuizID:     next.QuizID,
		Intent:     intent.String(),
		FromStepID: sess.State.CurrentStepID,
		ToStepID:   next.CurrentStepID,
		Completed:  next.Completed(),
	}
	if err := s.record(ctx, next, event); err != nil {
		return Snapshot{}, err
	}
	return snapshot(eng, sessionID, next)
}

// record persists a committed transition. With a Transactor the state and
// the event are written together.
func (s *Service) record(ctx context.Context, state navigation.State, event store.NavigationEventData) error {
	if s.tx == nil {
		return writeTransition(ctx, s.sessions, s.events, state, event)
	}
	return s.tx.WithTx(ctx, func(sessions store.SessionRepo, events store.EventRepo) error {
		return writeTransition(ctx, sessions, events, state, event)
	})
}

func writeTransition(ctx context.Context, sessions store.SessionRepo, events store.EventRepo, state navigation.State, event store.NavigationEventData) error {
	if err := sessions.Save(ctx, event.SessionID, state); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if events == nil {
		return nil
	}
	if err := events.AppendNavigation(ctx, event); err != nil {
		return fmt.Errorf("append navigation event: %w", err)
	}
	return nil
}

// Info re-derives the position summary; it works on completed sessions too.
func (s *Service) Info(ctx context.Context, sessionID string) (navigation.StepInfo, error) {
	snap, err := s.Session(ctx, sessionID)
	if err != nil {
		return navigation.StepInfo{}, err
	}
	return snap.Info, nil
}

// Session loads the current snapshot of sessionID.
func (s *Service) Session(ctx context.Context, sessionID string) (Snapshot, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return Snapshot{}, err
	}
	eng, err := s.engine(ctx, sess.State.QuizID)
	if err != nil {
		return Snapshot{}, err
	}
	return snapshot(eng, sessionID, sess.State)
}

func (s *Service) engine(ctx context.Context, quizID string) (*navigation.Engine, error) {
	q, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	return navigation.NewEngine(q,
		navigation.WithClock(s.now),
		navigation.WithLogger(s.log),
	)
}

func snapshot(eng *navigation.Engine, sessionID string, state navigation.State) (Snapshot, error) {
	info, err := eng.Info(state)
	if err != nil {
		return Snapshot{}, err
	}
	step, err := eng.CurrentStep(state)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		SessionID: sessionID,
		QuizTitle: eng.Quiz().Title,
		State:     state,
		Info:      info,
		Step:      step,
	}, nil
}
