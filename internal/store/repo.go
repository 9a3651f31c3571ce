package store

import (
	"context"
	"time"

	"github.com/abhisek/stepquiz/internal/navigation"
	"github.com/abhisek/stepquiz/internal/quiz"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	Before int64     // sequence < Before
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// QuizSummary is the listing view of a stored quiz.
type QuizSummary struct {
	ID        string
	Title     string
	StepCount int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// QuizRepo stores quiz definitions. Saves are last-write-wins.
type QuizRepo interface {
	// Save validates q and inserts or replaces it.
	Save(ctx context.Context, q quiz.Quiz) error

	// Get returns the validated quiz, or a QuizNotFound error.
	Get(ctx context.Context, id string) (quiz.Quiz, error)

	// List returns all quizzes, most recently updated first.
	List(ctx context.Context) ([]QuizSummary, error)

	// Delete removes the quiz with its sessions, events and revisions.
	Delete(ctx context.Context, id string) error
}

// Session is a persisted navigation state.
type Session struct {
	ID        string
	State     navigation.State
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SessionRepo stores navigation sessions.
type SessionRepo interface {
	// Create stores state under a fresh session id.
	Create(ctx context.Context, state navigation.State) (Session, error)

	// Save replaces the state of an existing session.
	Save(ctx context.Context, id string, state navigation.State) error

	// Get returns the session, or a SessionNotFound error.
	Get(ctx context.Context, id string) (Session, error)

	// ListByQuiz returns the sessions of quizID, newest first.
	ListByQuiz(ctx context.Context, quizID string) ([]Session, error)
}

// NavigationEventData captures one committed navigation transition.
type NavigationEventData struct {
	SessionID  string
	QuizID     string
	Intent     string
	FromStepID string
	ToStepID   string
	Completed  bool
}

// NavigationEvent is a stored NavigationEventData.
type NavigationEvent struct {
	ID        int64
	Sequence  int64
	Timestamp time.Time
	NavigationEventData
}

// EventRepo provides append access to the navigation event log.
type EventRepo interface {
	// AppendNavigation records a navigation transition.
	AppendNavigation(ctx context.Context, data NavigationEventData) error

	// ListNavigation returns the events of sessionID in sequence order.
	ListNavigation(ctx context.Context, sessionID string, opts QueryOpts) ([]NavigationEvent, error)
}

// Transactor groups session and event writes so a navigation step is stored
// whole or not at all.
type Transactor interface {
	WithTx(ctx context.Context, fn func(sessions SessionRepo, events EventRepo) error) error
}

// Revision is a saved copy of a quiz document.
type Revision struct {
	ID        int64
	QuizID    string
	Sequence  int64
	Timestamp time.Time
	Quiz      quiz.Quiz
}

// RevisionRepo manages quiz revisions.
type RevisionRepo interface {
	// Save stores a new revision of q.
	Save(ctx context.Context, q quiz.Quiz) (Revision, error)

	// Latest returns the most recent revision of quizID, or nil if none exist.
	Latest(ctx context.Context, quizID string) (*Revision, error)

	// List returns the revisions of quizID, newest first.
	List(ctx context.Context, quizID string) ([]Revision, error)

	// Get returns one revision of quizID by sequence.
	Get(ctx context.Context, quizID string, sequence int64) (Revision, error)

	// Prune deletes all but the keep most recent revisions of quizID.
	Prune(ctx context.Context, quizID string, keep int) error
}
