package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/stepquiz/internal/navigation"
	"github.com/abhisek/stepquiz/internal/quiz"
)

// sessionRepo implements SessionRepo on the navigation_sessions table.
type sessionRepo struct {
	db execer
}

var sessionColumns = []string{"id", "state", "created_at", "updated_at"}

func (r *sessionRepo) Create(ctx context.Context, state navigation.State) (Session, error) {
	doc, err := json.Marshal(state)
	if err != nil {
		return Session{}, fmt.Errorf("marshal navigation state: %w", err)
	}

	now := time.Now().UTC()
	sess := Session{ID: quiz.NewID(), State: state.Clone(), CreatedAt: now, UpdatedAt: now}
	ins := builder().Insert(sessionsTable).
		Columns("id", "quiz_id", "status", "current_step_id", "state", "created_at", "updated_at").
		Values(sess.ID, state.QuizID, string(state.Status), state.CurrentStepID, string(doc), now, now)
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	return sess, nil
}

func (r *sessionRepo) Save(ctx context.Context, id string, state navigation.State) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal navigation state: %w", err)
	}

	upd := builder().Update(sessionsTable).
		Set("status", string(state.Status)).
		Set("current_step_id", state.CurrentStepID).
		Set("state", string(doc)).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.EQ("id", id))
	res, err := execQuery(ctx, r.db, upd)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if n == 0 {
		return sessionNotFound(id)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, id string) (Session, error) {
	sel := builder().Select(sessionColumns...).
		From(entsql.Table(sessionsTable)).
		Where(entsql.EQ("id", id))

	sess, err := scanSession(queryRow(ctx, r.db, sel))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Session{}, sessionNotFound(id)
		}
		return Session{}, fmt.Errorf("query session: %w", err)
	}
	return sess, nil
}

func (r *sessionRepo) ListByQuiz(ctx context.Context, quizID string) ([]Session, error) {
	sel := builder().Select(sessionColumns...).
		From(entsql.Table(sessionsTable)).
		Where(entsql.EQ("quiz_id", quizID)).
		OrderBy(entsql.Desc("created_at"), "id")

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var (
		sess Session
		doc  string
	)
	if err := row.Scan(&sess.ID, &doc, &sess.CreatedAt, &sess.UpdatedAt); err != nil {
		return Session{}, err
	}
	if err := json.Unmarshal([]byte(doc), &sess.State); err != nil {
		return Session{}, fmt.Errorf("unmarshal navigation state: %w", err)
	}
	return sess, nil
}

func sessionNotFound(id string) error {
	return quiz.NewError(quiz.ErrSessionNotFound,
		fmt.Sprintf("navigation session %q not found", id), nil,
		map[string]any{"id": id})
}
