package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/stepquiz/internal/quiz"
)

// quizRepo implements QuizRepo on the quizzes table.
type quizRepo struct {
	db execer
}

func (r *quizRepo) Save(ctx context.Context, q quiz.Quiz) error {
	q = quiz.Normalize(q)
	if err := quiz.Validate(q); err != nil {
		return err
	}
	doc, err := quiz.Marshal(q)
	if err != nil {
		return fmt.Errorf("marshal quiz: %w", err)
	}

	now := time.Now().UTC()
	ins := builder().Insert(quizzesTable).
		Columns("id", "title", "step_count", "document", "created_at", "updated_at").
		Values(q.ID, q.Title, len(q.Steps), string(doc), now, now).
		OnConflict(
			entsql.ConflictColumns("id"),
			entsql.ResolveWith(func(u *entsql.UpdateSet) {
				u.SetExcluded("title")
				u.SetExcluded("step_count")
				u.SetExcluded("document")
				u.SetExcluded("updated_at")
			}),
		)
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save quiz: %w", err)
	}
	return nil
}

func (r *quizRepo) Get(ctx context.Context, id string) (quiz.Quiz, error) {
	sel := builder().Select("document").
		From(entsql.Table(quizzesTable)).
		Where(entsql.EQ("id", id))

	var doc string
	if err := queryRow(ctx, r.db, sel).Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return quiz.Quiz{}, quizNotFound(id)
		}
		return quiz.Quiz{}, fmt.Errorf("query quiz: %w", err)
	}

	q, err := quiz.ParseJSON([]byte(doc))
	if err != nil {
		return quiz.Quiz{}, fmt.Errorf("decode quiz %s: %w", id, err)
	}
	return q, nil
}

func (r *quizRepo) List(ctx context.Context) ([]QuizSummary, error) {
	sel := builder().Select("id", "title", "step_count", "created_at", "updated_at").
		From(entsql.Table(quizzesTable)).
		OrderBy(entsql.Desc("updated_at"), "id")

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	defer rows.Close()

	var out []QuizSummary
	for rows.Next() {
		var s QuizSummary
		if err := rows.Scan(&s.ID, &s.Title, &s.StepCount, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *quizRepo) Delete(ctx context.Context, id string) error {
	del := builder().Delete(quizzesTable).Where(entsql.EQ("id", id))
	res, err := execQuery(ctx, r.db, del)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if n == 0 {
		return quizNotFound(id)
	}
	return nil
}

func quizNotFound(id string) error {
	return quiz.NewError(quiz.ErrQuizNotFound,
		fmt.Sprintf("quiz %q not found", id), nil,
		map[string]any{"id": id})
}
