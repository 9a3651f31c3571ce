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

// revisionRepo implements RevisionRepo on the quiz_revisions table.
type revisionRepo struct {
	db  execer
	seq *sequenceCounter
}

var revisionColumns = []string{"id", "quiz_id", "sequence", "timestamp", "document"}

func (r *revisionRepo) Save(ctx context.Context, q quiz.Quiz) (Revision, error) {
	q = quiz.Normalize(q)
	if err := quiz.Validate(q); err != nil {
		return Revision{}, err
	}
	doc, err := quiz.Marshal(q)
	if err != nil {
		return Revision{}, fmt.Errorf("marshal revision: %w", err)
	}
	seqNum, err := r.seq.Next(ctx, r.db)
	if err != nil {
		return Revision{}, fmt.Errorf("next sequence: %w", err)
	}

	rev := Revision{QuizID: q.ID, Sequence: seqNum, Timestamp: time.Now().UTC(), Quiz: q.Clone()}
	ins := builder().Insert(revisionsTable).
		Columns("quiz_id", "sequence", "timestamp", "document").
		Values(rev.QuizID, rev.Sequence, rev.Timestamp, string(doc))
	res, err := execQuery(ctx, r.db, ins)
	if err != nil {
		return Revision{}, fmt.Errorf("save revision: %w", err)
	}
	if rev.ID, err = res.LastInsertId(); err != nil {
		return Revision{}, fmt.Errorf("save revision: %w", err)
	}
	return rev, nil
}

func (r *revisionRepo) Latest(ctx context.Context, quizID string) (*Revision, error) {
	revs, err := r.query(ctx, quizID, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(revs) == 0 {
		return nil, nil
	}
	return &revs[0], nil
}

func (r *revisionRepo) List(ctx context.Context, quizID string) ([]Revision, error) {
	return r.query(ctx, quizID, 0, 0)
}

func (r *revisionRepo) Get(ctx context.Context, quizID string, sequence int64) (Revision, error) {
	sel := builder().Select(revisionColumns...).
		From(entsql.Table(revisionsTable)).
		Where(entsql.And(entsql.EQ("quiz_id", quizID), entsql.EQ("sequence", sequence)))

	rev, err := scanRevision(queryRow(ctx, r.db, sel))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Revision{}, quiz.NewError(quiz.ErrQuizNotFound,
				fmt.Sprintf("quiz %q has no revision %d", quizID, sequence), nil,
				map[string]any{"id": quizID, "sequence": sequence})
		}
		return Revision{}, fmt.Errorf("query revision: %w", err)
	}
	return rev, nil
}

func (r *revisionRepo) Prune(ctx context.Context, quizID string, keep int) error {
	// Find the newest revision past the keep window.
	revs, err := r.query(ctx, quizID, 1, keep)
	if err != nil {
		return fmt.Errorf("query revisions for prune: %w", err)
	}
	if len(revs) == 0 {
		return nil // fewer than keep revisions exist
	}

	del := builder().Delete(revisionsTable).
		Where(entsql.And(
			entsql.EQ("quiz_id", quizID),
			entsql.LTE("sequence", revs[0].Sequence),
		))
	if _, err := execQuery(ctx, r.db, del); err != nil {
		return fmt.Errorf("prune revisions: %w", err)
	}
	return nil
}

func (r *revisionRepo) query(ctx context.Context, quizID string, limit, offset int) ([]Revision, error) {
	sel := builder().Select(revisionColumns...).
		From(entsql.Table(revisionsTable)).
		Where(entsql.EQ("quiz_id", quizID)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	if offset > 0 {
		sel.Offset(offset)
	}

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query revisions: %w", err)
	}
	defer rows.Close()

	var out []Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func scanRevision(row scanner) (Revision, error) {
	var (
		rev Revision
		doc string
	)
	if err := row.Scan(&rev.ID, &rev.QuizID, &rev.Sequence, &rev.Timestamp, &doc); err != nil {
		return Revision{}, err
	}
	q, err := quiz.ParseJSON([]byte(doc))
	if err != nil {
		return Revision{}, fmt.Errorf("decode revision %d: %w", rev.Sequence, err)
	}
	rev.Quiz = q
	return rev, nil
}
