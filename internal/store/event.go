package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sequenceCounter hands out the global monotonic sequence shared by the
// navigation event log and quiz revisions, so entries from both tables can be
// ordered against each other.
//
// Uses raw SQL because ent's builders have no atomic counter. The mutex
// serializes within the process; the RETURNING clause makes the increment
// atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{}, nil
}

// Next atomically returns the next sequence number and increments the counter.
// The increment runs on db so it commits or rolls back with the caller's
// transaction.
func (sc *sequenceCounter) Next(ctx context.Context, db execer) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// eventRepo implements EventRepo on the navigation_events table.
type eventRepo struct {
	db  execer
	seq *sequenceCounter
}

func (r *eventRepo) AppendNavigation(ctx context.Context, data NavigationEventData) error {
	seqNum, err := r.seq.Next(ctx, r.db)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	ins := builder().Insert(eventsTable).
		Columns("sequence", "timestamp", "session_id", "quiz_id", "intent", "from_step_id", "to_step_id", "completed").
		Values(seqNum, time.Now().UTC(), data.SessionID, data.QuizID, data.Intent, data.FromStepID, data.ToStepID, data.Completed)
	if _, err := execQuery(ctx, r.db, ins); err != nil {
		return fmt.Errorf("save navigation event: %w", err)
	}
	return nil
}

func (r *eventRepo) ListNavigation(ctx context.Context, sessionID string, opts QueryOpts) ([]NavigationEvent, error) {
	sel := builder().Select("id", "sequence", "timestamp", "session_id", "quiz_id", "intent", "from_step_id", "to_step_id", "completed").
		From(entsql.Table(eventsTable)).
		Where(entsql.EQ("session_id", sessionID)).
		OrderBy("sequence")
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	rows, err := queryRows(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query navigation events: %w", err)
	}
	defer rows.Close()

	var out []NavigationEvent
	for rows.Next() {
		var e NavigationEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.SessionID, &e.QuizID,
			&e.Intent, &e.FromStepID, &e.ToStepID, &e.Completed); err != nil {
			return nil, fmt.Errorf("scan navigation event: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
