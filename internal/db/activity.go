package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"courtbook/internal/events"
)

// Activity is one journal row.
type Activity struct {
	ID      string
	At      time.Time
	Kind    string
	Subject string
	Detail  string
}

const recordTimeout = 5 * time.Second

// Record stores an event. Its signature matches events.Handler so the
// journal can subscribe to the bus directly.
func (db *DB) Record(e events.Event) error {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	return db.RecordContext(ctx, e)
}

func (db *DB) RecordContext(ctx context.Context, e events.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO activity (id, at, kind, subject, detail)
		VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UTC(), string(e.Type), e.Subject, e.Detail)
	if err != nil {
		return fmt.Errorf("record %s: %w", e.Type, err)
	}
	return nil
}

// ListActivity returns journal rows newest first. limit <= 0 means all.
func (db *DB) ListActivity(ctx context.Context, limit int) ([]Activity, error) {
	query := `SELECT id, at, kind, subject, detail FROM activity ORDER BY at DESC, id`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Activity
	for rows.Next() {
		var a Activity
		if err := rows.Scan(&a.ID, &a.At, &a.Kind, &a.Subject, &a.Detail); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// PruneActivity deletes rows older than the given age and reports how many
// went.
func (db *DB) PruneActivity(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().Add(-olderThan).UTC()
	res, err := db.ExecContext(ctx, `DELETE FROM activity WHERE at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
