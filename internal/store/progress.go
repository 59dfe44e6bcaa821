package store

import (
	"context"
	"database/sql"
	"fmt"
)

// ProgressRecord is the persisted shape of the gamification state.
// LastLessonDate is an ISO calendar date ("2006-01-02"), empty if no
// activity has been recorded yet.
type ProgressRecord struct {
	XP             int
	Streak         int
	LastLessonDate string
	LessonProgress map[string]int
}

// ProgressRepo persists the single local progress record.
type ProgressRepo interface {
	// Save writes the full record, replacing whatever was stored.
	Save(ctx context.Context, rec ProgressRecord) error

	// Load returns the stored record. A fresh database yields the
	// zero record, not an error.
	Load(ctx context.Context) (ProgressRecord, error)

	// Clear resets the stored record to the zero state.
	Clear(ctx context.Context) error
}

type progressRepo struct {
	db *sql.DB
}

func (r *progressRepo) Save(ctx context.Context, rec ProgressRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO progress (id, xp, streak, last_lesson_date) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET xp = excluded.xp, streak = excluded.streak,
		 last_lesson_date = excluded.last_lesson_date`,
		rec.XP, rec.Streak, rec.LastLessonDate,
	)
	if err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM lesson_progress`); err != nil {
		return fmt.Errorf("clear lesson progress: %w", err)
	}
	for slug, percent := range rec.LessonProgress {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO lesson_progress (slug, percent) VALUES (?, ?)`,
			slug, percent,
		)
		if err != nil {
			return fmt.Errorf("insert lesson progress %q: %w", slug, err)
		}
	}

	return tx.Commit()
}

func (r *progressRepo) Load(ctx context.Context) (ProgressRecord, error) {
	rec := ProgressRecord{LessonProgress: make(map[string]int)}

	row := r.db.QueryRowContext(ctx,
		`SELECT xp, streak, last_lesson_date FROM progress WHERE id = 1`)
	err := row.Scan(&rec.XP, &rec.Streak, &rec.LastLessonDate)
	if err == sql.ErrNoRows {
		return rec, nil
	}
	if err != nil {
		return rec, fmt.Errorf("load progress: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `SELECT slug, percent FROM lesson_progress`)
	if err != nil {
		return rec, fmt.Errorf("load lesson progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var slug string
		var percent int
		if err := rows.Scan(&slug, &percent); err != nil {
			return rec, fmt.Errorf("scan lesson progress: %w", err)
		}
		rec.LessonProgress[slug] = percent
	}
	return rec, rows.Err()
}

func (r *progressRepo) Clear(ctx context.Context) error {
	return r.Save(ctx, ProgressRecord{LessonProgress: map[string]int{}})
}
