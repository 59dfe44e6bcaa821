package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SessionRecord is the persisted auth session: the signed-in user and
// the bearer token issued by the backend at login.
type SessionRecord struct {
	UserID int
	Name   string
	Email  string
	Token  string
}

// SessionRepo persists the single local auth session.
type SessionRepo interface {
	// Save stores the session, replacing any existing one.
	Save(ctx context.Context, rec SessionRecord) error

	// Load returns the stored session, or nil if not signed in.
	Load(ctx context.Context) (*SessionRecord, error)

	// Clear removes the stored session.
	Clear(ctx context.Context) error
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, rec SessionRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO session (id, user_id, name, email, token) VALUES (1, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id, name = excluded.name,
		 email = excluded.email, token = excluded.token`,
		rec.UserID, rec.Name, rec.Email, rec.Token,
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context) (*SessionRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT user_id, name, email, token FROM session WHERE id = 1`)

	var rec SessionRecord
	err := row.Scan(&rec.UserID, &rec.Name, &rec.Email, &rec.Token)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &rec, nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
