package repository

import (
	"context"
	"database/sql"
	"time"
)

// ResetRepo persists short-lived 8-digit password reset codes.  A code
// is single-use: consuming it marks the row used.
type ResetRepo struct{ DB *sql.DB }

func NewResetRepo(db *sql.DB) *ResetRepo { return &ResetRepo{DB: db} }

// Store saves a reset code for a user.
func (r *ResetRepo) Store(ctx context.Context, userID uint64, code string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token, expires_at) VALUES (?,?,?)",
		userID, code, exp)
	return err
}

// Consume validates a code and marks it used, returning the owning user
// ID.  Expired, unknown or already-used codes yield sql.ErrNoRows.
func (r *ResetRepo) Consume(ctx context.Context, code string) (uint64, error) {
	var (
		id        uint64
		userID    uint64
		expiresAt time.Time
		usedAt    sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, expires_at, used_at FROM password_reset_tokens WHERE token=? LIMIT 1",
		code).Scan(&id, &userID, &expiresAt, &usedAt)
	if err != nil {
		return 0, err
	}
	if usedAt.Valid || time.Now().UTC().After(expiresAt) {
		return 0, sql.ErrNoRows
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE password_reset_tokens SET used_at=NOW() WHERE id=?", id); err != nil {
		return 0, err
	}
	return userID, nil
}
