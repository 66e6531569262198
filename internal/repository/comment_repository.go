package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artgalerie/gallery-api/internal/model"
)

// CommentRepo stores visitor comments on artworks together with their
// moderation state.
type CommentRepo struct {
	db *sql.DB
}

func NewCommentRepo(db *sql.DB) *CommentRepo { return &CommentRepo{db: db} }

const commentCols = `id, artwork_id, author_name, content, status, moderation_reason, created_at`

func scanComment(row interface{ Scan(...any) error }) (*model.Comment, error) {
	var c model.Comment
	var reason sql.NullString
	err := row.Scan(&c.ID, &c.ArtworkID, &c.AuthorName, &c.Content, &c.Status, &reason, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reason.Valid {
		s := reason.String
		c.ModerationReason = &s
	}
	return &c, nil
}

// Create inserts a comment with its initial moderation state.
func (r *CommentRepo) Create(ctx context.Context, c *model.Comment) error {
	const q = `INSERT INTO comments (artwork_id, author_name, content, status, moderation_reason)
			   VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, c.ArtworkID, c.AuthorName, c.Content, c.Status, c.ModerationReason)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	fresh, err := r.GetByID(ctx, c.ID)
	if err != nil {
		return err
	}
	*c = *fresh
	return nil
}

func (r *CommentRepo) GetByID(ctx context.Context, id uint64) (*model.Comment, error) {
	const q = `SELECT ` + commentCols + ` FROM comments WHERE id = ?`
	c, err := scanComment(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCommentNotFound
	}
	return c, err
}

// List returns comments newest first; when artworkID is non-zero only
// comments on that artwork are returned.
func (r *CommentRepo) List(ctx context.Context, artworkID uint64) ([]model.Comment, error) {
	q := `SELECT ` + commentCols + ` FROM comments`
	args := []any{}
	if artworkID != 0 {
		q += ` WHERE artwork_id = ?`
		args = append(args, artworkID)
	}
	q += ` ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	return items, rows.Err()
}

// SetModeration applies a moderation decision to a comment.
func (r *CommentRepo) SetModeration(ctx context.Context, id uint64, status string, reason *string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET status = ?, moderation_reason = ? WHERE id = ?`, status, reason, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM comments WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrCommentNotFound
			}
			return err
		}
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCommentNotFound
	}
	return nil
}
