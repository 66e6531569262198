package repository

import (
	"context"
	"database/sql"

	"github.com/artgalerie/gallery-api/internal/model"
)

// RatingRepo stores 1-5 star reviews attached to events.
type RatingRepo struct {
	db *sql.DB
}

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Create inserts a rating for an event and populates the generated ID
// and timestamp.
func (r *RatingRepo) Create(ctx context.Context, rt *model.Rating) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO ratings (event_id, value, comment) VALUES (?, ?, ?)`,
		rt.EventID, rt.Value, rt.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rt.ID = uint64(id)
	return r.db.QueryRowContext(ctx,
		`SELECT id, event_id, value, comment, created_at FROM ratings WHERE id = ?`, rt.ID).
		Scan(&rt.ID, &rt.EventID, &rt.Value, &rt.Comment, &rt.CreatedAt)
}

// ListByEvent returns all ratings for an event, newest first.
func (r *RatingRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Rating, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, event_id, value, comment, created_at FROM ratings
		 WHERE event_id = ? ORDER BY created_at DESC`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Rating, 0)
	for rows.Next() {
		var rt model.Rating
		if err := rows.Scan(&rt.ID, &rt.EventID, &rt.Value, &rt.Comment, &rt.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, rt)
	}
	return items, rows.Err()
}
