package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artgalerie/gallery-api/internal/model"
)

// EventRepo provides CRUD operations for events.  average_rating is
// always derived from the ratings table at query time.
type EventRepo struct {
	db *sql.DB
}

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventSelect = `SELECT e.id, e.title, e.description, e.start_date, e.end_date, e.location,
	   e.image_url, e.capacity, e.price,
	   COALESCE(AVG(rt.value), 0),
	   e.created_at, e.updated_at
FROM events e
LEFT JOIN ratings rt ON rt.event_id = e.id`

func scanEvent(row interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var imageURL sql.NullString
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.StartDate, &e.EndDate, &e.Location,
		&imageURL, &e.Capacity, &e.Price, &e.AverageRating, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		u := imageURL.String
		e.ImageURL = &u
	}
	return &e, nil
}

func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	const q = `INSERT INTO events (title, description, start_date, end_date, location, image_url, capacity, price)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, e.Title, e.Description, e.StartDate, e.EndDate,
		e.Location, e.ImageURL, e.Capacity, e.Price)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	fresh, err := r.GetByID(ctx, e.ID)
	if err != nil {
		return err
	}
	*e = *fresh
	return nil
}

func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	q := eventSelect + ` WHERE e.id = ? GROUP BY e.id`
	e, err := scanEvent(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	return e, err
}

func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	q := eventSelect + ` GROUP BY e.id ORDER BY e.start_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

func (r *EventRepo) Update(ctx context.Context, e *model.Event) error {
	const q = `UPDATE events SET title = ?, description = ?, start_date = ?, end_date = ?,
					  location = ?, image_url = ?, capacity = ?, price = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, e.Title, e.Description, e.StartDate, e.EndDate,
		e.Location, e.ImageURL, e.Capacity, e.Price, e.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM events WHERE id = ?`, e.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrEventNotFound
			}
			return err
		}
	}
	return nil
}

func (r *EventRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}
