package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artgalerie/gallery-api/internal/model"
)

// WorkshopRepo provides CRUD operations for workshops.
type WorkshopRepo struct {
	db *sql.DB
}

func NewWorkshopRepo(db *sql.DB) *WorkshopRepo { return &WorkshopRepo{db: db} }

const workshopCols = `id, title, description, start_date, end_date, location, image_url,
	   capacity, price, level, duration_minutes, materials_provided, instructor,
	   created_at, updated_at`

func scanWorkshop(row interface{ Scan(...any) error }) (*model.Workshop, error) {
	var w model.Workshop
	var imageURL sql.NullString
	err := row.Scan(&w.ID, &w.Title, &w.Description, &w.StartDate, &w.EndDate, &w.Location,
		&imageURL, &w.Capacity, &w.Price, &w.Level, &w.DurationMinutes,
		&w.MaterialsProvided, &w.Instructor, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		u := imageURL.String
		w.ImageURL = &u
	}
	return &w, nil
}

func (r *WorkshopRepo) Create(ctx context.Context, w *model.Workshop) error {
	const q = `INSERT INTO workshops (title, description, start_date, end_date, location, image_url,
					   capacity, price, level, duration_minutes, materials_provided, instructor)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, w.Title, w.Description, w.StartDate, w.EndDate,
		w.Location, w.ImageURL, w.Capacity, w.Price, w.Level, w.DurationMinutes,
		w.MaterialsProvided, w.Instructor)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	w.ID = uint64(id)
	fresh, err := r.GetByID(ctx, w.ID)
	if err != nil {
		return err
	}
	*w = *fresh
	return nil
}

func (r *WorkshopRepo) GetByID(ctx context.Context, id uint64) (*model.Workshop, error) {
	const q = `SELECT ` + workshopCols + ` FROM workshops WHERE id = ?`
	w, err := scanWorkshop(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrWorkshopNotFound
	}
	return w, err
}

func (r *WorkshopRepo) List(ctx context.Context) ([]model.Workshop, error) {
	const q = `SELECT ` + workshopCols + ` FROM workshops ORDER BY start_date ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Workshop, 0)
	for rows.Next() {
		w, err := scanWorkshop(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *w)
	}
	return items, rows.Err()
}

func (r *WorkshopRepo) Update(ctx context.Context, w *model.Workshop) error {
	const q = `UPDATE workshops SET title = ?, description = ?, start_date = ?, end_date = ?,
					  location = ?, image_url = ?, capacity = ?, price = ?, level = ?,
					  duration_minutes = ?, materials_provided = ?, instructor = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, w.Title, w.Description, w.StartDate, w.EndDate,
		w.Location, w.ImageURL, w.Capacity, w.Price, w.Level, w.DurationMinutes,
		w.MaterialsProvided, w.Instructor, w.ID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM workshops WHERE id = ?`, w.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrWorkshopNotFound
			}
			return err
		}
	}
	return nil
}

func (r *WorkshopRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workshops WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrWorkshopNotFound
	}
	return nil
}
