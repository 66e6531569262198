package repository

import (
	"context"
	"database/sql"

	"github.com/artgalerie/gallery-api/internal/model"
)

// RegistrationRepo stores participant registrations for events and
// workshops.  Exactly one of event_id / workshop_id is set per row.
type RegistrationRepo struct {
	db *sql.DB
}

func NewRegistrationRepo(db *sql.DB) *RegistrationRepo { return &RegistrationRepo{db: db} }

const registrationCols = `id, event_id, workshop_id, full_name, email, phone, created_at`

func scanRegistration(row interface{ Scan(...any) error }) (*model.Registration, error) {
	var reg model.Registration
	var eventID, workshopID sql.NullInt64
	err := row.Scan(&reg.ID, &eventID, &workshopID, &reg.FullName, &reg.Email, &reg.Phone, &reg.CreatedAt)
	if err != nil {
		return nil, err
	}
	if eventID.Valid {
		v := uint64(eventID.Int64)
		reg.EventID = &v
	}
	if workshopID.Valid {
		v := uint64(workshopID.Int64)
		reg.WorkshopID = &v
	}
	return &reg, nil
}

func (r *RegistrationRepo) Create(ctx context.Context, reg *model.Registration) error {
	const q = `INSERT INTO registrations (event_id, workshop_id, full_name, email, phone)
			   VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, reg.EventID, reg.WorkshopID, reg.FullName, reg.Email, reg.Phone)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	reg.ID = uint64(id)
	const sel = `SELECT ` + registrationCols + ` FROM registrations WHERE id = ?`
	fresh, err := scanRegistration(r.db.QueryRowContext(ctx, sel, reg.ID))
	if err != nil {
		return err
	}
	*reg = *fresh
	return nil
}

// List returns all registrations, newest first.
func (r *RegistrationRepo) List(ctx context.Context) ([]model.Registration, error) {
	const q = `SELECT ` + registrationCols + ` FROM registrations ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *reg)
	}
	return items, rows.Err()
}

// CountByEvent returns how many registrations exist for an event.
func (r *RegistrationRepo) CountByEvent(ctx context.Context, eventID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE event_id = ?`, eventID).Scan(&n)
	return n, err
}

// CountByWorkshop returns how many registrations exist for a workshop.
func (r *RegistrationRepo) CountByWorkshop(ctx context.Context, workshopID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM registrations WHERE workshop_id = ?`, workshopID).Scan(&n)
	return n, err
}

func (r *RegistrationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM registrations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRegistrationNotFound
	}
	return nil
}
