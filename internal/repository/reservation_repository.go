package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/artgalerie/gallery-api/internal/model"
)

// ReservationRepo provides CRUD operations for reservations and the
// active-quantity aggregate the inventory recompute is built on.  All
// timestamp fields are stored in UTC.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a new ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// DB exposes the underlying handle for transaction management.
func (r *ReservationRepo) DB() *sql.DB { return r.db }

const reservationCols = `id, artwork_id, full_name, email, phone, address, quantity, notes, status, created_at, updated_at`

func scanReservation(row interface{ Scan(...any) error }) (*model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.ArtworkID, &res.FullName, &res.Email, &res.Phone,
		&res.Address, &res.Quantity, &res.Notes, &res.Status, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// CreateTx inserts a new reservation within the scope of an existing
// transaction and populates the generated ID and defaults on the
// provided struct.  The caller must commit or rollback the transaction.
func (r *ReservationRepo) CreateTx(ctx context.Context, tx *sql.Tx, res *model.Reservation) error {
	const q = `INSERT INTO reservations (artwork_id, full_name, email, phone, address, quantity, notes, status)
			   VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, q, res.ArtworkID, res.FullName, res.Email, res.Phone,
		res.Address, res.Quantity, res.Notes, res.Status)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults
	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	fresh, err := scanReservation(tx.QueryRowContext(ctx, sel, res.ID))
	if err != nil {
		return err
	}
	*res = *fresh
	return nil
}

// GetByID fetches a reservation by id, returning ErrReservationNotFound
// when no such row exists.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	return res, err
}

// ReservationDetail pairs a reservation with its artwork for display,
// matching the shape clients expect when listing reservations.
type ReservationDetail struct {
	model.Reservation
	Artwork model.Artwork `json:"artwork"`
}

// List returns all reservations joined with their artwork, newest
// first.  When none exist an empty slice is returned.
func (r *ReservationRepo) List(ctx context.Context) ([]ReservationDetail, error) {
	const q = `SELECT r.id, r.artwork_id, r.full_name, r.email, r.phone, r.address,
					  r.quantity, r.notes, r.status, r.created_at, r.updated_at,
					  a.id, a.title, a.description, a.image_url, a.price,
					  a.quantity_initial, a.quantity_available, a.created_at, a.updated_at
			   FROM reservations r
			   JOIN artworks a ON a.id = r.artwork_id
			   ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	details := make([]ReservationDetail, 0)
	for rows.Next() {
		var d ReservationDetail
		var imageURL sql.NullString
		if err := rows.Scan(
			&d.ID, &d.ArtworkID, &d.FullName, &d.Email, &d.Phone, &d.Address,
			&d.Quantity, &d.Notes, &d.Status, &d.CreatedAt, &d.UpdatedAt,
			&d.Artwork.ID, &d.Artwork.Title, &d.Artwork.Description, &imageURL, &d.Artwork.Price,
			&d.Artwork.QuantityInitial, &d.Artwork.QuantityAvailable,
			&d.Artwork.CreatedAt, &d.Artwork.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if imageURL.Valid {
			u := imageURL.String
			d.Artwork.ImageURL = &u
		}
		details = append(details, d)
	}
	return details, rows.Err()
}

// Update persists the mutable fields of a reservation.  The caller is
// responsible for merging partial updates into the struct first and
// for triggering the availability recompute afterwards.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations SET full_name = ?, email = ?, phone = ?, address = ?,
					  quantity = ?, notes = ?, status = ? WHERE id = ?`
	out, err := r.db.ExecContext(ctx, q, res.FullName, res.Email, res.Phone, res.Address,
		res.Quantity, res.Notes, res.Status, res.ID)
	if err != nil {
		return err
	}
	if n, err := out.RowsAffected(); err == nil && n == 0 {
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM reservations WHERE id = ?`, res.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrReservationNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes a reservation entirely (hard delete, no tombstone).
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// SumActiveByArtworkTx returns the total quantity claimed by every
// reservation against the artwork whose status is not "cancelled".
// This aggregate, not any stored counter, is the source of truth for
// quantity_available.
func (r *ReservationRepo) SumActiveByArtworkTx(ctx context.Context, tx *sql.Tx, artworkID uint64) (int64, error) {
	const q = `SELECT COALESCE(SUM(quantity), 0) FROM reservations
			   WHERE artwork_id = ? AND status <> 'cancelled'`
	var sum int64
	err := tx.QueryRowContext(ctx, q, artworkID).Scan(&sum)
	return sum, err
}
