package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/artgalerie/gallery-api/internal/model"
)

// ArtworkRepo provides CRUD operations for artworks.  quantity_available
// is deliberately absent from Update: the only writer of that column is
// SetAvailabilityTx, called by the inventory service.  All timestamps are
// stored in UTC.
type ArtworkRepo struct {
	db *sql.DB
}

// NewArtworkRepo returns a new ArtworkRepo bound to the given database.
func NewArtworkRepo(db *sql.DB) *ArtworkRepo { return &ArtworkRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning artworks and reservations.
func (r *ArtworkRepo) DB() *sql.DB { return r.db }

const artworkCols = `id, title, description, image_url, price, quantity_initial, quantity_available, color_palette, created_at, updated_at`

// scanArtwork reads one artwork row from a row scanner.
func scanArtwork(row interface{ Scan(...any) error }) (*model.Artwork, error) {
	var a model.Artwork
	var imageURL sql.NullString
	var palette sql.NullString
	err := row.Scan(&a.ID, &a.Title, &a.Description, &imageURL, &a.Price,
		&a.QuantityInitial, &a.QuantityAvailable, &palette, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if imageURL.Valid {
		u := imageURL.String
		a.ImageURL = &u
	}
	if palette.Valid && palette.String != "" {
		// color_palette is stored as a JSON array of hex strings
		_ = json.Unmarshal([]byte(palette.String), &a.ColorPalette)
	}
	return &a, nil
}

// Create inserts a new artwork.  The initial stock is captured here and
// quantity_available starts equal to quantity_initial.  The generated ID
// and timestamps are populated on the provided struct.
func (r *ArtworkRepo) Create(ctx context.Context, a *model.Artwork) error {
	const q = `INSERT INTO artworks (title, description, image_url, price, quantity_initial, quantity_available)
			   VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.Title, a.Description, a.ImageURL, a.Price,
		a.QuantityInitial, a.QuantityInitial)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	fresh, err := r.GetByID(ctx, a.ID)
	if err != nil {
		return err
	}
	*a = *fresh
	return nil
}

// GetByID fetches an artwork by id, returning ErrArtworkNotFound when
// no such row exists.
func (r *ArtworkRepo) GetByID(ctx context.Context, id uint64) (*model.Artwork, error) {
	const q = `SELECT ` + artworkCols + ` FROM artworks WHERE id = ?`
	a, err := scanArtwork(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtworkNotFound
	}
	return a, err
}

// List returns all artworks, newest first.
func (r *ArtworkRepo) List(ctx context.Context) ([]model.Artwork, error) {
	const q = `SELECT ` + artworkCols + ` FROM artworks ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := make([]model.Artwork, 0)
	for rows.Next() {
		a, err := scanArtwork(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	return items, rows.Err()
}

// Update persists the display fields of an artwork.  Stock columns are
// never touched here: quantity_initial is immutable and
// quantity_available belongs to the inventory service.
func (r *ArtworkRepo) Update(ctx context.Context, a *model.Artwork) error {
	const q = `UPDATE artworks SET title = ?, description = ?, image_url = ?, price = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, a.Title, a.Description, a.ImageURL, a.Price, a.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish "no change" from "no row"
		var exists int
		if err := r.db.QueryRowContext(ctx, `SELECT 1 FROM artworks WHERE id = ?`, a.ID).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrArtworkNotFound
			}
			return err
		}
	}
	return nil
}

// Delete removes an artwork.  The foreign keys cascade, so the
// artwork's reservations and comments disappear with it.
func (r *ArtworkRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM artworks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrArtworkNotFound
	}
	return nil
}

// SetColorPalette stores the AI-extracted palette as a JSON array.
func (r *ArtworkRepo) SetColorPalette(ctx context.Context, id uint64, palette []string) error {
	raw, err := json.Marshal(palette)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `UPDATE artworks SET color_palette = ? WHERE id = ?`, string(raw), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrArtworkNotFound
	}
	return nil
}

// StockForUpdateTx locks the artwork row within the given transaction
// and returns its stock counters.  The lock serializes concurrent
// admission checks against the same artwork.
func (r *ArtworkRepo) StockForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (initial uint32, available int32, err error) {
	const q = `SELECT quantity_initial, quantity_available FROM artworks WHERE id = ? FOR UPDATE`
	err = tx.QueryRowContext(ctx, q, id).Scan(&initial, &available)
	if errors.Is(err, sql.ErrNoRows) {
		err = ErrArtworkNotFound
	}
	return initial, available, err
}

// SetAvailabilityTx writes the recomputed quantity_available inside a
// transaction.  This is the single write path for that column.
func (r *ArtworkRepo) SetAvailabilityTx(ctx context.Context, tx *sql.Tx, id uint64, available int32) error {
	res, err := tx.ExecContext(ctx, `UPDATE artworks SET quantity_available = ? WHERE id = ?`, available, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// the artwork may have been deleted concurrently; treat the row
		// as gone rather than silently succeeding
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT 1 FROM artworks WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrArtworkNotFound
			}
			return err
		}
	}
	return nil
}
