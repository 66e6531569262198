// Package inventory keeps an artwork's displayed availability consistent
// with the set of active reservations against it.  It is the single
// write path for artworks.quantity_available: handlers never touch that
// column, they go through Reserve or Recompute.
package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/artgalerie/gallery-api/internal/model"
	"github.com/artgalerie/gallery-api/internal/repository"
)

// ErrInsufficientStock is returned when a reservation requests more
// units than the artwork currently has available.  Handlers translate
// it into a 409 response with the wrapped detail message.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvalidQuantity is returned when a reservation requests zero
// units.  Quantity must always be a positive integer.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Service ties artworks and reservations together.  Both repositories
// share one *sql.DB, so a transaction opened here spans both tables.
type Service struct {
	artworks     *repository.ArtworkRepo
	reservations *repository.ReservationRepo
}

// New constructs the inventory service.  Both dependencies must be non-nil.
func New(artworks *repository.ArtworkRepo, reservations *repository.ReservationRepo) *Service {
	if artworks == nil || reservations == nil {
		panic("nil repository passed to inventory.New")
	}
	return &Service{artworks: artworks, reservations: reservations}
}

// Reserve admits a new reservation against the artwork's current stock.
// The whole check-then-insert sequence runs in one transaction holding
// a row lock on the artwork, so two concurrent reservations can never
// both pass the check against the same stale availability.  On success
// the reservation is persisted with status "pending" and the artwork's
// availability is recomputed before the transaction commits.
func (s *Service) Reserve(ctx context.Context, res *model.Reservation) error {
	if res.Quantity == 0 {
		return ErrInvalidQuantity
	}
	tx, err := s.artworks.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	initial, available, err := s.artworks.StockForUpdateTx(ctx, tx, res.ArtworkID)
	if err != nil {
		return err
	}
	if int64(res.Quantity) > int64(available) {
		return fmt.Errorf("%w: requested %d, available %d", ErrInsufficientStock, res.Quantity, available)
	}

	res.Status = model.ReservationPending
	if err := s.reservations.CreateTx(ctx, tx, res); err != nil {
		return err
	}
	if err := s.recomputeTx(ctx, tx, res.ArtworkID, initial); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Recompute derives quantity_available from quantity_initial minus the
// sum of active reservations and persists it.  Callers invoke it after
// every reservation status change or deletion.  The subtract-then-save
// is atomic: on any failure nothing is written.  Running it twice with
// no intervening change yields the same value.
func (s *Service) Recompute(ctx context.Context, artworkID uint64) error {
	tx, err := s.artworks.DB().BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	initial, _, err := s.artworks.StockForUpdateTx(ctx, tx, artworkID)
	if err != nil {
		return err
	}
	if err := s.recomputeTx(ctx, tx, artworkID, initial); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// recomputeTx performs the aggregate-and-subtract inside an existing
// transaction.  The caller must already hold the artwork row lock.
// The result is written verbatim: a status flip from cancelled back to
// an active state after the freed stock was resold can drive the value
// below zero, which the exact formula preserves rather than hides.
func (s *Service) recomputeTx(ctx context.Context, tx *sql.Tx, artworkID uint64, initial uint32) error {
	sum, err := s.reservations.SumActiveByArtworkTx(ctx, tx, artworkID)
	if err != nil {
		return err
	}
	available := int64(initial) - sum
	return s.artworks.SetAvailabilityTx(ctx, tx, artworkID, int32(available))
}
