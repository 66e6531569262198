package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/artgalerie/gallery-api/internal/inventory"
	"github.com/artgalerie/gallery-api/internal/model"
	"github.com/artgalerie/gallery-api/internal/notifier"
	"github.com/artgalerie/gallery-api/internal/queue"
	"github.com/artgalerie/gallery-api/internal/repository"
)

// ReservationHandler serves the reservation endpoints.  Creation runs
// through the inventory service's admission control; updates and
// deletes trigger the availability recompute afterwards.  The
// confirmation notification is fire-and-forget: its failure never
// unwinds a committed reservation.
type ReservationHandler struct {
	ArtworkRepo     *repository.ArtworkRepo
	ReservationRepo *repository.ReservationRepo
	Inventory       *inventory.Service
}

// NewReservationHandler constructs a ReservationHandler.  All
// dependencies must be non-nil.
func NewReservationHandler(artworks *repository.ArtworkRepo, reservations *repository.ReservationRepo, inv *inventory.Service) *ReservationHandler {
	if artworks == nil || reservations == nil || inv == nil {
		panic("nil dependency passed to NewReservationHandler")
	}
	return &ReservationHandler{ArtworkRepo: artworks, ReservationRepo: reservations, Inventory: inv}
}

// List handles GET /v1/reservations.  Reservations are returned newest
// first together with their artwork.
func (h *ReservationHandler) List(c echo.Context) error {
	details, err := h.ReservationRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load reservations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// Get handles GET /v1/reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.ReservationRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Create handles POST /v1/reservations.  The admission check, insert
// and availability recompute all happen inside the inventory service's
// transaction; by the time this handler responds the displayed stock is
// already consistent.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body struct {
		ArtworkID uint64 `json:"artwork_id"`
		FullName  string `json:"full_name"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
		Address   string `json:"address"`
		Quantity  uint32 `json:"quantity"`
		Notes     string `json:"notes"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ArtworkID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "artwork_id is required"})
	}
	if strings.TrimSpace(body.FullName) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name is required"})
	}
	if strings.TrimSpace(body.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email is required"})
	}
	if body.Quantity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be a positive integer"})
	}

	res := model.Reservation{
		ArtworkID: body.ArtworkID,
		FullName:  strings.TrimSpace(body.FullName),
		Email:     strings.ToLower(strings.TrimSpace(body.Email)),
		Phone:     strings.TrimSpace(body.Phone),
		Address:   strings.TrimSpace(body.Address),
		Quantity:  body.Quantity,
		Notes:     body.Notes,
	}
	ctx := c.Request().Context()
	if err := h.Inventory.Reserve(ctx, &res); err != nil {
		switch {
		case errors.Is(err, repository.ErrArtworkNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
		case errors.Is(err, inventory.ErrInsufficientStock):
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, inventory.ErrInvalidQuantity):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be a positive integer"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create reservation"})
	}

	artwork, err := h.ArtworkRepo.GetByID(ctx, res.ArtworkID)
	if err != nil {
		// the reservation is committed; respond with what we have
		return c.JSON(http.StatusCreated, echo.Map{"item": res})
	}

	// Publish the confirmation event outside the request lifecycle.
	go func(res model.Reservation, art model.Artwork) {
		pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		ev := queue.ReservationCreatedEvent{
			EventID:       uuid.New().String(),
			ReservationID: res.ID,
			ArtworkID:     art.ID,
			ArtworkTitle:  art.Title,
			FullName:      res.FullName,
			Email:         res.Email,
			Quantity:      res.Quantity,
			UnitPrice:     art.Price,
			Status:        res.Status,
			CreatedAt:     res.CreatedAt.UTC().Format(time.RFC3339),
		}
		if err := notifier.PublishReservationCreated(pctx, ev); err != nil {
			log.Printf("reservation %d: notification publish failed: %v", res.ID, err)
		}
	}(res, *artwork)

	return c.JSON(http.StatusCreated, repository.ReservationDetail{Reservation: res, Artwork: *artwork})
}

// Update handles PATCH /v1/reservations/:id.  Any subset of fields may
// be sent; status values are restricted to the fixed vocabulary but no
// transition order is enforced (delivered back to pending is accepted).
// After the write, availability is recomputed for the artwork.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	var body struct {
		FullName *string `json:"full_name"`
		Email    *string `json:"email"`
		Phone    *string `json:"phone"`
		Address  *string `json:"address"`
		Quantity *uint32 `json:"quantity"`
		Notes    *string `json:"notes"`
		Status   *string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	res, err := h.ReservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}

	if body.FullName != nil {
		res.FullName = strings.TrimSpace(*body.FullName)
	}
	if body.Email != nil {
		res.Email = strings.ToLower(strings.TrimSpace(*body.Email))
	}
	if body.Phone != nil {
		res.Phone = strings.TrimSpace(*body.Phone)
	}
	if body.Address != nil {
		res.Address = strings.TrimSpace(*body.Address)
	}
	if body.Notes != nil {
		res.Notes = *body.Notes
	}
	if body.Quantity != nil {
		if *body.Quantity == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "quantity must be a positive integer"})
		}
		res.Quantity = *body.Quantity
	}
	if body.Status != nil {
		status := strings.ToLower(strings.TrimSpace(*body.Status))
		if !model.ValidReservationStatus(status) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
		}
		res.Status = status
	}

	if err := h.ReservationRepo.Update(ctx, res); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update reservation"})
	}
	if err := h.Inventory.Recompute(ctx, res.ArtworkID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to recompute availability"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": res})
}

// Delete handles DELETE /v1/reservations/:id.  Deletion is a hard
// delete; from the inventory's perspective it is equivalent to
// cancellation, so the artwork's availability is recomputed afterward.
func (h *ReservationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	ctx := c.Request().Context()
	res, err := h.ReservationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch reservation"})
	}
	if err := h.ReservationRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete reservation"})
	}
	if err := h.Inventory.Recompute(ctx, res.ArtworkID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to recompute availability"})
	}
	return c.NoContent(http.StatusNoContent)
}
