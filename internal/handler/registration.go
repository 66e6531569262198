package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artgalerie/gallery-api/internal/model"
	"github.com/artgalerie/gallery-api/internal/repository"
)

// RegistrationHandler signs visitors up for events and workshops.  A
// registration targets exactly one of the two, and is refused once the
// target's capacity is reached.
type RegistrationHandler struct {
	RegistrationRepo *repository.RegistrationRepo
	EventRepo        *repository.EventRepo
	WorkshopRepo     *repository.WorkshopRepo
}

func NewRegistrationHandler(regs *repository.RegistrationRepo, events *repository.EventRepo, workshops *repository.WorkshopRepo) *RegistrationHandler {
	if regs == nil || events == nil || workshops == nil {
		panic("nil repository passed to NewRegistrationHandler")
	}
	return &RegistrationHandler{RegistrationRepo: regs, EventRepo: events, WorkshopRepo: workshops}
}

// List handles GET /v1/registrations.
func (h *RegistrationHandler) List(c echo.Context) error {
	items, err := h.RegistrationRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load registrations"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Create handles POST /v1/registrations.
func (h *RegistrationHandler) Create(c echo.Context) error {
	var body struct {
		EventID    *uint64 `json:"event_id"`
		WorkshopID *uint64 `json:"workshop_id"`
		FullName   string  `json:"full_name"`
		Email      string  `json:"email"`
		Phone      string  `json:"phone"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	hasEvent := body.EventID != nil && *body.EventID != 0
	hasWorkshop := body.WorkshopID != nil && *body.WorkshopID != 0
	if hasEvent == hasWorkshop {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "exactly one of event_id or workshop_id is required"})
	}
	if strings.TrimSpace(body.FullName) == "" || strings.TrimSpace(body.Email) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name and email are required"})
	}

	ctx := c.Request().Context()
	var capacity uint32
	switch {
	case hasEvent:
		e, err := h.EventRepo.GetByID(ctx, *body.EventID)
		if err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch event"})
		}
		capacity = e.Capacity
		taken, err := h.RegistrationRepo.CountByEvent(ctx, *body.EventID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check capacity"})
		}
		if capacity > 0 && taken >= int64(capacity) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "event is fully booked"})
		}
	case hasWorkshop:
		w, err := h.WorkshopRepo.GetByID(ctx, *body.WorkshopID)
		if err != nil {
			if errors.Is(err, repository.ErrWorkshopNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch workshop"})
		}
		capacity = w.Capacity
		taken, err := h.RegistrationRepo.CountByWorkshop(ctx, *body.WorkshopID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to check capacity"})
		}
		if capacity > 0 && taken >= int64(capacity) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "workshop is fully booked"})
		}
	}

	reg := model.Registration{
		FullName: strings.TrimSpace(body.FullName),
		Email:    strings.ToLower(strings.TrimSpace(body.Email)),
		Phone:    strings.TrimSpace(body.Phone),
	}
	if hasEvent {
		reg.EventID = body.EventID
	} else {
		reg.WorkshopID = body.WorkshopID
	}
	if err := h.RegistrationRepo.Create(ctx, &reg); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create registration"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": reg})
}

// Delete handles DELETE /v1/registrations/:id.
func (h *RegistrationHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid registration id"})
	}
	if err := h.RegistrationRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrRegistrationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "registration not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete registration"})
	}
	return c.NoContent(http.StatusNoContent)
}
