package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/artgalerie/gallery-api/internal/model"
	"github.com/artgalerie/gallery-api/internal/repository"
)

// WorkshopHandler serves the workshop catalog.
type WorkshopHandler struct {
	WorkshopRepo *repository.WorkshopRepo
}

func NewWorkshopHandler(workshops *repository.WorkshopRepo) *WorkshopHandler {
	if workshops == nil {
		panic("nil repository passed to NewWorkshopHandler")
	}
	return &WorkshopHandler{WorkshopRepo: workshops}
}

type workshopPayload struct {
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	StartDate         time.Time `json:"start_date"`
	EndDate           time.Time `json:"end_date"`
	Location          string    `json:"location"`
	ImageURL          *string   `json:"image_url"`
	Capacity          uint32    `json:"capacity"`
	Price             float64   `json:"price"`
	Level             string    `json:"level"`
	DurationMinutes   uint32    `json:"duration_minutes"`
	MaterialsProvided string    `json:"materials_provided"`
	Instructor        string    `json:"instructor"`
}

func (p *workshopPayload) validate() string {
	if strings.TrimSpace(p.Title) == "" {
		return "title is required"
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return "start_date and end_date are required"
	}
	if p.EndDate.Before(p.StartDate) {
		return "end_date must not be before start_date"
	}
	if !model.ValidWorkshopLevel(strings.ToLower(p.Level)) {
		return "level must be beginner, intermediate or advanced"
	}
	if p.Price < 0 {
		return "price must be non-negative"
	}
	return ""
}

func (p *workshopPayload) toModel(id uint64) model.Workshop {
	return model.Workshop{
		ID:                id,
		Title:             strings.TrimSpace(p.Title),
		Description:       p.Description,
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		Location:          p.Location,
		ImageURL:          p.ImageURL,
		Capacity:          p.Capacity,
		Price:             p.Price,
		Level:             strings.ToLower(p.Level),
		DurationMinutes:   p.DurationMinutes,
		MaterialsProvided: p.MaterialsProvided,
		Instructor:        p.Instructor,
	}
}

// List handles GET /v1/workshops.
func (h *WorkshopHandler) List(c echo.Context) error {
	items, err := h.WorkshopRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load workshops"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/workshops/:id.
func (h *WorkshopHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workshop id"})
	}
	w, err := h.WorkshopRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch workshop"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": w})
}

// Create handles POST /v1/workshops.
func (h *WorkshopHandler) Create(c echo.Context) error {
	var body workshopPayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	w := body.toModel(0)
	if err := h.WorkshopRepo.Create(c.Request().Context(), &w); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create workshop"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": w})
}

// Update handles PUT /v1/workshops/:id with a full payload.
func (h *WorkshopHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workshop id"})
	}
	var body workshopPayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	w := body.toModel(id)
	ctx := c.Request().Context()
	if err := h.WorkshopRepo.Update(ctx, &w); err != nil {
		if errors.Is(err, repository.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update workshop"})
	}
	fresh, err := h.WorkshopRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch workshop"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": fresh})
}

// Delete handles DELETE /v1/workshops/:id.
func (h *WorkshopHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid workshop id"})
	}
	if err := h.WorkshopRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrWorkshopNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "workshop not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete workshop"})
	}
	return c.NoContent(http.StatusNoContent)
}
