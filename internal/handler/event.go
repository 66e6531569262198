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

// EventHandler serves the event catalog and its ratings.
type EventHandler struct {
	EventRepo  *repository.EventRepo
	RatingRepo *repository.RatingRepo
}

func NewEventHandler(events *repository.EventRepo, ratings *repository.RatingRepo) *EventHandler {
	if events == nil || ratings == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{EventRepo: events, RatingRepo: ratings}
}

type eventPayload struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	ImageURL    *string   `json:"image_url"`
	Capacity    uint32    `json:"capacity"`
	Price       float64   `json:"price"`
}

func (p *eventPayload) validate() string {
	if strings.TrimSpace(p.Title) == "" {
		return "title is required"
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return "start_date and end_date are required"
	}
	if p.EndDate.Before(p.StartDate) {
		return "end_date must not be before start_date"
	}
	if p.Price < 0 {
		return "price must be non-negative"
	}
	return ""
}

// List handles GET /v1/events.
func (h *EventHandler) List(c echo.Context) error {
	items, err := h.EventRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load events"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	e, err := h.EventRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch event"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": e})
}

// Create handles POST /v1/events.
func (h *EventHandler) Create(c echo.Context) error {
	var body eventPayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	e := model.Event{
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		Location:    body.Location,
		ImageURL:    body.ImageURL,
		Capacity:    body.Capacity,
		Price:       body.Price,
	}
	if err := h.EventRepo.Create(c.Request().Context(), &e); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": e})
}

// Update handles PUT /v1/events/:id with a full payload.
func (h *EventHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body eventPayload
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if msg := body.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	e := model.Event{
		ID:          id,
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		Location:    body.Location,
		ImageURL:    body.ImageURL,
		Capacity:    body.Capacity,
		Price:       body.Price,
	}
	ctx := c.Request().Context()
	if err := h.EventRepo.Update(ctx, &e); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update event"})
	}
	fresh, err := h.EventRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch event"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": fresh})
}

// Delete handles DELETE /v1/events/:id.
func (h *EventHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.EventRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete event"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListRatings handles GET /v1/events/:id/ratings.
func (h *EventHandler) ListRatings(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ctx := c.Request().Context()
	if _, err := h.EventRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch event"})
	}
	items, err := h.RatingRepo.ListByEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ratings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// CreateRating handles POST /v1/events/:id/ratings.
func (h *EventHandler) CreateRating(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var body struct {
		Value   int    `json:"value"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Value < 1 || body.Value > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "value must be between 1 and 5"})
	}
	ctx := c.Request().Context()
	if _, err := h.EventRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch event"})
	}
	rt := model.Rating{EventID: id, Value: body.Value, Comment: body.Comment}
	if err := h.RatingRepo.Create(ctx, &rt); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create rating"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": rt})
}
