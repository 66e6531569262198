package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artgalerie/gallery-api/internal/ai"
	"github.com/artgalerie/gallery-api/internal/model"
	"github.com/artgalerie/gallery-api/internal/repository"
)

// ArtworkHandler serves the artwork catalog endpoints.  Stock fields
// are read-only here: quantity_initial is captured once at creation and
// quantity_available only ever changes through the inventory service.
type ArtworkHandler struct {
	ArtworkRepo *repository.ArtworkRepo
	AI          *ai.Client
}

func NewArtworkHandler(artworks *repository.ArtworkRepo, aiClient *ai.Client) *ArtworkHandler {
	if artworks == nil {
		panic("nil repository passed to NewArtworkHandler")
	}
	return &ArtworkHandler{ArtworkRepo: artworks, AI: aiClient}
}

// List handles GET /v1/artworks.
func (h *ArtworkHandler) List(c echo.Context) error {
	items, err := h.ArtworkRepo.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load artworks"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/artworks/:id.
func (h *ArtworkHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artwork id"})
	}
	a, err := h.ArtworkRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch artwork"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": a})
}

// Create handles POST /v1/artworks.  The caller-supplied initial stock
// is captured here, once; afterwards it is immutable.
func (h *ArtworkHandler) Create(c echo.Context) error {
	var body struct {
		Title           string  `json:"title"`
		Description     string  `json:"description"`
		ImageURL        *string `json:"image_url"`
		Price           float64 `json:"price"`
		QuantityInitial uint32  `json:"quantity_initial"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if body.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be non-negative"})
	}

	a := model.Artwork{
		Title:           strings.TrimSpace(body.Title),
		Description:     body.Description,
		ImageURL:        body.ImageURL,
		Price:           body.Price,
		QuantityInitial: body.QuantityInitial,
	}
	if err := h.ArtworkRepo.Create(c.Request().Context(), &a); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create artwork"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": a})
}

// Update handles PUT /v1/artworks/:id.  Stock fields in the payload are
// ignored: clients can never edit quantity_initial or
// quantity_available directly.
func (h *ArtworkHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artwork id"})
	}
	var body struct {
		Title       *string  `json:"title"`
		Description *string  `json:"description"`
		ImageURL    *string  `json:"image_url"`
		Price       *float64 `json:"price"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	ctx := c.Request().Context()
	a, err := h.ArtworkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch artwork"})
	}
	if body.Title != nil {
		if strings.TrimSpace(*body.Title) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
		}
		a.Title = strings.TrimSpace(*body.Title)
	}
	if body.Description != nil {
		a.Description = *body.Description
	}
	if body.ImageURL != nil {
		a.ImageURL = body.ImageURL
	}
	if body.Price != nil {
		if *body.Price < 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must be non-negative"})
		}
		a.Price = *body.Price
	}
	if err := h.ArtworkRepo.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update artwork"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": a})
}

// Delete handles DELETE /v1/artworks/:id.  The delete cascades to the
// artwork's reservations and comments; this is a documented policy, not
// an accident, and means historical reservation rows disappear with the
// artwork.
func (h *ArtworkHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artwork id"})
	}
	if err := h.ArtworkRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete artwork"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AnalyzeColors handles POST /v1/artworks/:id/analyze-colors.  It asks
// the AI collaborator for a dominant palette and stores it on the
// artwork.
func (h *ArtworkHandler) AnalyzeColors(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artwork id"})
	}
	ctx := c.Request().Context()
	a, err := h.ArtworkRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch artwork"})
	}
	if !h.AI.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ai service not configured"})
	}
	palette, err := h.AI.AnalyzeColors(ctx, a.Title, a.Description)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "color analysis failed"})
	}
	if err := h.ArtworkRepo.SetColorPalette(ctx, id, palette); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to store palette"})
	}
	return c.JSON(http.StatusOK, echo.Map{"colors": palette})
}
