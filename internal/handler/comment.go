package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artgalerie/gallery-api/internal/ai"
	"github.com/artgalerie/gallery-api/internal/model"
	"github.com/artgalerie/gallery-api/internal/repository"
)

// CommentHandler serves visitor comments on artworks.  On creation the
// comment is passed through the AI moderation collaborator; if the
// collaborator is down the comment stays pending rather than failing
// the request.
type CommentHandler struct {
	CommentRepo *repository.CommentRepo
	ArtworkRepo *repository.ArtworkRepo
	AI          *ai.Client
}

func NewCommentHandler(comments *repository.CommentRepo, artworks *repository.ArtworkRepo, aiClient *ai.Client) *CommentHandler {
	if comments == nil || artworks == nil {
		panic("nil repository passed to NewCommentHandler")
	}
	return &CommentHandler{CommentRepo: comments, ArtworkRepo: artworks, AI: aiClient}
}

// List handles GET /v1/comments with an optional ?artwork_id= filter.
func (h *CommentHandler) List(c echo.Context) error {
	var artworkID uint64
	if raw := c.QueryParam("artwork_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid artwork_id"})
		}
		artworkID = id
	}
	items, err := h.CommentRepo.List(c.Request().Context(), artworkID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load comments"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/comments/:id.
func (h *CommentHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	cm, err := h.CommentRepo.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch comment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": cm})
}

// Create handles POST /v1/comments.  The moderation verdict decides the
// stored status; a moderation failure leaves the comment pending.
func (h *CommentHandler) Create(c echo.Context) error {
	var body struct {
		ArtworkID  uint64 `json:"artwork_id"`
		AuthorName string `json:"author_name"`
		Content    string `json:"content"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ArtworkID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "artwork_id is required"})
	}
	if strings.TrimSpace(body.AuthorName) == "" || strings.TrimSpace(body.Content) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "author_name and content are required"})
	}

	ctx := c.Request().Context()
	if _, err := h.ArtworkRepo.GetByID(ctx, body.ArtworkID); err != nil {
		if errors.Is(err, repository.ErrArtworkNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "artwork not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch artwork"})
	}

	cm := model.Comment{
		ArtworkID:  body.ArtworkID,
		AuthorName: strings.TrimSpace(body.AuthorName),
		Content:    strings.TrimSpace(body.Content),
		Status:     model.CommentPending,
	}
	if h.AI.Enabled() {
		verdict, err := h.AI.ModerateComment(ctx, cm.Content)
		switch {
		case err != nil:
			log.Printf("comment moderation unavailable, keeping comment pending: %v", err)
		case verdict.Flagged:
			cm.Status = model.CommentRejected
			if verdict.Reason != "" {
				reason := verdict.Reason
				cm.ModerationReason = &reason
			}
		default:
			cm.Status = model.CommentApproved
		}
	}
	if err := h.CommentRepo.Create(ctx, &cm); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create comment"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"item": cm})
}

// Moderate handles PATCH /v1/comments/:id/moderate, the manual override
// for the automatic verdict.
func (h *CommentHandler) Moderate(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	var body struct {
		Status string  `json:"status"`
		Reason *string `json:"reason"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if !model.ValidCommentStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be pending, approved or rejected"})
	}
	ctx := c.Request().Context()
	if err := h.CommentRepo.SetModeration(ctx, id, status, body.Reason); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to moderate comment"})
	}
	cm, err := h.CommentRepo.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch comment"})
	}
	return c.JSON(http.StatusOK, echo.Map{"item": cm})
}

// Delete handles DELETE /v1/comments/:id.
func (h *CommentHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid comment id"})
	}
	if err := h.CommentRepo.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "comment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete comment"})
	}
	return c.NoContent(http.StatusNoContent)
}
