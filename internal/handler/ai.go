package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/artgalerie/gallery-api/internal/ai"
)

// AIHandler exposes the AI collaborator endpoints: the visitor chatbot
// and on-demand artwork description generation.  When the collaborator
// is not configured these endpoints answer 503; upstream failures map
// to 502.
type AIHandler struct {
	AI *ai.Client
}

func NewAIHandler(client *ai.Client) *AIHandler {
	return &AIHandler{AI: client}
}

// Chat handles POST /v1/ai/chat.
func (h *AIHandler) Chat(c echo.Context) error {
	var body struct {
		Messages []ai.Message `json:"messages"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Messages) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "messages are required"})
	}
	for _, m := range body.Messages {
		if m.Role != "user" && m.Role != "assistant" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "message roles must be user or assistant"})
		}
	}
	if !h.AI.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ai service not configured"})
	}

	messages := append([]ai.Message{{
		Role: "system",
		Content: "You are the friendly assistant of an art gallery. " +
			"Answer questions about artworks, events, workshops and reservations. " +
			"Keep answers short and do not invent prices or dates.",
	}}, body.Messages...)
	reply, err := h.AI.Chat(c.Request().Context(), messages)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "ai service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reply": reply})
}

// GenerateDescription handles POST /v1/ai/generate-description.
func (h *AIHandler) GenerateDescription(c echo.Context) error {
	var body struct {
		Title    string `json:"title"`
		Keywords string `json:"keywords"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Title) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if !h.AI.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ai service not configured"})
	}
	desc, err := h.AI.GenerateDescription(c.Request().Context(), strings.TrimSpace(body.Title), body.Keywords)
	if err != nil {
		if errors.Is(err, ai.ErrDisabled) {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ai service not configured"})
		}
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "ai service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"description": desc})
}

// ModerateText handles POST /v1/ai/moderate.  It runs the moderation
// prompt against arbitrary text without touching stored comments,
// useful for previewing a verdict.
func (h *AIHandler) ModerateText(c echo.Context) error {
	var body struct {
		Text string `json:"text"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(body.Text) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "text is required"})
	}
	if !h.AI.Enabled() {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "ai service not configured"})
	}
	verdict, err := h.AI.ModerateComment(c.Request().Context(), body.Text)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "ai service unavailable"})
	}
	return c.JSON(http.StatusOK, echo.Map{"flagged": verdict.Flagged, "reason": verdict.Reason})
}
