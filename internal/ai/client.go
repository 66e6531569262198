// Package ai is a thin client for an OpenAI-compatible chat-completions
// API.  The gallery uses it for comment moderation, artwork description
// generation, color palette analysis and the visitor chatbot.  Every
// call carries a timeout; callers on side-effect paths treat failures
// as non-fatal.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrDisabled is returned when no AI base URL is configured.
var ErrDisabled = errors.New("ai service not configured")

// Message is one turn of a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Verdict is the outcome of a moderation check.
type Verdict struct {
	Flagged bool   `json:"flagged"`
	Reason  string `json:"reason"`
}

// Client calls the chat-completions endpoint of an OpenAI-compatible
// service.  A zero-value BaseURL disables the client.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	HTTP    *http.Client
}

// New builds a Client.  baseURL may be empty, in which case every call
// returns ErrDisabled.
func New(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		HTTP:    &http.Client{Timeout: 20 * time.Second},
	}
}

// Enabled reports whether the client has a configured endpoint.
func (c *Client) Enabled() bool { return c != nil && c.BaseURL != "" }

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Chat sends the conversation and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, messages []Message) (string, error) {
	if !c.Enabled() {
		return "", ErrDisabled
	}
	body, err := json.Marshal(chatRequest{Model: c.Model, Messages: messages})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.BaseURL+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ai service returned status %d", resp.StatusCode)
	}
	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("ai service returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

// ModerateComment asks the model whether a visitor comment is
// acceptable for public display and parses the JSON verdict.
func (c *Client) ModerateComment(ctx context.Context, text string) (Verdict, error) {
	reply, err := c.Chat(ctx, []Message{
		{Role: "system", Content: "You moderate public comments for an art gallery. " +
			`Answer with JSON only: {"flagged": true|false, "reason": "short reason"}. ` +
			"Flag insults, spam, hate speech and personal data."},
		{Role: "user", Content: text},
	})
	if err != nil {
		return Verdict{}, err
	}
	var v Verdict
	if err := json.Unmarshal([]byte(extractJSON(reply)), &v); err != nil {
		return Verdict{}, fmt.Errorf("unparseable moderation verdict: %w", err)
	}
	return v, nil
}

// GenerateDescription produces a short gallery description for an
// artwork from its title and optional keywords.
func (c *Client) GenerateDescription(ctx context.Context, title, keywords string) (string, error) {
	prompt := fmt.Sprintf("Write a short, evocative gallery description (max 80 words) for the artwork %q.", title)
	if keywords != "" {
		prompt += " Keywords: " + keywords
	}
	return c.Chat(ctx, []Message{
		{Role: "system", Content: "You write concise artwork descriptions for a gallery catalog."},
		{Role: "user", Content: prompt},
	})
}

// AnalyzeColors asks the model for a dominant color palette and parses
// the JSON array of hex strings.
func (c *Client) AnalyzeColors(ctx context.Context, title, description string) ([]string, error) {
	reply, err := c.Chat(ctx, []Message{
		{Role: "system", Content: "You suggest a dominant color palette for artworks. " +
			`Answer with JSON only: an array of 3 to 6 hex color strings like ["#aabbcc"].`},
		{Role: "user", Content: fmt.Sprintf("Title: %s\nDescription: %s", title, description)},
	})
	if err != nil {
		return nil, err
	}
	var palette []string
	if err := json.Unmarshal([]byte(extractJSON(reply)), &palette); err != nil {
		return nil, fmt.Errorf("unparseable color palette: %w", err)
	}
	return palette, nil
}

// extractJSON trims prose or code fences the model may wrap around a
// JSON payload.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "[{"); i >= 0 {
		if j := strings.LastIndexAny(s, "]}"); j > i {
			return s[i : j+1]
		}
	}
	return s
}
