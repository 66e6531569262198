package model

import "time"

// Comment moderation statuses.
const (
	CommentPending  = "pending"
	CommentApproved = "approved"
	CommentRejected = "rejected"
)

// Comment is a visitor comment attached to an artwork.  New comments
// start out pending; the AI moderation collaborator (or a manual
// moderation call) moves them to approved or rejected.
type Comment struct {
	ID               uint64    `json:"id"`                // comments.id
	ArtworkID        uint64    `json:"artwork_id"`        // comments.artwork_id
	AuthorName       string    `json:"author_name"`       // comments.author_name
	Content          string    `json:"content"`           // comments.content
	Status           string    `json:"status"`            // comments.status
	ModerationReason *string   `json:"moderation_reason"` // comments.moderation_reason (nullable)
	CreatedAt        time.Time `json:"created_at"`        // comments.created_at
}

// ValidCommentStatus reports whether s is a known moderation status.
func ValidCommentStatus(s string) bool {
	switch s {
	case CommentPending, CommentApproved, CommentRejected:
		return true
	}
	return false
}
