package model

import "time"

// User categories.  There is no privileged built-in role; roles are
// visitor or artist only.
const (
	UserVisitor = "visitor"
	UserArtist  = "artist"
)

// User mirrors the 'users' table.  PasswordHash never leaves the API.
type User struct {
	ID           uint64    `json:"id"`         // users.id
	Email        string    `json:"email"`      // users.email
	PasswordHash string    `json:"-"`          // users.password_hash
	FirstName    string    `json:"first_name"` // users.first_name
	LastName     string    `json:"last_name"`  // users.last_name
	Category     string    `json:"category"`   // users.category
	Phone        string    `json:"phone"`      // users.phone
	CreatedAt    time.Time `json:"created_at"` // users.created_at
	UpdatedAt    time.Time `json:"updated_at"` // users.updated_at
}
