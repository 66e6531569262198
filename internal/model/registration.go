package model

import "time"

// Registration claims a participant seat at an event or a workshop.
// Exactly one of EventID / WorkshopID is set.
type Registration struct {
	ID         uint64    `json:"id"`          // registrations.id
	EventID    *uint64   `json:"event_id"`    // registrations.event_id (nullable)
	WorkshopID *uint64   `json:"workshop_id"` // registrations.workshop_id (nullable)
	FullName   string    `json:"full_name"`   // registrations.full_name
	Email      string    `json:"email"`       // registrations.email
	Phone      string    `json:"phone"`       // registrations.phone
	CreatedAt  time.Time `json:"created_at"`  // registrations.created_at
}
