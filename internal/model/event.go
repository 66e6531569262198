package model

import "time"

// Event is a gallery event visitors can attend.  AverageRating is
// computed from the event's ratings at query time and never stored.
type Event struct {
	ID            uint64    `json:"id"`             // events.id
	Title         string    `json:"title"`          // events.title
	Description   string    `json:"description"`    // events.description
	StartDate     time.Time `json:"start_date"`     // events.start_date
	EndDate       time.Time `json:"end_date"`       // events.end_date
	Location      string    `json:"location"`       // events.location
	ImageURL      *string   `json:"image_url"`      // events.image_url (nullable)
	Capacity      uint32    `json:"capacity"`       // events.capacity
	Price         float64   `json:"price"`          // events.price
	AverageRating float64   `json:"average_rating"` // derived from ratings
	CreatedAt     time.Time `json:"created_at"`     // events.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // events.updated_at
}

// Rating is a 1-5 star review attached to an event.
type Rating struct {
	ID        uint64    `json:"id"`         // ratings.id
	EventID   uint64    `json:"event_id"`   // ratings.event_id
	Value     int       `json:"value"`      // ratings.value (1..5)
	Comment   string    `json:"comment"`    // ratings.comment
	CreatedAt time.Time `json:"created_at"` // ratings.created_at
}
