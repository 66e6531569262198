package model

import "time"

// Workshop levels.
const (
	WorkshopBeginner     = "beginner"
	WorkshopIntermediate = "intermediate"
	WorkshopAdvanced     = "advanced"
)

// Workshop is a hands-on session led by an instructor.  It shares the
// scheduling fields of Event plus level, duration and materials.
type Workshop struct {
	ID                uint64    `json:"id"`                 // workshops.id
	Title             string    `json:"title"`              // workshops.title
	Description       string    `json:"description"`        // workshops.description
	StartDate         time.Time `json:"start_date"`         // workshops.start_date
	EndDate           time.Time `json:"end_date"`           // workshops.end_date
	Location          string    `json:"location"`           // workshops.location
	ImageURL          *string   `json:"image_url"`          // workshops.image_url (nullable)
	Capacity          uint32    `json:"capacity"`           // workshops.capacity
	Price             float64   `json:"price"`              // workshops.price
	Level             string    `json:"level"`              // workshops.level
	DurationMinutes   uint32    `json:"duration_minutes"`   // workshops.duration_minutes
	MaterialsProvided string    `json:"materials_provided"` // workshops.materials_provided
	Instructor        string    `json:"instructor"`         // workshops.instructor
	CreatedAt         time.Time `json:"created_at"`         // workshops.created_at
	UpdatedAt         time.Time `json:"updated_at"`         // workshops.updated_at
}

// ValidWorkshopLevel reports whether l is a known level.
func ValidWorkshopLevel(l string) bool {
	switch l {
	case WorkshopBeginner, WorkshopIntermediate, WorkshopAdvanced:
		return true
	}
	return false
}
