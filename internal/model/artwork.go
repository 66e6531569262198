package model

import "time"

// Artwork is a sellable catalog item with a fixed initial stock.
// QuantityInitial is captured once at creation and never edited
// afterwards.  QuantityAvailable is a derived value maintained by
// the inventory recompute routine; no other code path writes it.
//
// Fields:
//  ID                – primary key identifier.
//  Title             – display title.
//  Description       – display description.
//  ImageURL          – optional image location.
//  Price             – unit price, non-negative.
//  QuantityInitial   – stock recorded at creation, immutable.
//  QuantityAvailable – stock left after active reservations.
//  ColorPalette      – hex colors extracted by AI analysis (nullable).
//  CreatedAt         – creation timestamp.
//  UpdatedAt         – last update timestamp.
type Artwork struct {
	ID                uint64    `json:"id"`                 // artworks.id
	Title             string    `json:"title"`              // artworks.title
	Description       string    `json:"description"`        // artworks.description
	ImageURL          *string   `json:"image_url"`          // artworks.image_url (nullable)
	Price             float64   `json:"price"`              // artworks.price
	QuantityInitial   uint32    `json:"quantity_initial"`   // artworks.quantity_initial
	QuantityAvailable int32     `json:"quantity_available"` // artworks.quantity_available
	ColorPalette      []string  `json:"color_palette"`      // artworks.color_palette (nullable JSON)
	CreatedAt         time.Time `json:"created_at"`         // artworks.created_at
	UpdatedAt         time.Time `json:"updated_at"`         // artworks.updated_at
}
