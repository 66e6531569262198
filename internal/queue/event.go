// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationCreatedEvent is published when a reservation passes
// admission control.  It carries enough information for downstream
// consumers to email the customer or feed analytics without querying
// the primary database.
type ReservationCreatedEvent struct {
	EventID       string  `json:"event_id"`
	ReservationID uint64  `json:"reservation_id"`
	ArtworkID     uint64  `json:"artwork_id"`
	ArtworkTitle  string  `json:"artwork_title"`
	FullName      string  `json:"full_name"`
	Email         string  `json:"email"`
	Quantity      uint32  `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Status        string  `json:"status"`
	CreatedAt     string  `json:"created_at"`
}
