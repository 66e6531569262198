package model

import "time"

// Reservation statuses.  The vocabulary is fixed but no transition
// table is enforced: any status may follow any other.  Only
// "cancelled" releases the reserved stock back to the artwork.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationDelivered = "delivered"
	ReservationCancelled = "cancelled"
)

// Reservation records a customer's claim on some quantity of an
// artwork's stock.  Reservations whose status is not "cancelled"
// count toward consumed stock.
//
// Fields:
//  ID        – primary key identifier.
//  ArtworkID – artwork being reserved.
//  FullName  – customer name.
//  Email     – customer email used for notifications.
//  Phone     – customer phone number.
//  Address   – delivery address.
//  Quantity  – units claimed, always positive.
//  Notes     – optional free-form notes.
//  Status    – one of the status constants above.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Reservation struct {
	ID        uint64    `json:"id"`         // reservations.id
	ArtworkID uint64    `json:"artwork_id"` // reservations.artwork_id
	FullName  string    `json:"full_name"`  // reservations.full_name
	Email     string    `json:"email"`      // reservations.email
	Phone     string    `json:"phone"`      // reservations.phone
	Address   string    `json:"address"`    // reservations.address
	Quantity  uint32    `json:"quantity"`   // reservations.quantity
	Notes     string    `json:"notes"`      // reservations.notes
	Status    string    `json:"status"`     // reservations.status
	CreatedAt time.Time `json:"created_at"` // reservations.created_at
	UpdatedAt time.Time `json:"updated_at"` // reservations.updated_at
}

// ValidReservationStatus reports whether s belongs to the fixed status
// vocabulary.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationDelivered, ReservationCancelled:
		return true
	}
	return false
}
