// Package repository implements data access over MySQL for the gallery
// backend.  This file defines sentinel errors reused across repositories
// so that handlers can map failure scenarios onto HTTP statuses without
// inspecting SQL error strings.
package repository

import "errors"

// Not-found sentinels.  Handlers translate these into 404 responses,
// keeping them distinct from validation failures.
var (
	ErrArtworkNotFound      = errors.New("artwork not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrWorkshopNotFound     = errors.New("workshop not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrRegistrationNotFound = errors.New("registration not found")
)

// ErrEmailExists is returned when registering a user whose email is
// already taken.  Handlers translate it into a 409 response.
var ErrEmailExists = errors.New("email already exists")
