package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is the core identity entity. Every offer, order and review references
// users by ID. The profile fields are optional in storage; the persistence
// layer normalizes absent values to empty strings exactly once when mapping
// back to this entity, so projections never carry nulls.
type User struct {
	ID           uuid.UUID // The Global Unique Identifier for the user.
	Username     string    // Unique login name.
	Email        string    // Unique contact email.
	PasswordHash string    // bcrypt hash; never serialized outward.
	Role         Role      // customer or business; immutable after registration.
	IsAdmin      bool      // Staff flag for admin-only operations.

	FirstName    string
	LastName     string
	Location     string
	Tel          string
	Description  string
	WorkingHours string

	CreatedAt time.Time
	UpdatedAt time.Time
}
