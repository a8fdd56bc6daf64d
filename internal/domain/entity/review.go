package entity

import (
	"time"

	"github.com/google/uuid"
)

// Rating bounds accepted for a review.
const (
	MinRating = 1
	MaxRating = 5
)

// Review is a customer's one-time rating of a business. At most one review
// may exist per (business_user, reviewer) pair; the storage layer enforces
// this with a unique constraint.
type Review struct {
	ID             uuid.UUID
	BusinessUserID uuid.UUID // The business being reviewed.
	ReviewerID     uuid.UUID // The customer who wrote the review.
	Rating         int
	Description    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
