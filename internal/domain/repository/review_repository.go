package repository

import (
	"context"
	"errors"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors surfaced by review persistence.
var (
	// ErrReviewNotFound is returned when a review id does not resolve.
	ErrReviewNotFound = errors.New("review not found")

	// ErrDuplicateReview is returned when the (business_user, reviewer)
	// unique constraint rejects an insert. The constraint is the
	// authoritative duplicate signal; there is no application-level
	// pre-check that could race.
	ErrDuplicateReview = errors.New("review already exists for this business and reviewer")
)

// ReviewOrdering selects the sort order for review listings.
type ReviewOrdering string

const (
	// ReviewOrderByUpdatedAt sorts by last modification time.
	ReviewOrderByUpdatedAt ReviewOrdering = "updated_at"
	// ReviewOrderByRating sorts by rating value.
	ReviewOrderByRating ReviewOrdering = "rating"
)

// ReviewFilter describes the unpaginated review listing query.
type ReviewFilter struct {
	BusinessUserID *uuid.UUID
	ReviewerID     *uuid.UUID
	Ordering       ReviewOrdering
}

// ReviewRepository defines the standard operations for review persistence.
type ReviewRepository interface {
	// Create persists a new review. A unique-constraint violation is
	// translated to ErrDuplicateReview.
	Create(ctx context.Context, review *entity.Review) error

	// FindByID retrieves a single review by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)

	// Update modifies an existing review.
	Update(ctx context.Context, review *entity.Review) error

	// Delete removes a review.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns all matching reviews.
	List(ctx context.Context, filter ReviewFilter) ([]entity.Review, error)

	// Count returns the total number of reviews.
	Count(ctx context.Context) (int64, error)

	// AverageRating returns the mean rating over all reviews, 0 when there
	// are none.
	AverageRating(ctx context.Context) (float64, error)
}
