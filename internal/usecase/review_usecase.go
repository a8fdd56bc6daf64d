package usecase

import (
	"context"
	"time"

	"market/internal/domain/entity"
	"market/internal/domain/repository"

	"github.com/google/uuid"
)

// ReviewUsecase defines the interface for review-related business operations
// and the public aggregate snapshot.
type ReviewUsecase interface {
	// CreateReview records a customer's one-time rating of a business.
	CreateReview(ctx context.Context, principal entity.Principal, input *CreateReviewInput) (*ReviewView, error)

	// UpdateReview patches a review. Reviewer only.
	UpdateReview(ctx context.Context, principal entity.Principal, id uuid.UUID, input *UpdateReviewInput) (*ReviewView, error)

	// DeleteReview removes a review. Reviewer only.
	DeleteReview(ctx context.Context, principal entity.Principal, id uuid.UUID) error

	// ListReviews returns all matching reviews, unpaginated.
	ListReviews(ctx context.Context, principal entity.Principal, query *ListReviewsQuery) ([]ReviewView, error)

	// Stats returns the public aggregate snapshot, computed on demand.
	Stats(ctx context.Context) (*BaseInfo, error)
}

// --- Input DTOs ---

// CreateReviewInput defines the data required to create a review.
type CreateReviewInput struct {
	BusinessUser uuid.UUID `json:"business_user" validate:"required"`
	Rating       int       `json:"rating" validate:"required,min=1,max=5"`
	Description  string    `json:"description"`
}

// UpdateReviewInput defines the patchable review fields.
type UpdateReviewInput struct {
	Rating      *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Description *string `json:"description,omitempty"`
}

// ListReviewsQuery mirrors the supported review listing parameters.
type ListReviewsQuery struct {
	BusinessUserID *uuid.UUID
	ReviewerID     *uuid.UUID
	Ordering       string // "updated_at" or "rating".
}

// --- Output DTOs ---

// ReviewView is the outward projection of a review.
type ReviewView struct {
	ID           uuid.UUID `json:"id"`
	BusinessUser uuid.UUID `json:"business_user"`
	Reviewer     uuid.UUID `json:"reviewer"`
	Rating       int       `json:"rating"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// BaseInfo is the public aggregate snapshot.
type BaseInfo struct {
	ReviewCount          int64   `json:"review_count"`
	AverageRating        float64 `json:"average_rating"`
	BusinessProfileCount int64   `json:"business_profile_count"`
	OfferCount           int64   `json:"offer_count"`
}

// NewReviewView projects a review entity into its outward shape.
func NewReviewView(review *entity.Review) *ReviewView {
	return &ReviewView{
		ID:           review.ID,
		BusinessUser: review.BusinessUserID,
		Reviewer:     review.ReviewerID,
		Rating:       review.Rating,
		Description:  review.Description,
		CreatedAt:    review.CreatedAt,
		UpdatedAt:    review.UpdatedAt,
	}
}

// ReviewOrderingFromString maps the query parameter to the repository
// ordering, defaulting to last-updated.
func ReviewOrderingFromString(s string) repository.ReviewOrdering {
	if s == string(repository.ReviewOrderByRating) {
		return repository.ReviewOrderByRating
	}

	return repository.ReviewOrderByUpdatedAt
}
