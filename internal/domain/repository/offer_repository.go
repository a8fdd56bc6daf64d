package repository

import (
	"context"
	"errors"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors surfaced by offer persistence.
var (
	// ErrOfferNotFound is returned when an offer id does not resolve.
	ErrOfferNotFound = errors.New("offer not found")

	// ErrOfferDetailNotFound is returned when a detail id does not resolve.
	ErrOfferDetailNotFound = errors.New("offer detail not found")

	// ErrOfferDetailInUse is returned when deleting a detail that orders
	// still reference (ON DELETE RESTRICT).
	ErrOfferDetailInUse = errors.New("offer detail referenced by orders")
)

// OfferOrdering selects the sort order for offer listings.
type OfferOrdering string

const (
	// OrderByUpdatedAtDesc sorts most recently updated offers first. Default.
	OrderByUpdatedAtDesc OfferOrdering = "-updated_at"
	// OrderByUpdatedAtAsc sorts least recently updated offers first.
	OrderByUpdatedAtAsc OfferOrdering = "updated_at"
)

// OfferFilter describes the windowed offer listing query. Nil pointer fields
// are unset. MinPrice and MaxDeliveryTime apply to the offer's aggregated
// minimums, not to individual tiers.
type OfferFilter struct {
	OwnerID         *uuid.UUID
	MinPrice        *float64
	MaxDeliveryTime *int
	Search          string // Free-text match over title and description.
	Ordering        OfferOrdering
	Offset          int
	Limit           int
}

// OfferRepository defines the standard operations for offer persistence.
// All implementations load and store an offer together with its details.
type OfferRepository interface {
	// Create persists a new offer and all of its details as one unit.
	Create(ctx context.Context, offer *entity.Offer) error

	// FindByID retrieves an offer with its full detail list.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error)

	// FindDetailByID retrieves a single detail row. Inside a transaction the
	// implementation takes a share lock on the row so that order creation can
	// snapshot it without racing a concurrent edit or delete.
	FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.OfferDetail, error)

	// List returns the matching window of offers with details preloaded,
	// plus the total match count for pagination metadata.
	List(ctx context.Context, filter OfferFilter) ([]entity.Offer, int64, error)

	// Update replaces the offer's base fields and the supplied detail rows.
	Update(ctx context.Context, offer *entity.Offer) error

	// Delete removes an offer; its details are cascade-deleted.
	Delete(ctx context.Context, id uuid.UUID) error

	// Count returns the total number of offers.
	Count(ctx context.Context) (int64, error)
}
