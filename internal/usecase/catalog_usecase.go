package usecase

import (
	"context"
	"fmt"
	"time"

	"market/internal/domain/entity"
	"market/internal/domain/repository"

	"github.com/google/uuid"
)

// CatalogUsecase defines the interface for offer-related business operations.
type CatalogUsecase interface {
	// CreateOffer persists a new offer with at least three detail tiers.
	// Ownership is set to the caller, never client-supplied.
	CreateOffer(ctx context.Context, principal entity.Principal, input *CreateOfferInput) (*OfferView, error)

	// ListOffers returns a filtered, sorted window of offers. Public.
	ListOffers(ctx context.Context, query *ListOffersQuery) (*OfferListPage, error)

	// GetOffer returns a single offer with full tier bodies. Authenticated.
	GetOffer(ctx context.Context, principal entity.Principal, id uuid.UUID) (*OfferView, error)

	// GetOfferDetail returns a single tier body. Authenticated.
	GetOfferDetail(ctx context.Context, principal entity.Principal, id uuid.UUID) (*OfferDetailView, error)

	// UpdateOffer patches an offer. Supplied tiers are matched to existing
	// rows by offer_type, never by client-asserted row id.
	UpdateOffer(ctx context.Context, principal entity.Principal, id uuid.UUID, input *UpdateOfferInput) (*OfferView, error)

	// DeleteOffer removes an offer; allowed for the owner or an admin.
	DeleteOffer(ctx context.Context, principal entity.Principal, id uuid.UUID) error
}

// --- Input DTOs ---

// OfferDetailInput is one full tier body. Every field is required whenever a
// tier is supplied; there is no partial-tier patch.
type OfferDetailInput struct {
	Title              string   `json:"title" validate:"required"`
	Revisions          *int     `json:"revisions" validate:"required,min=0"`
	DeliveryTimeInDays *int     `json:"delivery_time_in_days" validate:"required,min=0"`
	Price              *float64 `json:"price" validate:"required,min=0"`
	Features           []string `json:"features" validate:"required"`
	OfferType          string   `json:"offer_type" validate:"required"`
}

// CreateOfferInput defines the data required to publish an offer.
type CreateOfferInput struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Image       *string            `json:"image,omitempty"`
	Details     []OfferDetailInput `json:"details" validate:"required,dive"`
}

// UpdateOfferInput defines an offer patch. Nil base fields are left
// untouched. Supplied tiers must each carry a complete body and are matched
// to stored rows by OfferType.
type UpdateOfferInput struct {
	Title       *string            `json:"title,omitempty"`
	Description *string            `json:"description,omitempty"`
	Image       *string            `json:"image,omitempty"`
	Details     []OfferDetailInput `json:"details,omitempty" validate:"omitempty,dive"`
}

// ListOffersQuery mirrors the supported listing parameters.
type ListOffersQuery struct {
	CreatorID       *uuid.UUID
	MinPrice        *float64
	MaxDeliveryTime *int
	Search          string
	Ordering        string // "updated_at" or "-updated_at"; default newest first.
	Offset          int
	Limit           int
}

// --- Output DTOs ---

// OwnerSnapshot is the denormalized owner reference embedded in list items.
type OwnerSnapshot struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// DetailRef is the reduced {id, url} reference used in list views.
type DetailRef struct {
	ID  uuid.UUID `json:"id"`
	URL string    `json:"url"`
}

// OfferDetailView is the full tier body used in detail views.
type OfferDetailView struct {
	ID                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Revisions          int       `json:"revisions"`
	DeliveryTimeInDays int       `json:"delivery_time_in_days"`
	Price              float64   `json:"price"`
	Features           []string  `json:"features"`
	OfferType          string    `json:"offer_type"`
}

// OfferView is the single-offer projection with full tier bodies and the
// derived aggregates.
type OfferView struct {
	ID              uuid.UUID         `json:"id"`
	UserID          uuid.UUID         `json:"user"`
	Title           string            `json:"title"`
	Image           string            `json:"image"`
	Description     string            `json:"description"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	Details         []OfferDetailView `json:"details"`
	MinPrice        float64           `json:"min_price"`
	MinDeliveryTime int               `json:"min_delivery_time"`
}

// OfferListItem is the reduced listing projection: details as links, plus
// aggregates and the owner snapshot.
type OfferListItem struct {
	ID              uuid.UUID     `json:"id"`
	UserID          uuid.UUID     `json:"user"`
	Title           string        `json:"title"`
	Image           string        `json:"image"`
	Description     string        `json:"description"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
	Details         []DetailRef   `json:"details"`
	MinPrice        float64       `json:"min_price"`
	MinDeliveryTime int           `json:"min_delivery_time"`
	UserDetails     OwnerSnapshot `json:"user_details"`
}

// OfferListPage carries one listing window and the total match count.
type OfferListPage struct {
	Count   int64           `json:"count"`
	Results []OfferListItem `json:"results"`
}

// NewOfferView projects an offer entity with full tier bodies.
func NewOfferView(offer *entity.Offer) *OfferView {
	details := make([]OfferDetailView, 0, len(offer.Details))
	for i := range offer.Details {
		details = append(details, *NewOfferDetailView(&offer.Details[i]))
	}

	return &OfferView{
		ID:              offer.ID,
		UserID:          offer.UserID,
		Title:           offer.Title,
		Image:           offer.Image,
		Description:     offer.Description,
		CreatedAt:       offer.CreatedAt,
		UpdatedAt:       offer.UpdatedAt,
		Details:         details,
		MinPrice:        offer.MinPrice(),
		MinDeliveryTime: offer.MinDeliveryTime(),
	}
}

// NewOfferDetailView projects a single tier.
func NewOfferDetailView(detail *entity.OfferDetail) *OfferDetailView {
	features := detail.Features
	if features == nil {
		features = []string{}
	}

	return &OfferDetailView{
		ID:                 detail.ID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price,
		Features:           features,
		OfferType:          detail.OfferType,
	}
}

// NewOfferListItem projects an offer entity into the reduced list shape.
// The owner snapshot is denormalized from the preloaded owner.
func NewOfferListItem(offer *entity.Offer, owner *entity.User) *OfferListItem {
	refs := make([]DetailRef, 0, len(offer.Details))
	for _, d := range offer.Details {
		refs = append(refs, DetailRef{
			ID:  d.ID,
			URL: fmt.Sprintf("/api/offerdetails/%s/", d.ID),
		})
	}

	item := &OfferListItem{
		ID:              offer.ID,
		UserID:          offer.UserID,
		Title:           offer.Title,
		Image:           offer.Image,
		Description:     offer.Description,
		CreatedAt:       offer.CreatedAt,
		UpdatedAt:       offer.UpdatedAt,
		Details:         refs,
		MinPrice:        offer.MinPrice(),
		MinDeliveryTime: offer.MinDeliveryTime(),
	}
	if owner != nil {
		item.UserDetails = OwnerSnapshot{
			FirstName: owner.FirstName,
			LastName:  owner.LastName,
			Username:  owner.Username,
		}
	}

	return item
}

// OfferOrderingFromString maps the query parameter to the repository
// ordering, defaulting to newest first.
func OfferOrderingFromString(s string) repository.OfferOrdering {
	if s == string(repository.OrderByUpdatedAtAsc) {
		return repository.OrderByUpdatedAtAsc
	}

	return repository.OrderByUpdatedAtDesc
}
