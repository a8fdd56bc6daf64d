package entity

import (
	"time"

	"github.com/google/uuid"
)

// MinOfferDetails is the minimum number of priced tiers an offer must carry
// at creation time.
const MinOfferDetails = 3

// Offer is a business user's service listing. It owns an ordered collection
// of priced tiers (OfferDetail) which are cascade-deleted with it.
type Offer struct {
	ID          uuid.UUID
	UserID      uuid.UUID // The owning business user.
	Owner       *User     // Preloaded owner for denormalized list snapshots; may be nil.
	Title       string
	Description string
	Image       string // Optional image reference; empty when absent.
	Details     []OfferDetail
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OfferDetail is one priced tier of an offer. Within an offer the OfferType
// value acts as the matching key for updates; when duplicates exist the first
// match wins.
type OfferDetail struct {
	ID                 uuid.UUID
	OfferID            uuid.UUID
	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              float64 // decimal(10,2) in storage.
	Features           []string
	OfferType          string
}

// MinPrice returns the minimum price over the offer's details, recomputed on
// every call. Returns 0 when the offer has no details.
func (o *Offer) MinPrice() float64 {
	if len(o.Details) == 0 {
		return 0
	}

	min := o.Details[0].Price
	for _, d := range o.Details[1:] {
		if d.Price < min {
			min = d.Price
		}
	}

	return min
}

// MinDeliveryTime returns the minimum delivery time in days over the offer's
// details. Returns 0 when the offer has no details.
func (o *Offer) MinDeliveryTime() int {
	if len(o.Details) == 0 {
		return 0
	}

	min := o.Details[0].DeliveryTimeInDays
	for _, d := range o.Details[1:] {
		if d.DeliveryTimeInDays < min {
			min = d.DeliveryTimeInDays
		}
	}

	return min
}

// DetailByType returns the first detail whose OfferType matches the given
// tag, or nil when no tier matches.
func (o *Offer) DetailByType(offerType string) *OfferDetail {
	for i := range o.Details {
		if o.Details[i].OfferType == offerType {
			return &o.Details[i]
		}
	}

	return nil
}
