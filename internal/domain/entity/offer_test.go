package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOffer_MinPrice(t *testing.T) {
	offer := &Offer{
		Details: []OfferDetail{
			{Price: 110, DeliveryTimeInDays: 7},
			{Price: 100, DeliveryTimeInDays: 5},
			{Price: 120, DeliveryTimeInDays: 3},
		},
	}

	assert.Equal(t, 100.0, offer.MinPrice())
	assert.Equal(t, 3, offer.MinDeliveryTime())
}

func TestOffer_MinPrice_Recomputed(t *testing.T) {
	offer := &Offer{
		Details: []OfferDetail{
			{Price: 100},
			{Price: 110},
			{Price: 120},
		},
	}
	assert.Equal(t, 100.0, offer.MinPrice())

	// Aggregates are derived from the live details, never cached.
	offer.Details[0].Price = 150
	assert.Equal(t, 110.0, offer.MinPrice())
}

func TestOffer_MinPrice_Empty(t *testing.T) {
	offer := &Offer{}

	assert.Equal(t, 0.0, offer.MinPrice())
	assert.Equal(t, 0, offer.MinDeliveryTime())
}

func TestOffer_DetailByType(t *testing.T) {
	offer := &Offer{
		Details: []OfferDetail{
			{Title: "Basic", OfferType: "basic"},
			{Title: "Standard", OfferType: "standard"},
			{Title: "Standard v2", OfferType: "standard"},
		},
	}

	detail := offer.DetailByType("standard")
	assert.NotNil(t, detail)
	// Duplicate tags resolve to the first match.
	assert.Equal(t, "Standard", detail.Title)

	assert.Nil(t, offer.DetailByType("premium"))
}
