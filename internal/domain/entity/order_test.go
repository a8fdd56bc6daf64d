package entity

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	assert.True(t, OrderInProgress.CanTransitionTo(OrderCompleted))
	assert.True(t, OrderInProgress.CanTransitionTo(OrderCancelled))

	// Terminal states have no outgoing transitions.
	assert.False(t, OrderCompleted.CanTransitionTo(OrderInProgress))
	assert.False(t, OrderCompleted.CanTransitionTo(OrderCancelled))
	assert.False(t, OrderCancelled.CanTransitionTo(OrderCompleted))

	assert.False(t, OrderInProgress.CanTransitionTo(OrderInProgress))
	assert.False(t, OrderInProgress.CanTransitionTo(OrderStatus("archived")))
}

func TestOrderStatus_IsValid(t *testing.T) {
	assert.True(t, OrderInProgress.IsValid())
	assert.True(t, OrderCompleted.IsValid())
	assert.True(t, OrderCancelled.IsValid())
	assert.False(t, OrderStatus("archived").IsValid())
	assert.False(t, OrderStatus("").IsValid())
}

func TestNewOrderFromDetail_Snapshot(t *testing.T) {
	customerID := uuid.New()
	businessID := uuid.New()
	detail := &OfferDetail{
		ID:                 uuid.New(),
		Title:              "Basic",
		Revisions:          2,
		DeliveryTimeInDays: 5,
		Price:              100,
		Features:           []string{"Logo", "Visitenkarte"},
		OfferType:          "basic",
	}

	order := NewOrderFromDetail(customerID, businessID, detail)

	assert.Equal(t, customerID, order.CustomerUserID)
	assert.Equal(t, businessID, order.BusinessUserID)
	assert.Equal(t, detail.ID, order.OfferDetailID)
	assert.Equal(t, OrderInProgress, order.Status)
	assert.Equal(t, 100.0, order.Price)

	// The snapshot must not alias the live detail.
	detail.Price = 250
	detail.Features[0] = "changed"
	assert.Equal(t, 100.0, order.Price)
	assert.Equal(t, "Logo", order.Features[0])
}
