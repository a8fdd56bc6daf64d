package entity

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	// OrderInProgress is the initial state of every order.
	OrderInProgress OrderStatus = "in_progress"
	// OrderCompleted is a terminal state reached from in_progress.
	OrderCompleted OrderStatus = "completed"
	// OrderCancelled is a terminal state reached from in_progress.
	OrderCancelled OrderStatus = "cancelled"
)

// String returns the string representation of the OrderStatus.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid checks if the OrderStatus is a declared value.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderInProgress, OrderCompleted, OrderCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCancelled
}

// CanTransitionTo reports whether the state machine permits moving from this
// status to the target. Only in_progress -> completed and
// in_progress -> cancelled are legal.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	return s == OrderInProgress && (target == OrderCompleted || target == OrderCancelled)
}

// Order is an immutable snapshot of one OfferDetail, taken when a customer
// commits to purchase. The tier fields are copied at creation and never
// re-read from the live detail, so later offer edits do not affect existing
// orders.
type Order struct {
	ID             uuid.UUID
	CustomerUserID uuid.UUID
	BusinessUserID uuid.UUID // The detail's offer owner at creation time.
	OfferDetailID  uuid.UUID // Reference kept for traceability; protected against deletion.

	Title              string
	Revisions          int
	DeliveryTimeInDays int
	Price              float64
	Features           []string
	OfferType          string

	Status    OrderStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrderFromDetail snapshots the given detail into a fresh in_progress
// order for the customer. businessUserID must be the detail's offer owner.
func NewOrderFromDetail(customerUserID, businessUserID uuid.UUID, detail *OfferDetail) *Order {
	features := make([]string, len(detail.Features))
	copy(features, detail.Features)

	return &Order{
		CustomerUserID:     customerUserID,
		BusinessUserID:     businessUserID,
		OfferDetailID:      detail.ID,
		Title:              detail.Title,
		Revisions:          detail.Revisions,
		DeliveryTimeInDays: detail.DeliveryTimeInDays,
		Price:              detail.Price,
		Features:           features,
		OfferType:          detail.OfferType,
		Status:             OrderInProgress,
	}
}
