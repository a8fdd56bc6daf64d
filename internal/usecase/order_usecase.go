package usecase

import (
	"context"
	"time"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// OrderUsecase defines the interface for order-related business operations.
type OrderUsecase interface {
	// CreateOrder snapshots the given detail into a new in_progress order
	// for the calling customer.
	CreateOrder(ctx context.Context, principal entity.Principal, offerDetailID uuid.UUID) (*OrderView, error)

	// ListOrders returns all orders where the caller is a party, either as
	// customer or as business. Other callers simply see an empty list.
	ListOrders(ctx context.Context, principal entity.Principal) ([]OrderView, error)

	// UpdateOrderStatus applies a status patch. The patch may contain only
	// the "status" key; any other key fails validation outright.
	UpdateOrderStatus(ctx context.Context, principal entity.Principal, id uuid.UUID, patch map[string]any) (*OrderView, error)

	// DeleteOrder removes an order. Admin only.
	DeleteOrder(ctx context.Context, principal entity.Principal, id uuid.UUID) error

	// CountOrders counts a business user's orders in the given status.
	// Public; aggregate counts are not considered sensitive.
	CountOrders(ctx context.Context, businessUserID uuid.UUID, status entity.OrderStatus) (int64, error)
}

// OrderView is the outward projection of an order snapshot.
type OrderView struct {
	ID                 uuid.UUID `json:"id"`
	CustomerUser       uuid.UUID `json:"customer_user"`
	BusinessUser       uuid.UUID `json:"business_user"`
	Title              string    `json:"title"`
	Revisions          int       `json:"revisions"`
	DeliveryTimeInDays int       `json:"delivery_time_in_days"`
	Price              float64   `json:"price"`
	Features           []string  `json:"features"`
	OfferType          string    `json:"offer_type"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// NewOrderView projects an order entity into its outward shape.
func NewOrderView(order *entity.Order) *OrderView {
	features := order.Features
	if features == nil {
		features = []string{}
	}

	return &OrderView{
		ID:                 order.ID,
		CustomerUser:       order.CustomerUserID,
		BusinessUser:       order.BusinessUserID,
		Title:              order.Title,
		Revisions:          order.Revisions,
		DeliveryTimeInDays: order.DeliveryTimeInDays,
		Price:              order.Price,
		Features:           features,
		OfferType:          order.OfferType,
		Status:             order.Status.String(),
		CreatedAt:          order.CreatedAt,
		UpdatedAt:          order.UpdatedAt,
	}
}
