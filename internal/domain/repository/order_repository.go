package repository

import (
	"context"
	"errors"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors surfaced by order persistence.
var (
	// ErrOrderNotFound is returned when an order id does not resolve.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderStatusConflict is returned when a guarded status update
	// matched no row, meaning the order changed state concurrently.
	ErrOrderStatusConflict = errors.New("order status changed concurrently")
)

// OrderRepository defines the standard operations for order persistence.
type OrderRepository interface {
	// Create persists a new order snapshot.
	Create(ctx context.Context, order *entity.Order) error

	// FindByID retrieves a single order by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)

	// ListForUser returns all orders where the user is either the customer
	// or the business party, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Order, error)

	// UpdateStatus performs a guarded transition: the row is updated only if
	// it still holds the expected current status. A zero-row result yields
	// ErrOrderStatusConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) error

	// Delete removes an order.
	Delete(ctx context.Context, id uuid.UUID) error

	// CountForBusiness counts the orders of a business user in the given status.
	CountForBusiness(ctx context.Context, businessUserID uuid.UUID, status entity.OrderStatus) (int64, error)
}
