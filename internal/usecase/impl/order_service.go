package impl

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/policy"
	"market/internal/domain/repository"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// orderService implements the OrderUsecase interface.
type orderService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewOrderService is the constructor for orderService.
func NewOrderService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.OrderUsecase {
	return &orderService{
		txManager: txManager,
		logger:    logger,
	}
}

// CreateOrder snapshots the chosen detail into a new order. The detail row
// is read under a share lock inside the transaction, so a concurrent edit or
// delete cannot produce a partial snapshot.
func (srv *orderService) CreateOrder(ctx context.Context, principal entity.Principal, offerDetailID uuid.UUID) (*usecase.OrderView, error) {
	if err := policy.Authorize(principal, policy.ActionOrderCreate, uuid.Nil); err != nil {
		return nil, errors.WithStack(err)
	}

	var order *entity.Order

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		offerRepo := repoFactory.OfferRepo()

		detail, err := offerRepo.FindDetailByID(ctx, offerDetailID)
		if err != nil {
			if errors.Is(err, repository.ErrOfferDetailNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "offer detail not found")
			}

			return errors.Wrap(err, "failed to find offer detail")
		}

		offer, err := offerRepo.FindByID(ctx, detail.OfferID)
		if err != nil {
			return errors.Wrap(err, "failed to find parent offer")
		}

		order = entity.NewOrderFromDetail(principal.ID, offer.UserID, detail)
		if err := repoFactory.OrderRepo().Create(ctx, order); err != nil {
			return errors.Wrap(err, "failed to create order")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create order")
	}
	srv.logger.Info("order created",
		"orderID", order.ID, "customerID", order.CustomerUserID, "businessID", order.BusinessUserID)

	return usecase.NewOrderView(order), nil
}

// ListOrders returns orders the caller participates in. The result is scoped
// by caller, not denied: a caller with no orders gets an empty list.
func (srv *orderService) ListOrders(ctx context.Context, principal entity.Principal) ([]usecase.OrderView, error) {
	if principal.IsAnonymous() {
		return nil, domainerrors.ErrForbidden.WithDetails("authentication required")
	}

	var views []usecase.OrderView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orders, err := repoFactory.OrderRepo().ListForUser(ctx, principal.ID)
		if err != nil {
			return errors.Wrap(err, "failed to list orders")
		}

		views = make([]usecase.OrderView, 0, len(orders))
		for i := range orders {
			views = append(views, *usecase.NewOrderView(&orders[i]))
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list orders")
	}

	return views, nil
}

// UpdateOrderStatus applies a strict status-only patch. Unknown fields are
// rejected outright with their names, never silently ignored.
func (srv *orderService) UpdateOrderStatus(ctx context.Context, principal entity.Principal, id uuid.UUID, patch map[string]any) (*usecase.OrderView, error) {
	statusValue, err := extractStatusPatch(patch)
	if err != nil {
		return nil, err
	}

	var order *entity.Order

	txErr := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		found, err := orderRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "order not found")
			}

			return errors.Wrap(err, "failed to find order")
		}
		order = found

		if err := policy.Authorize(principal, policy.ActionOrderUpdateStatus, order.BusinessUserID); err != nil {
			return errors.WithStack(err)
		}

		newStatus := entity.OrderStatus(statusValue)
		if !newStatus.IsValid() {
			return domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf(
				"status must be one of %s, %s, %s",
				entity.OrderInProgress, entity.OrderCompleted, entity.OrderCancelled))
		}
		if !order.Status.CanTransitionTo(newStatus) {
			return domainerrors.ErrValidationFailed.WithDetails(fmt.Sprintf(
				"cannot transition order from '%s' to '%s'", order.Status, newStatus))
		}

		if err := orderRepo.UpdateStatus(ctx, id, order.Status, newStatus); err != nil {
			if errors.Is(err, repository.ErrOrderStatusConflict) {
				return errors.Wrap(domainerrors.ErrConflict, "order status changed concurrently")
			}

			return errors.Wrap(err, "failed to update order status")
		}
		order.Status = newStatus

		return nil
	})
	if txErr != nil {
		return nil, errors.Wrap(txErr, "failed to update order status")
	}
	srv.logger.Info("order status updated", "orderID", id, "status", order.Status)

	return usecase.NewOrderView(order), nil
}

// DeleteOrder removes an order. Admin only.
func (srv *orderService) DeleteOrder(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		orderRepo := repoFactory.OrderRepo()

		order, err := orderRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrOrderNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "order not found")
			}

			return errors.Wrap(err, "failed to find order")
		}

		if err := policy.Authorize(principal, policy.ActionOrderDelete, order.BusinessUserID); err != nil {
			return errors.WithStack(err)
		}

		if err := orderRepo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete order")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete order")
	}
	srv.logger.Info("order deleted", "orderID", id)

	return nil
}

// CountOrders returns a public aggregate count.
func (srv *orderService) CountOrders(ctx context.Context, businessUserID uuid.UUID, status entity.OrderStatus) (int64, error) {
	if !status.IsValid() {
		return 0, domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("unknown order status '%s'", status))
	}

	var count int64

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		c, err := repoFactory.OrderRepo().CountForBusiness(ctx, businessUserID, status)
		if err != nil {
			return errors.Wrap(err, "failed to count orders")
		}
		count = c

		return nil
	})
	if err != nil {
		return 0, errors.Wrap(err, "failed to count orders")
	}

	return count, nil
}

// extractStatusPatch enforces the strict patch contract: exactly one key,
// "status", holding a string.
func extractStatusPatch(patch map[string]any) (string, error) {
	var unknown []string
	for key := range patch {
		if key != "status" {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)

		return "", domainerrors.ErrValidationFailed.WithDetails(
			"unknown fields in order patch: " + strings.Join(unknown, ", "))
	}

	raw, ok := patch["status"]
	if !ok {
		return "", domainerrors.ErrValidationFailed.WithDetails("status field is required")
	}
	value, ok := raw.(string)
	if !ok {
		return "", domainerrors.ErrValidationFailed.WithDetails("status must be a string")
	}

	return value, nil
}
