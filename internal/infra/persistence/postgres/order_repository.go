package postgres

import (
	"context"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	"market/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// orderRepository implements the domain's OrderRepository interface using GORM.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{db: db}
}

// Create persists a new order snapshot.
func (repo *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	orderM := fromOrderDomain(order)

	if err := repo.db.WithContext(ctx).Create(orderM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrOfferDetailNotFound
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required order information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create order")
	}

	order.ID = orderM.ID
	order.CreatedAt = orderM.CreatedAt
	order.UpdatedAt = orderM.UpdatedAt

	return nil
}

// FindByID retrieves a single order by its unique ID.
func (repo *orderRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var orderM model.OrderModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, errors.Wrap(err, "failed to find order by id")
	}

	return toOrderDomain(&orderM), nil
}

// ListForUser returns all orders where the user participates on either side,
// newest first.
func (repo *orderRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]entity.Order, error) {
	var models []model.OrderModel
	if err := repo.db.WithContext(ctx).
		Where("customer_user_id = ? OR business_user_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list orders for user")
	}

	orders := make([]entity.Order, 0, len(models))
	for i := range models {
		orders = append(orders, *toOrderDomain(&models[i]))
	}

	return orders, nil
}

// UpdateStatus performs a guarded transition. The WHERE clause pins the
// expected current status, so two concurrent transitions cannot both win;
// the loser sees zero affected rows.
func (repo *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to entity.OrderStatus) error {
	result := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("id = ? AND status = ?", id, from.String()).
		Update("status", to.String())
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to update order status")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderStatusConflict
	}

	return nil
}

// Delete removes an order.
func (repo *orderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.OrderModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete order")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOrderNotFound
	}

	return nil
}

// CountForBusiness counts the orders of a business user in the given status.
func (repo *orderRepository) CountForBusiness(ctx context.Context, businessUserID uuid.UUID, status entity.OrderStatus) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.OrderModel{}).
		Where("business_user_id = ? AND status = ?", businessUserID, status.String()).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count orders for business")
	}

	return count, nil
}

// --- Mapper Functions ---

func toOrderDomain(data *model.OrderModel) *entity.Order {
	if data == nil {
		return nil
	}

	return &entity.Order{
		ID:                 data.ID,
		CustomerUserID:     data.CustomerUserID,
		BusinessUserID:     data.BusinessUserID,
		OfferDetailID:      data.OfferDetailID,
		Title:              data.Title,
		Revisions:          data.Revisions,
		DeliveryTimeInDays: data.DeliveryTimeInDays,
		Price:              data.Price,
		Features:           data.Features,
		OfferType:          data.OfferType,
		Status:             entity.OrderStatus(data.Status),
		CreatedAt:          data.CreatedAt,
		UpdatedAt:          data.UpdatedAt,
	}
}

func fromOrderDomain(data *entity.Order) *model.OrderModel {
	if data == nil {
		return nil
	}

	features := data.Features
	if features == nil {
		features = []string{}
	}

	return &model.OrderModel{
		ID:                 data.ID,
		CustomerUserID:     data.CustomerUserID,
		BusinessUserID:     data.BusinessUserID,
		OfferDetailID:      data.OfferDetailID,
		Title:              data.Title,
		Revisions:          data.Revisions,
		DeliveryTimeInDays: data.DeliveryTimeInDays,
		Price:              data.Price,
		Features:           features,
		OfferType:          data.OfferType,
		Status:             data.Status.String(),
	}
}
