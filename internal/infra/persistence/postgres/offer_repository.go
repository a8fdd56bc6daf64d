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
	"gorm.io/gorm/clause"
)

// offerRepository implements the domain's OfferRepository interface using GORM.
type offerRepository struct {
	db *gorm.DB
}

// NewOfferRepository is the constructor for offerRepository.
func NewOfferRepository(db *gorm.DB) repository.OfferRepository {
	return &offerRepository{db: db}
}

// Create persists a new offer together with all of its detail rows. GORM
// inserts the Details association in the same statement batch.
func (repo *offerRepository) Create(ctx context.Context, offer *entity.Offer) error {
	offerM := fromOfferDomain(offer)

	if err := repo.db.WithContext(ctx).Create(offerM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("offer owner does not exist")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required offer information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create offer")
	}

	// Copy back generated IDs and timestamps so the caller can build the
	// response from the entity alone.
	offer.ID = offerM.ID
	offer.CreatedAt = offerM.CreatedAt
	offer.UpdatedAt = offerM.UpdatedAt
	for i := range offerM.Details {
		offer.Details[i].ID = offerM.Details[i].ID
		offer.Details[i].OfferID = offerM.Details[i].OfferID
	}

	return nil
}

// FindByID retrieves an offer with its full detail list preloaded.
func (repo *offerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Offer, error) {
	var offerM model.OfferModel
	if err := repo.db.WithContext(ctx).
		Preload("Details").
		Where("id = ?", id).
		First(&offerM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOfferNotFound
		}

		return nil, errors.Wrap(err, "failed to find offer by id")
	}

	return toOfferDomain(&offerM), nil
}

// FindDetailByID retrieves a single detail row under a share lock. Inside a
// transaction the lock holds until commit, so an order snapshot cannot race
// a concurrent detail edit or delete; outside a transaction the lock only
// spans the statement, which is harmless.
func (repo *offerRepository) FindDetailByID(ctx context.Context, id uuid.UUID) (*entity.OfferDetail, error) {
	var detailM model.OfferDetailModel
	if err := repo.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "SHARE"}).
		Where("id = ?", id).
		First(&detailM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOfferDetailNotFound
		}

		return nil, errors.Wrap(err, "failed to find offer detail by id")
	}

	return toOfferDetailDomain(&detailM), nil
}

// List returns the matching window of offers plus the total match count.
// Price and delivery filters apply to each offer's aggregated minimum over
// its tiers, so the query joins and groups on the detail rows.
func (repo *offerRepository) List(ctx context.Context, filter repository.OfferFilter) ([]entity.Offer, int64, error) {
	var total int64
	if err := repo.listQuery(ctx, filter).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to count offers")
	}

	order := "offers.updated_at DESC"
	if filter.Ordering == repository.OrderByUpdatedAtAsc {
		order = "offers.updated_at ASC"
	}

	var models []model.OfferModel
	if err := repo.listQuery(ctx, filter).
		Select("offers.*").
		Order(order).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Preload("Details").
		Preload("Owner").
		Find(&models).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed to list offers")
	}

	offers := make([]entity.Offer, 0, len(models))
	for i := range models {
		offers = append(offers, *toOfferDomain(&models[i]))
	}

	return offers, total, nil
}

// listQuery builds the shared filtered query for List. Both the count and
// the page fetch must see identical predicates.
func (repo *offerRepository) listQuery(ctx context.Context, filter repository.OfferFilter) *gorm.DB {
	query := repo.db.WithContext(ctx).
		Model(&model.OfferModel{}).
		Joins("JOIN offer_details ON offer_details.offer_id = offers.id").
		Group("offers.id")

	if filter.OwnerID != nil {
		query = query.Where("offers.user_id = ?", *filter.OwnerID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("offers.title ILIKE ? OR offers.description ILIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Having("MIN(offer_details.price) >= ?", *filter.MinPrice)
	}
	if filter.MaxDeliveryTime != nil {
		query = query.Having("MIN(offer_details.delivery_time_in_days) <= ?", *filter.MaxDeliveryTime)
	}

	return query
}

// Update replaces the offer's base fields and upserts the supplied detail
// rows in one save.
func (repo *offerRepository) Update(ctx context.Context, offer *entity.Offer) error {
	offerM := fromOfferDomain(offer)

	if err := repo.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(offerM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required offer information")
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("offer values out of range")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update offer")
	}

	offer.UpdatedAt = offerM.UpdatedAt

	return nil
}

// Delete removes an offer; its detail rows go with it through the CASCADE
// constraint. A RESTRICT violation means an order still references one of
// the details.
func (repo *offerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.OfferModel{})
	if result.Error != nil {
		if isForeignKeyConstraintViolation(result.Error) {
			return repository.ErrOfferDetailInUse
		}

		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete offer")
	}
	if result.RowsAffected == 0 {
		return repository.ErrOfferNotFound
	}

	return nil
}

// Count returns the total number of offers.
func (repo *offerRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.OfferModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count offers")
	}

	return count, nil
}

// --- Mapper Functions ---

func toOfferDomain(data *model.OfferModel) *entity.Offer {
	if data == nil {
		return nil
	}

	details := make([]entity.OfferDetail, 0, len(data.Details))
	for i := range data.Details {
		details = append(details, *toOfferDetailDomain(&data.Details[i]))
	}

	return &entity.Offer{
		ID:          data.ID,
		UserID:      data.UserID,
		Owner:       toUserDomain(data.Owner),
		Title:       data.Title,
		Description: data.Description,
		Image:       derefString(data.Image),
		Details:     details,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}
}

func fromOfferDomain(data *entity.Offer) *model.OfferModel {
	if data == nil {
		return nil
	}

	details := make([]model.OfferDetailModel, 0, len(data.Details))
	for i := range data.Details {
		details = append(details, *fromOfferDetailDomain(&data.Details[i]))
	}

	return &model.OfferModel{
		ID:          data.ID,
		UserID:      data.UserID,
		Title:       data.Title,
		Description: data.Description,
		Image:       nullableString(data.Image),
		Details:     details,
	}
}

func toOfferDetailDomain(data *model.OfferDetailModel) *entity.OfferDetail {
	if data == nil {
		return nil
	}

	return &entity.OfferDetail{
		ID:                 data.ID,
		OfferID:            data.OfferID,
		Title:              data.Title,
		Revisions:          data.Revisions,
		DeliveryTimeInDays: data.DeliveryTimeInDays,
		Price:              data.Price,
		Features:           data.Features,
		OfferType:          data.OfferType,
	}
}

func fromOfferDetailDomain(data *entity.OfferDetail) *model.OfferDetailModel {
	if data == nil {
		return nil
	}

	features := data.Features
	if features == nil {
		features = []string{}
	}

	return &model.OfferDetailModel{
		ID:                 data.ID,
		OfferID:            data.OfferID,
		Title:              data.Title,
		Revisions:          data.Revisions,
		DeliveryTimeInDays: data.DeliveryTimeInDays,
		Price:              data.Price,
		Features:           features,
		OfferType:          data.OfferType,
	}
}
