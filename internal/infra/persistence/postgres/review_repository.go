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

// reviewRepository implements the domain's ReviewRepository interface using GORM.
type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

// Create persists a new review. The composite unique index decides
// duplicates; there is no pre-check that could race a concurrent insert.
func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateReview
		}
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("rating out of range")
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("reviewed user does not exist")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}

	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt
	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// FindByID retrieves a single review by its unique ID.
func (repo *reviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	var reviewM model.ReviewModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&reviewM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrReviewNotFound
		}

		return nil, errors.Wrap(err, "failed to find review by id")
	}

	return toReviewDomain(&reviewM), nil
}

// Update modifies an existing review.
func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)

	if err := repo.db.WithContext(ctx).Save(reviewM).Error; err != nil {
		if isCheckConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("rating out of range")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update review")
	}

	review.UpdatedAt = reviewM.UpdatedAt

	return nil
}

// Delete removes a review.
func (repo *reviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := repo.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ReviewModel{})
	if result.Error != nil {
		return domainerrors.NewDatabaseExecuteError(result.Error, "failed to delete review")
	}
	if result.RowsAffected == 0 {
		return repository.ErrReviewNotFound
	}

	return nil
}

// List returns all matching reviews.
func (repo *reviewRepository) List(ctx context.Context, filter repository.ReviewFilter) ([]entity.Review, error) {
	query := repo.db.WithContext(ctx).Model(&model.ReviewModel{})

	if filter.BusinessUserID != nil {
		query = query.Where("business_user_id = ?", *filter.BusinessUserID)
	}
	if filter.ReviewerID != nil {
		query = query.Where("reviewer_id = ?", *filter.ReviewerID)
	}

	order := "updated_at DESC"
	if filter.Ordering == repository.ReviewOrderByRating {
		order = "rating DESC"
	}

	var models []model.ReviewModel
	if err := query.Order(order).Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]entity.Review, 0, len(models))
	for i := range models {
		reviews = append(reviews, *toReviewDomain(&models[i]))
	}

	return reviews, nil
}

// Count returns the total number of reviews.
func (repo *reviewRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count reviews")
	}

	return count, nil
}

// AverageRating returns the mean rating over all reviews, 0 when there are
// none.
func (repo *reviewRepository) AverageRating(ctx context.Context) (float64, error) {
	var average float64
	if err := repo.db.WithContext(ctx).
		Model(&model.ReviewModel{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&average).Error; err != nil {
		return 0, errors.Wrap(err, "failed to compute average rating")
	}

	return average, nil
}

// --- Mapper Functions ---

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	if data == nil {
		return nil
	}

	return &entity.Review{
		ID:             data.ID,
		BusinessUserID: data.BusinessUserID,
		ReviewerID:     data.ReviewerID,
		Rating:         data.Rating,
		Description:    data.Description,
		CreatedAt:      data.CreatedAt,
		UpdatedAt:      data.UpdatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	if data == nil {
		return nil
	}

	return &model.ReviewModel{
		ID:             data.ID,
		BusinessUserID: data.BusinessUserID,
		ReviewerID:     data.ReviewerID,
		Rating:         data.Rating,
		Description:    data.Description,
	}
}
