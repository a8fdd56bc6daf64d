package impl

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/policy"
	"market/internal/domain/repository"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// reviewService implements the ReviewUsecase interface.
type reviewService struct {
	txManager repository.TransactionManager
	logger    *slog.Logger
}

// NewReviewService is the constructor for reviewService.
func NewReviewService(
	txManager repository.TransactionManager,
	logger *slog.Logger,
) usecase.ReviewUsecase {
	return &reviewService{
		txManager: txManager,
		logger:    logger,
	}
}

// CreateReview records a one-time rating. The duplicate check is the storage
// unique constraint, translated here to a conflict; two concurrent identical
// submissions cannot both succeed.
func (srv *reviewService) CreateReview(ctx context.Context, principal entity.Principal, input *usecase.CreateReviewInput) (*usecase.ReviewView, error) {
	if err := policy.Authorize(principal, policy.ActionReviewCreate, uuid.Nil); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	review := &entity.Review{
		BusinessUserID: input.BusinessUser,
		ReviewerID:     principal.ID,
		Rating:         input.Rating,
		Description:    input.Description,
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		business, err := repoFactory.UserRepo().FindByID(ctx, input.BusinessUser)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "business user not found")
			}

			return errors.Wrap(err, "failed to find business user")
		}
		if business.Role != entity.RoleBusiness {
			return domainerrors.ErrValidationFailed.WithDetails("business_user must reference a business profile")
		}

		if err := repoFactory.ReviewRepo().Create(ctx, review); err != nil {
			if errors.Is(err, repository.ErrDuplicateReview) {
				return errors.Wrap(domainerrors.ErrConflict, "you have already reviewed this business")
			}

			return errors.Wrap(err, "failed to create review")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create review")
	}
	srv.logger.Info("review created",
		"reviewID", review.ID, "reviewerID", principal.ID, "businessID", input.BusinessUser)

	return usecase.NewReviewView(review), nil
}

// UpdateReview patches a review. Reviewer only.
func (srv *reviewService) UpdateReview(ctx context.Context, principal entity.Principal, id uuid.UUID, input *usecase.UpdateReviewInput) (*usecase.ReviewView, error) {
	if input.Rating != nil {
		if err := validateRating(*input.Rating); err != nil {
			return nil, err
		}
	}

	var review *entity.Review

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		found, err := reviewRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "review not found")
			}

			return errors.Wrap(err, "failed to find review")
		}
		review = found

		if err := policy.Authorize(principal, policy.ActionReviewUpdate, review.ReviewerID); err != nil {
			return errors.WithStack(err)
		}

		if input.Rating != nil {
			review.Rating = *input.Rating
		}
		if input.Description != nil {
			review.Description = *input.Description
		}

		if err := reviewRepo.Update(ctx, review); err != nil {
			return errors.Wrap(err, "failed to update review")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update review")
	}
	srv.logger.Info("review updated", "reviewID", id)

	return usecase.NewReviewView(review), nil
}

// DeleteReview removes a review. Reviewer only.
func (srv *reviewService) DeleteReview(ctx context.Context, principal entity.Principal, id uuid.UUID) error {
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		review, err := reviewRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrReviewNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "review not found")
			}

			return errors.Wrap(err, "failed to find review")
		}

		if err := policy.Authorize(principal, policy.ActionReviewDelete, review.ReviewerID); err != nil {
			return errors.WithStack(err)
		}

		if err := reviewRepo.Delete(ctx, id); err != nil {
			return errors.Wrap(err, "failed to delete review")
		}

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to delete review")
	}
	srv.logger.Info("review deleted", "reviewID", id)

	return nil
}

// ListReviews returns all matching reviews, unpaginated.
func (srv *reviewService) ListReviews(ctx context.Context, principal entity.Principal, query *usecase.ListReviewsQuery) ([]usecase.ReviewView, error) {
	if principal.IsAnonymous() {
		return nil, domainerrors.ErrForbidden.WithDetails("authentication required")
	}

	filter := repository.ReviewFilter{
		BusinessUserID: query.BusinessUserID,
		ReviewerID:     query.ReviewerID,
		Ordering:       usecase.ReviewOrderingFromString(query.Ordering),
	}

	var views []usecase.ReviewView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviews, err := repoFactory.ReviewRepo().List(ctx, filter)
		if err != nil {
			return errors.Wrap(err, "failed to list reviews")
		}

		views = make([]usecase.ReviewView, 0, len(reviews))
		for i := range reviews {
			views = append(views, *usecase.NewReviewView(&reviews[i]))
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list reviews")
	}

	return views, nil
}

// Stats computes the public aggregate snapshot on demand.
func (srv *reviewService) Stats(ctx context.Context) (*usecase.BaseInfo, error) {
	var info *usecase.BaseInfo

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		reviewRepo := repoFactory.ReviewRepo()

		reviewCount, err := reviewRepo.Count(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to count reviews")
		}

		avgRating, err := reviewRepo.AverageRating(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to average ratings")
		}

		businessCount, err := repoFactory.UserRepo().CountByRole(ctx, entity.RoleBusiness)
		if err != nil {
			return errors.Wrap(err, "failed to count business profiles")
		}

		offerCount, err := repoFactory.OfferRepo().Count(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to count offers")
		}

		info = &usecase.BaseInfo{
			ReviewCount:          reviewCount,
			AverageRating:        math.Round(avgRating*10) / 10,
			BusinessProfileCount: businessCount,
			OfferCount:           offerCount,
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to compute base info")
	}

	return info, nil
}

func validateRating(rating int) error {
	if rating < entity.MinRating || rating > entity.MaxRating {
		return domainerrors.ErrValidationFailed.WithDetails(
			fmt.Sprintf("rating must be between %d and %d", entity.MinRating, entity.MaxRating))
	}

	return nil
}
