package impl

import (
	"context"
	"testing"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	mockRepo "market/internal/mocks/repository"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// reviewServiceFixtures holds all test dependencies for review service tests.
type reviewServiceFixtures struct {
	txHelper
	service usecase.ReviewUsecase
}

func createTestReviewService(t *testing.T) reviewServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	service := NewReviewService(txManager, newDiscardLogger())

	return reviewServiceFixtures{
		txHelper: txHelper{t: t, txManager: txManager},
		service:  service,
	}
}

func TestReviewService_CreateReview_Success(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	principal := customerPrincipal()
	businessID := uuid.New()
	input := &usecase.CreateReviewInput{
		BusinessUser: businessID,
		Rating:       4,
		Description:  "Fast and reliable",
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockReviewRepo := mockRepo.NewMockReviewRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().ReviewRepo().Return(mockReviewRepo)
		mockUserRepo.EXPECT().FindByID(ctx, businessID).
			Return(&entity.User{ID: businessID, Role: entity.RoleBusiness}, nil)
		mockReviewRepo.EXPECT().
			Create(ctx, mock.AnythingOfType("*entity.Review")).
			RunAndReturn(func(_ context.Context, review *entity.Review) error {
				review.ID = uuid.New()

				return nil
			})
	})

	view, err := fx.service.CreateReview(ctx, principal, input)

	require.NoError(t, err)
	assert.Equal(t, businessID, view.BusinessUser)
	assert.Equal(t, principal.ID, view.Reviewer)
	assert.Equal(t, 4, view.Rating)
}

func TestReviewService_CreateReview_ForbiddenForBusiness(t *testing.T) {
	fx := createTestReviewService(t)

	input := &usecase.CreateReviewInput{BusinessUser: uuid.New(), Rating: 5}

	_, err := fx.service.CreateReview(context.Background(), businessPrincipal(), input)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestReviewService_CreateReview_RatingOutOfRange(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	principal := customerPrincipal()

	for _, rating := range []int{0, 6, -1} {
		input := &usecase.CreateReviewInput{BusinessUser: uuid.New(), Rating: rating}

		_, err := fx.service.CreateReview(ctx, principal, input)

		assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	}
}

func TestReviewService_CreateReview_TargetNotBusiness(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	targetID := uuid.New()
	input := &usecase.CreateReviewInput{BusinessUser: targetID, Rating: 3}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByID(ctx, targetID).
			Return(&entity.User{ID: targetID, Role: entity.RoleCustomer}, nil)
	})

	_, err := fx.service.CreateReview(ctx, customerPrincipal(), input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestReviewService_CreateReview_Duplicate(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	businessID := uuid.New()
	input := &usecase.CreateReviewInput{BusinessUser: businessID, Rating: 5}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockReviewRepo := mockRepo.NewMockReviewRepository(t)

		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().ReviewRepo().Return(mockReviewRepo)
		mockUserRepo.EXPECT().FindByID(ctx, businessID).
			Return(&entity.User{ID: businessID, Role: entity.RoleBusiness}, nil)
		mockReviewRepo.EXPECT().
			Create(ctx, mock.AnythingOfType("*entity.Review")).
			Return(repository.ErrDuplicateReview)
	})

	_, err := fx.service.CreateReview(ctx, customerPrincipal(), input)

	assert.ErrorIs(t, err, domainerrors.ErrConflict)
}

func TestReviewService_UpdateReview_ReviewerSuccess(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	principal := customerPrincipal()
	reviewID := uuid.New()
	stored := &entity.Review{
		ID:             reviewID,
		BusinessUserID: uuid.New(),
		ReviewerID:     principal.ID,
		Rating:         2,
		Description:    "meh",
	}

	newRating := 5
	newDescription := "turned out great"
	input := &usecase.UpdateReviewInput{Rating: &newRating, Description: &newDescription}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockReviewRepo := mockRepo.NewMockReviewRepository(t)
		factory.EXPECT().ReviewRepo().Return(mockReviewRepo)
		mockReviewRepo.EXPECT().FindByID(ctx, reviewID).Return(stored, nil)
		mockReviewRepo.EXPECT().Update(ctx, stored).Return(nil)
	})

	view, err := fx.service.UpdateReview(ctx, principal, reviewID, input)

	require.NoError(t, err)
	assert.Equal(t, 5, view.Rating)
	assert.Equal(t, "turned out great", view.Description)
}

func TestReviewService_UpdateReview_NotReviewer(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	reviewID := uuid.New()
	stored := &entity.Review{ID: reviewID, ReviewerID: uuid.New()}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockReviewRepo := mockRepo.NewMockReviewRepository(t)
		factory.EXPECT().ReviewRepo().Return(mockReviewRepo)
		mockReviewRepo.EXPECT().FindByID(ctx, reviewID).Return(stored, nil)
	})

	_, err := fx.service.UpdateReview(ctx, customerPrincipal(), reviewID, &usecase.UpdateReviewInput{})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestReviewService_DeleteReview_ReviewerSuccess(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	principal := customerPrincipal()
	reviewID := uuid.New()
	stored := &entity.Review{ID: reviewID, ReviewerID: principal.ID}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockReviewRepo := mockRepo.NewMockReviewRepository(t)
		factory.EXPECT().ReviewRepo().Return(mockReviewRepo)
		mockReviewRepo.EXPECT().FindByID(ctx, reviewID).Return(stored, nil)
		mockReviewRepo.EXPECT().Delete(ctx, reviewID).Return(nil)
	})

	err := fx.service.DeleteReview(ctx, principal, reviewID)

	require.NoError(t, err)
}

func TestReviewService_ListReviews_AnonymousDenied(t *testing.T) {
	fx := createTestReviewService(t)

	_, err := fx.service.ListReviews(context.Background(), entity.Anonymous(), &usecase.ListReviewsQuery{})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestReviewService_ListReviews_FiltersForwarded(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()
	businessID := uuid.New()
	query := &usecase.ListReviewsQuery{BusinessUserID: &businessID, Ordering: "rating"}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockReviewRepo := mockRepo.NewMockReviewRepository(t)
		factory.EXPECT().ReviewRepo().Return(mockReviewRepo)
		mockReviewRepo.EXPECT().
			List(ctx, mock.AnythingOfType("repository.ReviewFilter")).
			RunAndReturn(func(_ context.Context, filter repository.ReviewFilter) ([]entity.Review, error) {
				assert.Equal(t, &businessID, filter.BusinessUserID)
				assert.Equal(t, repository.ReviewOrderByRating, filter.Ordering)

				return []entity.Review{{ID: uuid.New(), BusinessUserID: businessID, Rating: 4}}, nil
			})
	})

	views, err := fx.service.ListReviews(ctx, customerPrincipal(), query)

	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, businessID, views[0].BusinessUser)
}

func TestReviewService_Stats_RoundsAverage(t *testing.T) {
	fx := createTestReviewService(t)

	ctx := context.Background()

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockReviewRepo := mockRepo.NewMockReviewRepository(t)
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)

		factory.EXPECT().ReviewRepo().Return(mockReviewRepo)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockReviewRepo.EXPECT().Count(ctx).Return(int64(3), nil)
		mockReviewRepo.EXPECT().AverageRating(ctx).Return(4.6666667, nil)
		mockUserRepo.EXPECT().CountByRole(ctx, entity.RoleBusiness).Return(int64(12), nil)
		mockOfferRepo.EXPECT().Count(ctx).Return(int64(30), nil)
	})

	info, err := fx.service.Stats(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(3), info.ReviewCount)
	assert.Equal(t, 4.7, info.AverageRating)
	assert.Equal(t, int64(12), info.BusinessProfileCount)
	assert.Equal(t, int64(30), info.OfferCount)
}
