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

// catalogServiceFixtures holds all test dependencies for catalog service tests.
type catalogServiceFixtures struct {
	txHelper
	service usecase.CatalogUsecase
}

func createTestCatalogService(t *testing.T) catalogServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	service := NewCatalogService(txManager, newDiscardLogger())

	return catalogServiceFixtures{
		txHelper: txHelper{t: t, txManager: txManager},
		service:  service,
	}
}

func detailInput(offerType string, price float64) usecase.OfferDetailInput {
	revisions := 2
	delivery := 5

	return usecase.OfferDetailInput{
		Title:              offerType + " package",
		Revisions:          &revisions,
		DeliveryTimeInDays: &delivery,
		Price:              &price,
		Features:           []string{"logo design"},
		OfferType:          offerType,
	}
}

func validCreateOfferInput() *usecase.CreateOfferInput {
	return &usecase.CreateOfferInput{
		Title:       "Graphic Design",
		Description: "Professional design work",
		Details: []usecase.OfferDetailInput{
			detailInput("basic", 50),
			detailInput("standard", 100),
			detailInput("premium", 200),
		},
	}
}

func TestCatalogService_CreateOffer_Success(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := businessPrincipal()
	input := validCreateOfferInput()

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().
			Create(ctx, mock.AnythingOfType("*entity.Offer")).
			RunAndReturn(func(_ context.Context, offer *entity.Offer) error {
				offer.ID = uuid.New()

				return nil
			})
	})

	view, err := fx.service.CreateOffer(ctx, principal, input)

	require.NoError(t, err)
	assert.Equal(t, input.Title, view.Title)
	assert.Equal(t, principal.ID, view.UserID)
	assert.Len(t, view.Details, 3)
	assert.Equal(t, float64(50), view.MinPrice)
	assert.Equal(t, 5, view.MinDeliveryTime)
}

func TestCatalogService_CreateOffer_ForbiddenForCustomer(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()

	view, err := fx.service.CreateOffer(ctx, customerPrincipal(), validCreateOfferInput())

	assert.Nil(t, view)
	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestCatalogService_CreateOffer_TooFewDetails(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	input := &usecase.CreateOfferInput{
		Title:       "Graphic Design",
		Description: "Professional design work",
		Details: []usecase.OfferDetailInput{
			detailInput("basic", 50),
			detailInput("standard", 100),
		},
	}

	_, err := fx.service.CreateOffer(ctx, businessPrincipal(), input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
	assert.Contains(t, err.Error(), "input validation failed")
}

func TestCatalogService_CreateOffer_MissingDetailFields(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	input := validCreateOfferInput()
	input.Details[1].Price = nil
	input.Details[1].Features = nil

	_, err := fx.service.CreateOffer(ctx, businessPrincipal(), input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "price")
	assert.Contains(t, appErr.Details(), "features")
}

func TestCatalogService_ListOffers_DefaultsAndProjection(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	owner := &entity.User{ID: uuid.New(), Username: "studio", FirstName: "Ada"}
	offers := []entity.Offer{
		{
			ID:     uuid.New(),
			UserID: owner.ID,
			Owner:  owner,
			Title:  "Graphic Design",
			Details: []entity.OfferDetail{
				{ID: uuid.New(), Price: 50, DeliveryTimeInDays: 3, OfferType: "basic"},
				{ID: uuid.New(), Price: 120, DeliveryTimeInDays: 7, OfferType: "premium"},
			},
		},
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().
			List(ctx, mock.AnythingOfType("repository.OfferFilter")).
			RunAndReturn(func(_ context.Context, filter repository.OfferFilter) ([]entity.Offer, int64, error) {
				assert.Equal(t, 20, filter.Limit)
				assert.Equal(t, repository.OrderByUpdatedAtDesc, filter.Ordering)

				return offers, 1, nil
			})
	})

	page, err := fx.service.ListOffers(ctx, &usecase.ListOffersQuery{})

	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Count)
	require.Len(t, page.Results, 1)
	item := page.Results[0]
	assert.Equal(t, float64(50), item.MinPrice)
	assert.Equal(t, 3, item.MinDeliveryTime)
	assert.Len(t, item.Details, 2)
	assert.Equal(t, "studio", item.UserDetails.Username)
}

func TestCatalogService_ListOffers_ClampsLimit(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().
			List(ctx, mock.AnythingOfType("repository.OfferFilter")).
			RunAndReturn(func(_ context.Context, filter repository.OfferFilter) ([]entity.Offer, int64, error) {
				assert.Equal(t, 100, filter.Limit)

				return nil, 0, nil
			})
	})

	_, err := fx.service.ListOffers(ctx, &usecase.ListOffersQuery{Limit: 5000})

	require.NoError(t, err)
}

func TestCatalogService_GetOffer_AnonymousDenied(t *testing.T) {
	fx := createTestCatalogService(t)

	_, err := fx.service.GetOffer(context.Background(), entity.Anonymous(), uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestCatalogService_GetOffer_NotFound(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	offerID := uuid.New()

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(nil, repository.ErrOfferNotFound)
	})

	_, err := fx.service.GetOffer(ctx, customerPrincipal(), offerID)

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestCatalogService_GetOfferDetail_Success(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	detail := &entity.OfferDetail{
		ID:        uuid.New(),
		OfferID:   uuid.New(),
		Title:     "basic package",
		Price:     50,
		OfferType: "basic",
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindDetailByID(ctx, detail.ID).Return(detail, nil)
	})

	view, err := fx.service.GetOfferDetail(ctx, customerPrincipal(), detail.ID)

	require.NoError(t, err)
	assert.Equal(t, detail.ID, view.ID)
	assert.Equal(t, "basic", view.OfferType)
}

func TestCatalogService_UpdateOffer_MatchesTierByType(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := businessPrincipal()
	offerID := uuid.New()
	basicID := uuid.New()
	stored := &entity.Offer{
		ID:     offerID,
		UserID: principal.ID,
		Title:  "Old Title",
		Details: []entity.OfferDetail{
			{ID: basicID, OfferID: offerID, Title: "basic package", Price: 50, OfferType: "basic"},
			{ID: uuid.New(), OfferID: offerID, Title: "premium package", Price: 200, OfferType: "premium"},
		},
	}

	newTitle := "New Title"
	patchedTier := detailInput("basic", 75)
	input := &usecase.UpdateOfferInput{
		Title:   &newTitle,
		Details: []usecase.OfferDetailInput{patchedTier},
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(stored, nil)
		mockOfferRepo.EXPECT().Update(ctx, stored).Return(nil)
	})

	view, err := fx.service.UpdateOffer(ctx, principal, offerID, input)

	require.NoError(t, err)
	assert.Equal(t, newTitle, view.Title)
	// The basic tier kept its stored row id and took the new price.
	assert.Equal(t, basicID, stored.Details[0].ID)
	assert.Equal(t, float64(75), stored.Details[0].Price)
	assert.Equal(t, float64(200), stored.Details[1].Price)
}

func TestCatalogService_UpdateOffer_UnknownTierType(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := businessPrincipal()
	offerID := uuid.New()
	stored := &entity.Offer{
		ID:     offerID,
		UserID: principal.ID,
		Details: []entity.OfferDetail{
			{ID: uuid.New(), OfferID: offerID, OfferType: "basic"},
		},
	}

	input := &usecase.UpdateOfferInput{
		Details: []usecase.OfferDetailInput{detailInput("platinum", 500)},
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(stored, nil)
	})

	_, err := fx.service.UpdateOffer(ctx, principal, offerID, input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "platinum")
}

func TestCatalogService_UpdateOffer_NotOwner(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	offerID := uuid.New()
	stored := &entity.Offer{ID: offerID, UserID: uuid.New()}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(stored, nil)
	})

	_, err := fx.service.UpdateOffer(ctx, businessPrincipal(), offerID, &usecase.UpdateOfferInput{})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestCatalogService_DeleteOffer_OwnerSuccess(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := businessPrincipal()
	offerID := uuid.New()
	stored := &entity.Offer{ID: offerID, UserID: principal.ID}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(stored, nil)
		mockOfferRepo.EXPECT().Delete(ctx, offerID).Return(nil)
	})

	err := fx.service.DeleteOffer(ctx, principal, offerID)

	require.NoError(t, err)
}

func TestCatalogService_DeleteOffer_AdminBypass(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	offerID := uuid.New()
	stored := &entity.Offer{ID: offerID, UserID: uuid.New()}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(stored, nil)
		mockOfferRepo.EXPECT().Delete(ctx, offerID).Return(nil)
	})

	err := fx.service.DeleteOffer(ctx, adminPrincipal(), offerID)

	require.NoError(t, err)
}

func TestCatalogService_CreateOffer_NegativeDetailValues(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	input := validCreateOfferInput()
	revisions := -3
	delivery := -7
	price := -50.0
	input.Details[0].Revisions = &revisions
	input.Details[0].DeliveryTimeInDays = &delivery
	input.Details[0].Price = &price

	view, err := fx.service.CreateOffer(ctx, businessPrincipal(), input)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "revisions")
	assert.Contains(t, appErr.Details(), "delivery_time_in_days")
	assert.Contains(t, appErr.Details(), "price")
}

func TestCatalogService_UpdateOffer_NegativeDetailValues(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := businessPrincipal()
	offerID := uuid.New()
	stored := &entity.Offer{
		ID:     offerID,
		UserID: principal.ID,
		Details: []entity.OfferDetail{
			{ID: uuid.New(), OfferID: offerID, OfferType: "basic", Price: 50},
		},
	}

	patch := detailInput("basic", -50)
	input := &usecase.UpdateOfferInput{
		Details: []usecase.OfferDetailInput{patch},
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(stored, nil)
	})

	_, err := fx.service.UpdateOffer(ctx, principal, offerID, input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "price")
	// The stored tier keeps its price when the patch is rejected.
	assert.Equal(t, float64(50), stored.Details[0].Price)
}

func TestCatalogService_UpdateOffer_NotOwnerMalformedPatch(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	offerID := uuid.New()
	stored := &entity.Offer{ID: offerID, UserID: uuid.New()}

	// The tier body is both incomplete and negative; a non-owner must
	// still see a plain authorization failure.
	price := -50.0
	input := &usecase.UpdateOfferInput{
		Details: []usecase.OfferDetailInput{{Price: &price}},
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(stored, nil)
	})

	_, err := fx.service.UpdateOffer(ctx, businessPrincipal(), offerID, input)

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
	assert.NotErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestCatalogService_DeleteOffer_DetailsReferencedByOrders(t *testing.T) {
	fx := createTestCatalogService(t)

	ctx := context.Background()
	principal := businessPrincipal()
	offerID := uuid.New()
	stored := &entity.Offer{ID: offerID, UserID: principal.ID}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockOfferRepo := mockRepo.NewMockOfferRepository(t)
		factory.EXPECT().OfferRepo().Return(mockOfferRepo)
		mockOfferRepo.EXPECT().FindByID(ctx, offerID).Return(stored, nil)
		mockOfferRepo.EXPECT().Delete(ctx, offerID).Return(repository.ErrOfferDetailInUse)
	})

	err := fx.service.DeleteOffer(ctx, principal, offerID)

	assert.ErrorIs(t, err, domainerrors.ErrConflict)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "orders")
}
