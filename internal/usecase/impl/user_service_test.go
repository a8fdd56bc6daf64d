package impl

import (
	"context"
	"testing"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/repository"
	mockRepo "market/internal/mocks/repository"
	mockService "market/internal/mocks/service"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// userServiceFixtures holds all test dependencies for user service tests.
type userServiceFixtures struct {
	txHelper
	service  usecase.UserUsecase
	hasher   *mockService.MockPasswordHasher
	tokenSvc *mockService.MockTokenService
}

func createTestUserService(t *testing.T) userServiceFixtures {
	txManager := mockRepo.NewMockTransactionManager(t)
	hasher := mockService.NewMockPasswordHasher(t)
	tokenSvc := mockService.NewMockTokenService(t)
	service := NewUserService(txManager, hasher, tokenSvc, newDiscardLogger())

	return userServiceFixtures{
		txHelper: txHelper{t: t, txManager: txManager},
		service:  service,
		hasher:   hasher,
		tokenSvc: tokenSvc,
	}
}

func TestUserService_Register_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()
	input := &usecase.RegisterInput{
		Username:         "exampleUsername",
		Email:            "example@mail.de",
		Password:         "examplePassword",
		RepeatedPassword: "examplePassword",
		Type:             "customer",
	}

	fx.hasher.EXPECT().Hash("examplePassword").Return("hashed", nil)
	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().
			Create(ctx, mock.AnythingOfType("*entity.User")).
			RunAndReturn(func(_ context.Context, user *entity.User) error {
				assert.Equal(t, "hashed", user.PasswordHash)
				assert.Equal(t, entity.RoleCustomer, user.Role)
				user.ID = userID

				return nil
			})
	})
	fx.tokenSvc.EXPECT().GenerateToken(userID, entity.RoleCustomer, false).Return("signed-token", nil)

	output, err := fx.service.Register(ctx, input)

	require.NoError(t, err)
	assert.Equal(t, "signed-token", output.Token)
	assert.Equal(t, "exampleUsername", output.Username)
	assert.Equal(t, "example@mail.de", output.Email)
	assert.Equal(t, userID, output.UserID)
}

func TestUserService_Register_InvalidRole(t *testing.T) {
	fx := createTestUserService(t)

	input := &usecase.RegisterInput{
		Username:         "u",
		Email:            "u@mail.de",
		Password:         "pw",
		RepeatedPassword: "pw",
		Type:             "admin",
	}

	_, err := fx.service.Register(context.Background(), input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_Register_PasswordMismatch(t *testing.T) {
	fx := createTestUserService(t)

	input := &usecase.RegisterInput{
		Username:         "u",
		Email:            "u@mail.de",
		Password:         "first",
		RepeatedPassword: "second",
		Type:             "business",
	}

	_, err := fx.service.Register(context.Background(), input)

	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestUserService_Register_DuplicateUsername(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	input := &usecase.RegisterInput{
		Username:         "taken",
		Email:            "taken@mail.de",
		Password:         "pw",
		RepeatedPassword: "pw",
		Type:             "customer",
	}

	fx.hasher.EXPECT().Hash("pw").Return("hashed", nil)
	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().
			Create(ctx, mock.AnythingOfType("*entity.User")).
			Return(domainerrors.ErrUserAlreadyExists)
	})

	_, err := fx.service.Register(ctx, input)

	assert.ErrorIs(t, err, domainerrors.ErrUserAlreadyExists)
}

func TestUserService_Login_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := &entity.User{
		ID:           uuid.New(),
		Username:     "exampleUsername",
		Email:        "example@mail.de",
		PasswordHash: "hashed",
		Role:         entity.RoleBusiness,
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByUsername(ctx, "exampleUsername").Return(user, nil)
	})
	fx.hasher.EXPECT().Check("examplePassword", "hashed").Return(true)
	fx.tokenSvc.EXPECT().GenerateToken(user.ID, entity.RoleBusiness, false).Return("signed-token", nil)

	output, err := fx.service.Login(ctx, &usecase.LoginInput{
		Username: "exampleUsername",
		Password: "examplePassword",
	})

	require.NoError(t, err)
	assert.Equal(t, "signed-token", output.Token)
	assert.Equal(t, user.ID, output.UserID)
}

func TestUserService_Login_UnknownUsername(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByUsername(ctx, "ghost").Return(nil, repository.ErrUserNotFound)
	})

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "ghost", Password: "pw"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := &entity.User{ID: uuid.New(), Username: "u", PasswordHash: "hashed"}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByUsername(ctx, "u").Return(user, nil)
	})
	fx.hasher.EXPECT().Check("wrong", "hashed").Return(false)

	_, err := fx.service.Login(ctx, &usecase.LoginInput{Username: "u", Password: "wrong"})

	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
}

func TestUserService_GetProfile_AnonymousDenied(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.GetProfile(context.Background(), entity.Anonymous(), uuid.New())

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	userID := uuid.New()

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByID(ctx, userID).Return(nil, repository.ErrUserNotFound)
	})

	_, err := fx.service.GetProfile(ctx, customerPrincipal(), userID)

	assert.ErrorIs(t, err, domainerrors.ErrNotFound)
}

func TestUserService_GetProfile_NormalizedFields(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	user := &entity.User{
		ID:       uuid.New(),
		Username: "exampleUsername",
		Email:    "example@mail.de",
		Role:     entity.RoleBusiness,
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByID(ctx, user.ID).Return(user, nil)
	})

	view, err := fx.service.GetProfile(ctx, customerPrincipal(), user.ID)

	require.NoError(t, err)
	// Unset optional fields project as empty strings, never null.
	assert.Equal(t, "", view.FirstName)
	assert.Equal(t, "", view.Location)
	assert.Equal(t, "business", view.Type)
}

func TestUserService_UpdateProfile_OwnerSuccess(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	principal := customerPrincipal()
	user := &entity.User{
		ID:       principal.ID,
		Username: "exampleUsername",
		Email:    "old@mail.de",
		Role:     entity.RoleCustomer,
	}

	firstName := "Max"
	location := "Berlin"
	input := &usecase.UpdateProfileInput{
		FirstName: &firstName,
		Location:  &location,
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().FindByID(ctx, principal.ID).Return(user, nil)
		mockUserRepo.EXPECT().Update(ctx, user).Return(nil)
	})

	view, err := fx.service.UpdateProfile(ctx, principal, principal.ID, input)

	require.NoError(t, err)
	assert.Equal(t, "Max", view.FirstName)
	assert.Equal(t, "Berlin", view.Location)
	// Untouched fields survive the patch.
	assert.Equal(t, "old@mail.de", view.Email)
}

func TestUserService_UpdateProfile_NotOwner(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.UpdateProfile(context.Background(), customerPrincipal(), uuid.New(), &usecase.UpdateProfileInput{})

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}

func TestUserService_ListBusinessProfiles_Success(t *testing.T) {
	fx := createTestUserService(t)

	ctx := context.Background()
	users := []entity.User{
		{ID: uuid.New(), Username: "studioA", Role: entity.RoleBusiness},
		{ID: uuid.New(), Username: "studioB", Role: entity.RoleBusiness},
	}

	fx.onExecute(ctx, func(factory *mockRepo.MockRepositoryFactory) {
		mockUserRepo := mockRepo.NewMockUserRepository(t)
		factory.EXPECT().UserRepo().Return(mockUserRepo)
		mockUserRepo.EXPECT().ListByRole(ctx, entity.RoleBusiness).Return(users, nil)
	})

	views, err := fx.service.ListBusinessProfiles(ctx, customerPrincipal())

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "studioA", views[0].Username)
}

func TestUserService_ListCustomerProfiles_AnonymousDenied(t *testing.T) {
	fx := createTestUserService(t)

	_, err := fx.service.ListCustomerProfiles(context.Background(), entity.Anonymous())

	assert.ErrorIs(t, err, domainerrors.ErrForbidden)
}
