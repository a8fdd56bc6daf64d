package impl

import (
	"context"
	"log/slog"

	"market/internal/domain/entity"
	domainerrors "market/internal/domain/errors"
	"market/internal/domain/policy"
	"market/internal/domain/repository"
	"market/internal/domain/service"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// userService implements the UserUsecase interface.
type userService struct {
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	tokenSvc  service.TokenService
	logger    *slog.Logger
}

// NewUserService is the constructor for userService.
func NewUserService(
	txManager repository.TransactionManager,
	hasher service.PasswordHasher,
	tokenSvc service.TokenService,
	logger *slog.Logger,
) usecase.UserUsecase {
	return &userService{
		txManager: txManager,
		hasher:    hasher,
		tokenSvc:  tokenSvc,
		logger:    logger,
	}
}

// Register creates a new account. The role is fixed here and never changes
// afterwards; duplicate usernames or emails surface as a conflict from the
// storage unique constraints.
func (srv *userService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutput, error) {
	role := entity.Role(input.Type)
	if !role.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithDetails(
			"type must be 'customer' or 'business'")
	}
	if input.Password != input.RepeatedPassword {
		return nil, domainerrors.ErrValidationFailed.WithDetails("passwords do not match")
	}

	hash, err := srv.hasher.Hash(input.Password)
	if err != nil {
		return nil, domainerrors.ErrPasswordHashFailed.WrapMessage("failed to hash password")
	}

	user := &entity.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}

	txErr := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.UserRepo().Create(ctx, user); err != nil {
			return errors.Wrap(err, "failed to create user")
		}

		return nil
	})
	if txErr != nil {
		return nil, errors.Wrap(txErr, "failed to register user")
	}

	token, err := srv.tokenSvc.GenerateToken(user.ID, user.Role, user.IsAdmin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token")
	}
	srv.logger.Info("user registered", "userID", user.ID, "role", user.Role)

	return &usecase.AuthOutput{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}

// Login verifies the credentials and returns a fresh access token. Unknown
// usernames and wrong passwords are indistinguishable to the caller.
func (srv *userService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutput, error) {
	var user *entity.User

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		found, err := repoFactory.UserRepo().FindByUsername(ctx, input.Username)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrInvalidCredentials, "unknown username")
			}

			return errors.Wrap(err, "failed to find user")
		}
		user = found

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to log in")
	}

	if !srv.hasher.Check(input.Password, user.PasswordHash) {
		return nil, errors.Wrap(domainerrors.ErrInvalidCredentials, "password mismatch")
	}

	token, err := srv.tokenSvc.GenerateToken(user.ID, user.Role, user.IsAdmin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate token")
	}
	srv.logger.Debug("user logged in", "userID", user.ID)

	return &usecase.AuthOutput{
		Token:    token,
		Username: user.Username,
		Email:    user.Email,
		UserID:   user.ID,
	}, nil
}

// GetProfile returns the profile projection for any authenticated caller.
func (srv *userService) GetProfile(ctx context.Context, principal entity.Principal, userID uuid.UUID) (*usecase.ProfileView, error) {
	if principal.IsAnonymous() {
		return nil, domainerrors.ErrForbidden.WithDetails("authentication required")
	}

	var view *usecase.ProfileView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		user, err := repoFactory.UserRepo().FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}
		view = usecase.NewProfileView(user)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to get profile")
	}

	return view, nil
}

// UpdateProfile patches profile fields. Owner only; the role field has no
// patch path at all.
func (srv *userService) UpdateProfile(ctx context.Context, principal entity.Principal, userID uuid.UUID, input *usecase.UpdateProfileInput) (*usecase.ProfileView, error) {
	if err := policy.Authorize(principal, policy.ActionProfileUpdate, userID); err != nil {
		return nil, errors.WithStack(err)
	}

	var view *usecase.ProfileView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		userRepo := repoFactory.UserRepo()

		user, err := userRepo.FindByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return errors.Wrap(domainerrors.ErrNotFound, "user not found")
			}

			return errors.Wrap(err, "failed to find user")
		}

		if input.FirstName != nil {
			user.FirstName = *input.FirstName
		}
		if input.LastName != nil {
			user.LastName = *input.LastName
		}
		if input.Email != nil {
			user.Email = *input.Email
		}
		if input.Location != nil {
			user.Location = *input.Location
		}
		if input.Tel != nil {
			user.Tel = *input.Tel
		}
		if input.Description != nil {
			user.Description = *input.Description
		}
		if input.WorkingHours != nil {
			user.WorkingHours = *input.WorkingHours
		}

		if err := userRepo.Update(ctx, user); err != nil {
			return errors.Wrap(err, "failed to update user")
		}
		view = usecase.NewProfileView(user)

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to update profile")
	}
	srv.logger.Info("profile updated", "userID", userID)

	return view, nil
}

// ListBusinessProfiles returns all business profiles.
func (srv *userService) ListBusinessProfiles(ctx context.Context, principal entity.Principal) ([]usecase.ProfileView, error) {
	return srv.listProfiles(ctx, principal, entity.RoleBusiness)
}

// ListCustomerProfiles returns all customer profiles.
func (srv *userService) ListCustomerProfiles(ctx context.Context, principal entity.Principal) ([]usecase.ProfileView, error) {
	return srv.listProfiles(ctx, principal, entity.RoleCustomer)
}

func (srv *userService) listProfiles(ctx context.Context, principal entity.Principal, role entity.Role) ([]usecase.ProfileView, error) {
	if principal.IsAnonymous() {
		return nil, domainerrors.ErrForbidden.WithDetails("authentication required")
	}

	var views []usecase.ProfileView

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		users, err := repoFactory.UserRepo().ListByRole(ctx, role)
		if err != nil {
			return errors.Wrap(err, "failed to list users")
		}

		views = make([]usecase.ProfileView, 0, len(users))
		for i := range users {
			views = append(views, *usecase.NewProfileView(&users[i]))
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to list profiles")
	}

	return views, nil
}
