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

// userRepository implements the domain's UserRepository interface using GORM.
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository is the constructor for userRepository.
// It returns the repository as a domain interface, adhering to dependency inversion.
func NewUserRepository(db *gorm.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// FindByID retrieves a single user by their unique ID.
func (repo *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&userM).Error; err != nil {
		// If the error is 'record not found', return a domain-specific error.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by id")
	}

	// Map the persistence model back to a pure domain entity before returning.
	return toUserDomain(&userM), nil
}

// FindByUsername retrieves a single user by their login name.
func (repo *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	var userM model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("username = ?", username).
		First(&userM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrUserNotFound
		}

		return nil, errors.Wrap(err, "failed to find user by username")
	}

	return toUserDomain(&userM), nil
}

// Create persists a new user entity to the database.
func (repo *userRepository) Create(ctx context.Context, user *entity.User) error {
	// Map the pure domain entity to a GORM persistence model.
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Create(userM).Error; err != nil {
		// Convert PostgreSQL errors to domain errors
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create user")
	}

	// Update the user entity with the generated ID and timestamps
	user.ID = userM.ID
	user.CreatedAt = userM.CreatedAt
	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// Update modifies an existing user entity in the database.
func (repo *userRepository) Update(ctx context.Context, user *entity.User) error {
	userM := fromUserDomain(user)

	if err := repo.db.WithContext(ctx).Save(userM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrUserAlreadyExists
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrValidationFailed.WithDetails("missing required user information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to update user")
	}

	user.UpdatedAt = userM.UpdatedAt

	return nil
}

// ListByRole returns all users holding the given role, oldest first so
// profile listings are stable across requests.
func (repo *userRepository) ListByRole(ctx context.Context, role entity.Role) ([]entity.User, error) {
	var models []model.UserModel
	if err := repo.db.WithContext(ctx).
		Where("role = ?", role.String()).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list users by role")
	}

	users := make([]entity.User, 0, len(models))
	for i := range models {
		users = append(users, *toUserDomain(&models[i]))
	}

	return users, nil
}

// CountByRole returns the number of users holding the given role.
func (repo *userRepository) CountByRole(ctx context.Context, role entity.Role) (int64, error) {
	var count int64
	if err := repo.db.WithContext(ctx).
		Model(&model.UserModel{}).
		Where("role = ?", role.String()).
		Count(&count).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count users by role")
	}

	return count, nil
}

// --- Mapper Functions ---
// These helpers convert between domain entities and persistence models.

// toUserDomain converts a GORM UserModel to a domain User entity. Nullable
// profile columns collapse to "" here, so the rest of the application never
// sees a nil profile field.
func toUserDomain(data *model.UserModel) *entity.User {
	if data == nil {
		return nil
	}

	return &entity.User{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Role:         entity.Role(data.Role),
		IsAdmin:      data.IsAdmin,
		FirstName:    derefString(data.FirstName),
		LastName:     derefString(data.LastName),
		Location:     derefString(data.Location),
		Tel:          derefString(data.Tel),
		Description:  derefString(data.Description),
		WorkingHours: derefString(data.WorkingHours),
		CreatedAt:    data.CreatedAt,
		UpdatedAt:    data.UpdatedAt,
	}
}

// fromUserDomain converts a domain User entity to a GORM UserModel for
// persistence. Empty profile strings are stored as NULL.
func fromUserDomain(data *entity.User) *model.UserModel {
	if data == nil {
		return nil
	}

	return &model.UserModel{
		ID:           data.ID,
		Username:     data.Username,
		Email:        data.Email,
		PasswordHash: data.PasswordHash,
		Role:         data.Role.String(),
		IsAdmin:      data.IsAdmin,
		FirstName:    nullableString(data.FirstName),
		LastName:     nullableString(data.LastName),
		Location:     nullableString(data.Location),
		Tel:          nullableString(data.Tel),
		Description:  nullableString(data.Description),
		WorkingHours: nullableString(data.WorkingHours),
	}
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
