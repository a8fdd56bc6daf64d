// Package usecase contains the application-specific business rules.
package usecase

import (
	"context"
	"time"

	"market/internal/domain/entity"

	"github.com/google/uuid"
)

// UserUsecase defines the interface for identity and profile operations.
type UserUsecase interface {
	// Register creates a new account with the given role and returns an
	// access token for it.
	Register(ctx context.Context, input *RegisterInput) (*AuthOutput, error)

	// Login verifies credentials and returns an access token.
	Login(ctx context.Context, input *LoginInput) (*AuthOutput, error)

	// GetProfile returns the null-normalized profile projection. Any
	// authenticated caller may read any profile.
	GetProfile(ctx context.Context, principal entity.Principal, userID uuid.UUID) (*ProfileView, error)

	// UpdateProfile patches profile fields. Only the profile owner may
	// update; the role is not patchable.
	UpdateProfile(ctx context.Context, principal entity.Principal, userID uuid.UUID, input *UpdateProfileInput) (*ProfileView, error)

	// ListBusinessProfiles returns all business profiles, unpaginated.
	ListBusinessProfiles(ctx context.Context, principal entity.Principal) ([]ProfileView, error)

	// ListCustomerProfiles returns all customer profiles, unpaginated.
	ListCustomerProfiles(ctx context.Context, principal entity.Principal) ([]ProfileView, error)
}

// --- Input DTOs ---

// RegisterInput defines the data required to create an account.
type RegisterInput struct {
	Username         string `json:"username" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
	Type             string `json:"type" validate:"required"`
}

// LoginInput defines the data required to log in.
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileInput defines the patchable profile fields. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	FirstName    *string `json:"first_name,omitempty"`
	LastName     *string `json:"last_name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Location     *string `json:"location,omitempty"`
	Tel          *string `json:"tel,omitempty"`
	Description  *string `json:"description,omitempty"`
	WorkingHours *string `json:"working_hours,omitempty"`
}

// --- Output DTOs ---

// AuthOutput is returned from registration and login.
type AuthOutput struct {
	Token    string    `json:"token"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	UserID   uuid.UUID `json:"user_id"`
}

// ProfileView is the outward projection of a user. Optional fields are
// always empty strings, never null; the persistence mapping normalizes them
// once, so this struct holds plain strings.
type ProfileView struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Type         string    `json:"type"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProfileView projects a user entity into its outward shape.
func NewProfileView(user *entity.User) *ProfileView {
	return &ProfileView{
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		Type:         user.Role.String(),
		Location:     user.Location,
		Tel:          user.Tel,
		Description:  user.Description,
		WorkingHours: user.WorkingHours,
		CreatedAt:    user.CreatedAt,
	}
}
