package service

import (
	"market/internal/domain/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by access tokens. The principal
// the middleware builds from them is the caller identity every operation is
// authorized against.
type Claims struct {
	UserID  uuid.UUID
	Role    entity.Role
	IsAdmin bool
	jwt.RegisteredClaims
}

// Principal converts the claims into the domain principal value.
func (c *Claims) Principal() entity.Principal {
	return entity.Principal{
		ID:      c.UserID,
		Role:    c.Role,
		IsAdmin: c.IsAdmin,
	}
}

// TokenService defines the interface for generating and validating JWTs.
// This abstracts the details of token creation from the use cases.
type TokenService interface {
	// GenerateToken creates a signed access token for the given user.
	GenerateToken(userID uuid.UUID, role entity.Role, isAdmin bool) (string, error)

	// ValidateToken checks the validity of a token string and returns its claims.
	ValidateToken(tokenString string) (*Claims, error)
}
