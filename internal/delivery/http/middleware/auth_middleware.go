// Package middleware contains the echo middleware for the HTTP delivery.
package middleware

import (
	"strings"

	"market/internal/delivery/http/response"
	"market/internal/domain/entity"
	"market/internal/domain/service"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// principalKey is the echo context key holding the caller identity.
const principalKey = "principal"

var errNotBearer = errors.New("authorization header is not a bearer token")

// AuthMiddleware validates access tokens and attaches the caller principal
// to the request context.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate requires a valid Bearer token. The principal it builds from
// the claims is the identity every usecase authorizes against; no user
// lookup happens here.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, "UNAUTHORIZED", "Authorization header is missing")
		}

		principal, err := m.resolve(authHeader)
		if err != nil {
			if errors.Is(err, errNotBearer) {
				return response.Unauthorized(c, "INVALID_TOKEN", "Invalid token format, must be Bearer token")
			}

			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		c.Set(principalKey, principal)

		return next(c)
	}
}

// OptionalAuthenticate attaches the principal when a token is supplied and
// lets anonymous requests pass with the anonymous principal. A token that is
// present but invalid is still rejected.
func (m *AuthMiddleware) OptionalAuthenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			c.Set(principalKey, entity.Anonymous())

			return next(c)
		}

		principal, err := m.resolve(authHeader)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		c.Set(principalKey, principal)

		return next(c)
	}
}

// resolve turns an Authorization header into a principal.
func (m *AuthMiddleware) resolve(authHeader string) (entity.Principal, error) {
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if tokenString == authHeader {
		return entity.Anonymous(), errors.WithStack(errNotBearer)
	}

	claims, err := m.tokenSvc.ValidateToken(tokenString)
	if err != nil {
		return entity.Anonymous(), errors.Wrap(err, "failed to validate token")
	}

	return claims.Principal(), nil
}

// Principal returns the caller identity stored by the auth middleware. For
// routes without the middleware it returns the anonymous principal.
func Principal(c echo.Context) entity.Principal {
	if p, ok := c.Get(principalKey).(entity.Principal); ok {
		return p
	}

	return entity.Anonymous()
}
