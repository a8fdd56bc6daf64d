package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"market/internal/domain/entity"
	"market/internal/domain/service"
	mockService "market/internal/mocks/service"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type authFixtures struct {
	tokenSvc   *mockService.MockTokenService
	middleware *AuthMiddleware
}

func newAuthFixtures(t *testing.T) authFixtures {
	tokenSvc := mockService.NewMockTokenService(t)

	return authFixtures{
		tokenSvc:   tokenSvc,
		middleware: NewAuthMiddleware(tokenSvc),
	}
}

func performRequest(m echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, entity.Principal) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen entity.Principal
	handler := m(func(c echo.Context) error {
		seen = Principal(c)

		return c.NoContent(http.StatusOK)
	})
	handler(c)

	return rec, seen
}

func TestAuthenticate_ValidToken(t *testing.T) {
	f := newAuthFixtures(t)

	userID := uuid.New()
	f.tokenSvc.EXPECT().ValidateToken("good-token").Return(&service.Claims{
		UserID:  userID,
		Role:    entity.RoleBusiness,
		IsAdmin: false,
	}, nil)

	rec, principal := performRequest(f.middleware.Authenticate, "Bearer good-token")

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, userID, principal.ID)
	require.Equal(t, entity.RoleBusiness, principal.Role)
	require.False(t, principal.IsAdmin)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	f := newAuthFixtures(t)

	rec, _ := performRequest(f.middleware.Authenticate, "")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_NotBearer(t *testing.T) {
	f := newAuthFixtures(t)

	rec, _ := performRequest(f.middleware.Authenticate, "Basic dXNlcjpwYXNz")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	f := newAuthFixtures(t)

	f.tokenSvc.EXPECT().ValidateToken("bad-token").Return(nil, errors.New("token is expired"))

	rec, _ := performRequest(f.middleware.Authenticate, "Bearer bad-token")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuthenticate_NoHeaderPassesAnonymous(t *testing.T) {
	f := newAuthFixtures(t)

	rec, principal := performRequest(f.middleware.OptionalAuthenticate, "")

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, principal.IsAnonymous())
}

func TestOptionalAuthenticate_InvalidTokenStillRejected(t *testing.T) {
	f := newAuthFixtures(t)

	f.tokenSvc.EXPECT().ValidateToken("bad-token").Return(nil, errors.New("bad signature"))

	rec, _ := performRequest(f.middleware.OptionalAuthenticate, "Bearer bad-token")

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPrincipal_DefaultsToAnonymous(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	require.True(t, Principal(c).IsAnonymous())
}
