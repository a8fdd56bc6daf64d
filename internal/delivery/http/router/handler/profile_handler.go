package handler

import (
	"log/slog"
	"net/http"

	"market/internal/delivery/http/middleware"
	"market/internal/delivery/http/response"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ProfileHandler holds dependencies for profile handlers.
type ProfileHandler struct {
	uc     usecase.UserUsecase
	logger *slog.Logger
}

// NewProfileHandler is the constructor for ProfileHandler, injected by Fx.
func NewProfileHandler(uc usecase.UserUsecase, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		uc:     uc,
		logger: logger,
	}
}

// GetProfile handles the request to read one user's profile.
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("pk"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user id")
	}

	profile, err := h.uc.GetProfile(c.Request().Context(), middleware.Principal(c), userID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile retrieved successfully")
}

// UpdateProfile handles the profile patch request.
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID, err := uuid.Parse(c.Param("pk"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid user id")
	}

	var input usecase.UpdateProfileInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid profile input")
	}

	profile, err := h.uc.UpdateProfile(c.Request().Context(), middleware.Principal(c), userID, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profile, "Profile updated successfully")
}

// ListBusinessProfiles handles the business profile listing request.
func (h *ProfileHandler) ListBusinessProfiles(c echo.Context) error {
	profiles, err := h.uc.ListBusinessProfiles(c.Request().Context(), middleware.Principal(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profiles, "Business profiles retrieved successfully")
}

// ListCustomerProfiles handles the customer profile listing request.
func (h *ProfileHandler) ListCustomerProfiles(c echo.Context) error {
	profiles, err := h.uc.ListCustomerProfiles(c.Request().Context(), middleware.Principal(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, profiles, "Customer profiles retrieved successfully")
}
