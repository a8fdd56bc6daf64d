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

// ReviewHandler holds dependencies for review handlers.
type ReviewHandler struct {
	uc     usecase.ReviewUsecase
	logger *slog.Logger
}

// NewReviewHandler is the constructor for ReviewHandler, injected by Fx.
func NewReviewHandler(uc usecase.ReviewUsecase, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateReview handles the review creation request.
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var input usecase.CreateReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	review, err := h.uc.CreateReview(c.Request().Context(), middleware.Principal(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, review, "Review created successfully")
}

// ListReviews handles the review listing request.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	query, err := listReviewsQuery(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_QUERY", err.Error())
	}

	reviews, err := h.uc.ListReviews(c.Request().Context(), middleware.Principal(c), query)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, reviews, "Reviews retrieved successfully")
}

// UpdateReview handles the review patch request.
func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid review id")
	}

	var input usecase.UpdateReviewInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid review input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	review, err := h.uc.UpdateReview(c.Request().Context(), middleware.Principal(c), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, review, "Review updated successfully")
}

// DeleteReview handles the review removal request.
func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid review id")
	}

	if err := h.uc.DeleteReview(c.Request().Context(), middleware.Principal(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Review deleted successfully")
}

// listReviewsQuery parses the supported review listing parameters.
func listReviewsQuery(c echo.Context) (*usecase.ListReviewsQuery, error) {
	query := &usecase.ListReviewsQuery{
		Ordering: c.QueryParam("ordering"),
	}

	if raw := c.QueryParam("business_user"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("invalid business_user id")
		}
		query.BusinessUserID = &id
	}
	if raw := c.QueryParam("reviewer"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("invalid reviewer id")
		}
		query.ReviewerID = &id
	}

	return query, nil
}
