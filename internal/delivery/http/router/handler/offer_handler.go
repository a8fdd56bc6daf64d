package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"market/internal/delivery/http/middleware"
	"market/internal/delivery/http/response"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OfferHandler holds dependencies for offer handlers.
type OfferHandler struct {
	uc     usecase.CatalogUsecase
	logger *slog.Logger
}

// NewOfferHandler is the constructor for OfferHandler, injected by Fx.
func NewOfferHandler(uc usecase.CatalogUsecase, logger *slog.Logger) *OfferHandler {
	return &OfferHandler{
		uc:     uc,
		logger: logger,
	}
}

// CreateOffer handles the offer publication request.
func (h *OfferHandler) CreateOffer(c echo.Context) error {
	var input usecase.CreateOfferInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid offer input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	offer, err := h.uc.CreateOffer(c.Request().Context(), middleware.Principal(c), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, offer, "Offer created successfully")
}

// ListOffers handles the public offer listing request.
func (h *OfferHandler) ListOffers(c echo.Context) error {
	query, err := listOffersQuery(c)
	if err != nil {
		return response.BadRequest(c, "INVALID_QUERY", err.Error())
	}

	page, err := h.uc.ListOffers(c.Request().Context(), query)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, page, "Offers retrieved successfully")
}

// GetOffer handles the single-offer read request.
func (h *OfferHandler) GetOffer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid offer id")
	}

	offer, err := h.uc.GetOffer(c.Request().Context(), middleware.Principal(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, offer, "Offer retrieved successfully")
}

// GetOfferDetail handles the single-tier read request.
func (h *OfferHandler) GetOfferDetail(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid offer detail id")
	}

	detail, err := h.uc.GetOfferDetail(c.Request().Context(), middleware.Principal(c), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, detail, "Offer detail retrieved successfully")
}

// UpdateOffer handles the offer patch request.
func (h *OfferHandler) UpdateOffer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid offer id")
	}

	var input usecase.UpdateOfferInput
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid offer input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	offer, err := h.uc.UpdateOffer(c.Request().Context(), middleware.Principal(c), id, &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, offer, "Offer updated successfully")
}

// DeleteOffer handles the offer removal request.
func (h *OfferHandler) DeleteOffer(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid offer id")
	}

	if err := h.uc.DeleteOffer(c.Request().Context(), middleware.Principal(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Offer deleted successfully")
}

// listOffersQuery parses the supported listing parameters. Unknown
// parameters are ignored; malformed values fail the request.
func listOffersQuery(c echo.Context) (*usecase.ListOffersQuery, error) {
	query := &usecase.ListOffersQuery{
		Search:   c.QueryParam("search"),
		Ordering: c.QueryParam("ordering"),
	}

	if raw := c.QueryParam("creator"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("invalid creator id")
		}
		query.CreatorID = &id
	}
	if raw := c.QueryParam("min_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.New("invalid min_price")
		}
		query.MinPrice = &price
	}
	if raw := c.QueryParam("max_delivery_time"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("invalid max_delivery_time")
		}
		query.MaxDeliveryTime = &days
	}
	if raw := c.QueryParam("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("invalid offset")
		}
		query.Offset = offset
	}
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.New("invalid limit")
		}
		query.Limit = limit
	}

	return query, nil
}
