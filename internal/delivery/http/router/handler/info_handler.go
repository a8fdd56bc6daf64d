package handler

import (
	"log/slog"
	"net/http"

	"market/internal/delivery/http/response"
	"market/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// InfoHandler serves the public aggregate snapshot.
type InfoHandler struct {
	uc     usecase.ReviewUsecase
	logger *slog.Logger
}

// NewInfoHandler is the constructor for InfoHandler, injected by Fx.
func NewInfoHandler(uc usecase.ReviewUsecase, logger *slog.Logger) *InfoHandler {
	return &InfoHandler{
		uc:     uc,
		logger: logger,
	}
}

// BaseInfo handles the public aggregate snapshot request. The numbers are
// computed on demand; there is no cached counter to drift.
func (h *InfoHandler) BaseInfo(c echo.Context) error {
	info, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, info, "Base info retrieved successfully")
}

// HealthCheck is a simple handler to check if the service is up.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
