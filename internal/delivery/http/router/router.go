// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"market/internal/delivery/http/middleware"
	"market/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProfileHandler *handler.ProfileHandler
	OfferHandler   *handler.OfferHandler
	OrderHandler   *handler.OrderHandler
	ReviewHandler  *handler.ReviewHandler
	InfoHandler    *handler.InfoHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application. Public
// routes still run the optional authenticator so a supplied token yields a
// principal; authenticated routes require one.
func (r *router) RegisterRoutes(e *echo.Echo) {
	m := r.params.AuthMiddleware

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api")
	{
		// Identity
		api.POST("/registration", r.params.AuthHandler.Register)
		api.POST("/login", r.params.AuthHandler.Login)

		api.GET("/profile/:pk", r.params.ProfileHandler.GetProfile, m.Authenticate)
		api.PATCH("/profile/:pk", r.params.ProfileHandler.UpdateProfile, m.Authenticate)
		api.GET("/profiles/business", r.params.ProfileHandler.ListBusinessProfiles, m.Authenticate)
		api.GET("/profiles/customer", r.params.ProfileHandler.ListCustomerProfiles, m.Authenticate)

		// Catalog
		api.GET("/offers", r.params.OfferHandler.ListOffers, m.OptionalAuthenticate)
		api.POST("/offers", r.params.OfferHandler.CreateOffer, m.Authenticate)
		api.GET("/offers/:id", r.params.OfferHandler.GetOffer, m.Authenticate)
		api.PATCH("/offers/:id", r.params.OfferHandler.UpdateOffer, m.Authenticate)
		api.DELETE("/offers/:id", r.params.OfferHandler.DeleteOffer, m.Authenticate)
		api.GET("/offerdetails/:id", r.params.OfferHandler.GetOfferDetail, m.Authenticate)

		// Orders
		api.GET("/orders", r.params.OrderHandler.ListOrders, m.Authenticate)
		api.POST("/orders", r.params.OrderHandler.CreateOrder, m.Authenticate)
		api.PATCH("/orders/:id", r.params.OrderHandler.UpdateOrderStatus, m.Authenticate)
		api.DELETE("/orders/:id", r.params.OrderHandler.DeleteOrder, m.Authenticate)
		api.GET("/order-count/:business_user_id", r.params.OrderHandler.CountOrders)
		api.GET("/completed-order-count/:business_user_id", r.params.OrderHandler.CountCompletedOrders)

		// Reviews and aggregates
		api.GET("/reviews", r.params.ReviewHandler.ListReviews, m.Authenticate)
		api.POST("/reviews", r.params.ReviewHandler.CreateReview, m.Authenticate)
		api.PATCH("/reviews/:id", r.params.ReviewHandler.UpdateReview, m.Authenticate)
		api.DELETE("/reviews/:id", r.params.ReviewHandler.DeleteReview, m.Authenticate)
		api.GET("/base-info", r.params.InfoHandler.BaseInfo)
	}
}
