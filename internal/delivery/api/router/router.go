// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"marketplace/internal/delivery/api/middleware"
	"marketplace/internal/delivery/api/router/handler"
	"marketplace/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	ProductHandler *handler.ProductHandler
	OrderHandler   *handler.OrderHandler
	HealthHandler  *handler.HealthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	productHandler *handler.ProductHandler
	orderHandler   *handler.OrderHandler
	healthHandler  *handler.HealthHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		productHandler: params.ProductHandler,
		orderHandler:   params.OrderHandler,
		healthHandler:  params.HealthHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", r.healthHandler.Check)

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.GET("/check-email", r.authHandler.CheckEmail)
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)

		authGroup.GET("/me", r.authHandler.Me, r.authMiddleware.Authenticate)
		authGroup.PUT("/me", r.authHandler.UpdateMe, r.authMiddleware.Authenticate)
		authGroup.PUT("/me/password", r.authHandler.ChangePassword, r.authMiddleware.Authenticate)
	}

	// Catalog reads are public, writes need a session.
	productsGroup := api.Group("/products")
	{
		productsGroup.GET("", r.productHandler.List)
		productsGroup.GET("/:id", r.productHandler.Get)
		productsGroup.POST("", r.productHandler.Create, r.authMiddleware.Authenticate)
		productsGroup.PUT("/:id", r.productHandler.Update, r.authMiddleware.Authenticate)
		productsGroup.DELETE("/:id", r.productHandler.Delete, r.authMiddleware.Authenticate)
	}

	ordersGroup := api.Group("/orders")
	ordersGroup.Use(r.authMiddleware.Authenticate)
	{
		ordersGroup.POST("", r.orderHandler.Create)
		ordersGroup.GET("", r.orderHandler.ListMine)
		ordersGroup.GET("/:id", r.orderHandler.Get)
		ordersGroup.PATCH("/:id/status", r.orderHandler.UpdateStatus, middleware.RequireRole(entity.RoleAdmin))
	}
}
