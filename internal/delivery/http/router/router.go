// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"lookmarket/internal/delivery/http/middleware"
	"lookmarket/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	AccountHandler    *handler.AccountHandler
	AuthMiddleware    *middleware.AuthMiddleware
	ContextMiddleware *middleware.ContextMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	accountHandler    *handler.AccountHandler
	authMiddleware    *middleware.AuthMiddleware
	contextMiddleware *middleware.ContextMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		accountHandler:    params.AccountHandler,
		authMiddleware:    params.AuthMiddleware,
		contextMiddleware: params.ContextMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	api := e.Group("/api/v1")
	api.Use(r.contextMiddleware.Handle)
	// Every request passes the gate; unauthenticated requests pass through
	// and the Require* guards below decide what they may reach.
	api.Use(r.authMiddleware.Authenticate)

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/refresh", r.authHandler.Refresh)
	}

	userGroup := api.Group("/users")
	{
		userGroup.POST("", r.accountHandler.Register)

		meGroup := userGroup.Group("/me")
		meGroup.Use(r.authMiddleware.RequireAuthenticated)
		{
			meGroup.GET("", r.accountHandler.Me)
			meGroup.PATCH("/email", r.accountHandler.ChangeEmail)
			meGroup.PATCH("/password", r.accountHandler.ChangePassword)
		}

		// Lifecycle transitions are an operator surface.
		adminGroup := userGroup.Group("/:id")
		adminGroup.Use(r.authMiddleware.RequireAuthenticated)
		adminGroup.Use(r.authMiddleware.RequireAuthority("ROLE_ADMIN"))
		{
			adminGroup.POST("/activate", r.accountHandler.Activate)
			adminGroup.POST("/suspend", r.accountHandler.Suspend)
			adminGroup.POST("/deactivate", r.accountHandler.Deactivate)
		}
	}
}
