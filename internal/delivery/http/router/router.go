// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"roster/internal/delivery/http/middleware"
	"roster/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AccountHandler      *handler.AccountHandler
	RequestIDMiddleware *middleware.RequestIDMiddleware
	ErrorMiddleware     *middleware.ErrorMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	accountHandler      *handler.AccountHandler
	requestIDMiddleware *middleware.RequestIDMiddleware
	errorMiddleware     *middleware.ErrorMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		accountHandler:      params.AccountHandler,
		requestIDMiddleware: params.RequestIDMiddleware,
		errorMiddleware:     params.ErrorMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.Use(r.requestIDMiddleware.Process)
	e.HTTPErrorHandler = r.errorMiddleware.HandleHTTPError

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	accountGroup := e.Group("/accounts")
	{
		// Anonymous credential check
		accountGroup.POST("/authenticate", r.accountHandler.Authenticate)

		// Admin operations, credentials in the Admin-Login / Admin-Password headers
		accountGroup.POST("", r.accountHandler.Create)
		accountGroup.GET("/active", r.accountHandler.ListActive)
		accountGroup.GET("/by-login/:login", r.accountHandler.GetByLogin)
		accountGroup.GET("/by-age/:minAge", r.accountHandler.ListByMinAge)
		accountGroup.DELETE("/:login", r.accountHandler.Delete)
		accountGroup.POST("/:login/restore", r.accountHandler.Restore)

		// Self-or-admin operations, credentials in the Login / Password headers
		accountGroup.PUT("/:id/personal-info", r.accountHandler.UpdatePersonalInfo)
		accountGroup.PUT("/:id/password", r.accountHandler.UpdatePassword)
		accountGroup.PUT("/:id/login", r.accountHandler.UpdateLogin)
	}
}
