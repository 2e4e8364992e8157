// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"flagpole/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	FlagHandler *handler.FlagHandler
	HashHandler *handler.HashHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	flagHandler *handler.FlagHandler
	hashHandler *handler.HashHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		flagHandler: params.FlagHandler,
		hashHandler: params.HashHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	flagGroup := e.Group("/flags")
	{
		flagGroup.POST("", r.flagHandler.AddFlag)
		flagGroup.POST("/build", r.flagHandler.BuildFlag)
		flagGroup.GET("", r.flagHandler.FindFlagID)
		flagGroup.GET("/:id", r.flagHandler.GetFlag)
	}

	hashGroup := e.Group("/hashes")
	{
		hashGroup.POST("", r.hashHandler.Hash)
		hashGroup.POST("/verify", r.hashHandler.Verify)
	}
}
