package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework handles dispatch

	"github.com/iliyamo/hello-devops/internal/handler" // handlers that implement each endpoint
)

// RegisterRoutes registers every route the service exposes on the provided
// Echo instance.  None of them require authentication.
func RegisterRoutes(e *echo.Echo, g *handler.GreetingHandler) {
	// The root path returns the greeting.
	e.GET("/", g.Greet)
	// Liveness probe for load balancers and monitoring systems.
	e.GET("/healthz", handler.Health)
}
