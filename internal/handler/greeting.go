package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Greeter produces the greeting served from the root path.
type Greeter interface {
	Greet() string
}

// GreetingHandler exposes a Greeter over HTTP.
type GreetingHandler struct {
	greeter Greeter
}

// NewGreetingHandler wraps g so it can be registered on an echo router.
func NewGreetingHandler(g Greeter) *GreetingHandler {
	return &GreetingHandler{greeter: g}
}

// Greet writes the greeting as plain text with a 200 status.
func (h *GreetingHandler) Greet(c echo.Context) error {
	return c.String(http.StatusOK, h.greeter.Greet())
}
