package handler // HTTP handlers for the hello-devops service

import (
	"net/http" // status codes

	"github.com/labstack/echo/v4"
)

// healthBody is the plain text payload returned by Health.
const healthBody = "ok"

// Health is a liveness probe for load balancers and orchestrators.  It does
// not consult any dependency; a 200 only means the process is serving HTTP.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, healthBody)
}
