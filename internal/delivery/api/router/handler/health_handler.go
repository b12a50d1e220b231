package handler

import (
	"net/http"
	"time"

	"marketplace/config"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// HealthHandlerParams holds dependencies for HealthHandler, injected by Fx.
type HealthHandlerParams struct {
	fx.In

	Config *config.Config
}

// HealthHandler answers liveness probes.
type HealthHandler struct {
	environment string
	now         func() time.Time
}

// NewHealthHandler is the constructor for HealthHandler
func NewHealthHandler(params HealthHandlerParams) *HealthHandler {
	return &HealthHandler{
		environment: params.Config.Env.Env,
		now:         time.Now,
	}
}

// Check reports the service as up.
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"status":      "OK",
		"timestamp":   h.now().UTC().Format(time.RFC3339Nano),
		"environment": h.environment,
	})
}
