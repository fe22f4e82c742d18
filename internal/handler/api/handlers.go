package api

import (
	"github.com/labstack/echo/v4"
)

// Handlers groups every HTTP surface of the gateway. Admin routes are
// registered before the catch-all so echo matches them first.
type Handlers struct {
	Admin   *AdminHandler
	Gateway *GatewayHandler
}

func NewHandlers(admin *AdminHandler, gateway *GatewayHandler) *Handlers {
	return &Handlers{Admin: admin, Gateway: gateway}
}

func (h *Handlers) RegisterRoutes(e *echo.Echo) {
	h.Admin.RegisterRoutes(e)
	h.Gateway.RegisterRoutes(e)
}
