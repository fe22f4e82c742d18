package api

import (
	"net/http"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/models"
	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/repository"
	"github.com/Ak47-369/bookticket-api-gateway/internal/filter"
	"github.com/Ak47-369/bookticket-api-gateway/internal/identity"
	"github.com/Ak47-369/bookticket-api-gateway/internal/proxy"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"

	"github.com/labstack/echo/v4"
)

// GatewayHandler mounts the admission chain on a catch-all route and
// terminates it with the forward step.
type GatewayHandler struct {
	logger *applogger.Logger
	chain  *filter.Chain
	fwd    proxy.Forwarder
	events repository.DecisionPublisher
}

func NewGatewayHandler(l *applogger.Logger, chain *filter.Chain, fwd proxy.Forwarder, ev repository.DecisionPublisher) *GatewayHandler {
	if ev == nil {
		ev = repository.NoopPublisher{}
	}
	return &GatewayHandler{logger: l, chain: chain, fwd: fwd, events: ev}
}

func (h *GatewayHandler) RegisterRoutes(e *echo.Echo) {
	// Static routes (healthz, admin, metrics) win over the wildcard.
	e.Any("/*", h.chain.Then(h.forward))
}

// forward runs once the whole chain has admitted the request.
func (h *GatewayHandler) forward(c echo.Context) error {
	req := c.Request()
	h.events.AdmissionDecided(req.Context(), models.AdmissionEvent{
		Key:     identity.Resolve(req),
		Outcome: models.OutcomeAllowed,
		Status:  http.StatusOK,
		Method:  req.Method,
		Path:    req.URL.Path,
		At:      time.Now(),
	})
	return h.fwd.Forward(c)
}
