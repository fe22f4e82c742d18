package filter

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/models"
	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/repository"
	"github.com/Ak47-369/bookticket-api-gateway/internal/identity"
	"github.com/Ak47-369/bookticket-api-gateway/internal/ratelimit"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	headerRemaining  = "X-RateLimit-Remaining"
	headerRetryAfter = "X-RateLimit-Retry-After"

	// Clients are told to come back in a minute regardless of the actual
	// refill schedule.
	retryAfterSeconds = "60"
)

// rateLimitBody is the exact rejection payload; clients match on it.
var rateLimitBody = []byte(`{"error":"Rate limit exceeded","message":"Too many requests. Please try again later."}`)

// RateLimit rejects requests whose identity key has no tokens left.
// It runs before authentication so abusive traffic is shed before any
// signature verification is spent on it.
type RateLimit struct {
	limiter ratelimit.Limiter
	metrics repository.Metrics
	events  repository.DecisionPublisher
	logger  *applogger.Logger
}

// NewRateLimit creates the rate limiting filter.
func NewRateLimit(l ratelimit.Limiter, m repository.Metrics, ev repository.DecisionPublisher, log *applogger.Logger) *RateLimit {
	if m == nil {
		m = repository.NoopMetrics{}
	}
	if ev == nil {
		ev = repository.NoopPublisher{}
	}
	return &RateLimit{limiter: l, metrics: m, events: ev, logger: log}
}

func (f *RateLimit) Name() string { return "rate_limit" }

func (f *RateLimit) Handle(c echo.Context, next echo.HandlerFunc) error {
	req := c.Request()
	key := identity.Resolve(req)

	dec := f.limiter.CheckAndConsume(req.Context(), key, 1)
	if !dec.Allowed {
		if f.logger != nil {
			f.logger.Warn("rate limit exceeded", applogger.String("key", key))
		}
		f.metrics.RecordDecision(f.Name(), models.OutcomeRateLimited)
		f.events.AdmissionDecided(req.Context(), models.AdmissionEvent{
			Key:       key,
			Outcome:   models.OutcomeRateLimited,
			Status:    http.StatusTooManyRequests,
			Method:    req.Method,
			Path:      req.URL.Path,
			Remaining: dec.Remaining,
			At:        time.Now(),
		})

		h := c.Response().Header()
		h.Set(headerRetryAfter, retryAfterSeconds)
		h.Set(echo.HeaderRetryAfter, retryAfterSeconds)
		return c.JSONBlob(http.StatusTooManyRequests, rateLimitBody)
	}

	c.Response().Header().Set(headerRemaining, fmt.Sprintf("%.2f", dec.Remaining))
	f.metrics.RecordDecision(f.Name(), models.OutcomeAllowed)
	return next(c)
}
