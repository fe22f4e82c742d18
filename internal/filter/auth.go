package filter

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/internal/auth"
	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/models"
	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/repository"
	"github.com/Ak47-369/bookticket-api-gateway/internal/identity"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"

	"github.com/labstack/echo/v4"
)

const headerUserRoles = "X-User-Roles"

var unauthorizedBody = []byte(`{"error":"Unauthorized","message":"Missing or invalid authentication token."}`)

// Auth validates bearer tokens on protected routes and enriches admitted
// requests with the verified identity. It runs after the rate limiter.
type Auth struct {
	codec    *auth.Codec
	prefixes []string
	metrics  repository.Metrics
	events   repository.DecisionPublisher
	logger   *applogger.Logger
}

// NewAuth creates the authentication filter. prefixes lists the path
// prefixes requiring a valid token; everything else passes through.
func NewAuth(codec *auth.Codec, prefixes []string, m repository.Metrics, ev repository.DecisionPublisher, log *applogger.Logger) *Auth {
	if m == nil {
		m = repository.NoopMetrics{}
	}
	if ev == nil {
		ev = repository.NoopPublisher{}
	}
	return &Auth{codec: codec, prefixes: prefixes, metrics: m, events: ev, logger: log}
}

func (f *Auth) Name() string { return "auth" }

func (f *Auth) Handle(c echo.Context, next echo.HandlerFunc) error {
	req := c.Request()
	if !f.protected(req.URL.Path) {
		return next(c)
	}

	token, ok := bearerToken(req)
	if !ok {
		return f.reject(c, "missing_token")
	}

	claims, err := f.codec.DecodeAndVerify(token)
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return f.reject(c, "expired")
	case err != nil:
		return f.reject(c, "malformed")
	case claims.Subject == "":
		return f.reject(c, "empty_subject")
	}

	// Enrich for the forward chain; downstream services and the next
	// rate-limit check key on the verified principal.
	req.Header.Set(identity.HeaderUserID, claims.Subject)
	if len(claims.Roles) > 0 {
		req.Header.Set(headerUserRoles, strings.Join(claims.Roles, ","))
	}

	f.metrics.RecordDecision(f.Name(), models.OutcomeAllowed)
	return next(c)
}

func (f *Auth) protected(path string) bool {
	for _, p := range f.prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (f *Auth) reject(c echo.Context, reason string) error {
	req := c.Request()
	if f.logger != nil {
		f.logger.Warn("authentication failed",
			applogger.String("reason", reason),
			applogger.String("path", req.URL.Path),
		)
	}
	f.metrics.RecordAuthFailure(reason)
	f.metrics.RecordDecision(f.Name(), models.OutcomeUnauthorized)
	f.events.AdmissionDecided(req.Context(), models.AdmissionEvent{
		Key:     identity.Resolve(req),
		Outcome: models.OutcomeUnauthorized,
		Status:  http.StatusUnauthorized,
		Method:  req.Method,
		Path:    req.URL.Path,
		At:      time.Now(),
	})
	return c.JSONBlob(http.StatusUnauthorized, unauthorizedBody)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}
