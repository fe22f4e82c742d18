package api

import (
	"context"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/internal/ratelimit"
	apphttp "github.com/Ak47-369/bookticket-api-gateway/pkg/http"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/redisx"

	"github.com/labstack/echo/v4"
)

// AdminHandler exposes health and rate-limit inspection endpoints.
type AdminHandler struct {
	logger  *applogger.Logger
	limiter ratelimit.Limiter
	redis   *redisx.Client
}

func NewAdminHandler(l *applogger.Logger, limiter ratelimit.Limiter, rdb *redisx.Client) *AdminHandler {
	return &AdminHandler{logger: l, limiter: limiter, redis: rdb}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)
	e.GET("/admin/ratelimit/:key", h.InspectBucket)
	e.DELETE("/admin/ratelimit/:key", h.ResetBucket)
}

type healthStatus struct {
	Status string `json:"status"`
	Redis  string `json:"redis,omitempty"`
}

func (h *AdminHandler) Health(c echo.Context) error {
	st := healthStatus{Status: "ok"}
	if h.redis != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := h.redis.Ping(ctx); err != nil {
			h.logger.Error("redis health check failed", applogger.Error(err))
			st.Status = "degraded"
			st.Redis = "unreachable"
			return apphttp.DataResponse(c, 503, st)
		}
		st.Redis = "ok"
	}
	return apphttp.SuccessResponse(c, st)
}

type bucketRequest struct {
	Key string `param:"key" validate:"required"`
}

type bucketView struct {
	Key        string    `json:"key"`
	Tokens     float64   `json:"tokens"`
	LastRefill time.Time `json:"last_refill,omitzero"`
	Exists     bool      `json:"exists"`
}

func (h *AdminHandler) InspectBucket(c echo.Context) error {
	var req bucketRequest
	if errs := apphttp.ReadAndValidateRequest(c, &req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}

	state, err := h.limiter.Inspect(c.Request().Context(), req.Key)
	if err != nil {
		h.logger.Error("bucket inspect failed", applogger.String("key", req.Key), applogger.Error(err))
		return apphttp.InternalServerErrorResponse(c)
	}
	if !state.Exists {
		return apphttp.NotFoundResponse(c, bucketView{Key: req.Key, Exists: false})
	}
	return apphttp.SuccessResponse(c, bucketView{
		Key:        req.Key,
		Tokens:     state.Tokens,
		LastRefill: state.LastRefill,
		Exists:     true,
	})
}

func (h *AdminHandler) ResetBucket(c echo.Context) error {
	var req bucketRequest
	if errs := apphttp.ReadAndValidateRequest(c, &req); errs != nil {
		return apphttp.BadRequestResponse(c, errs)
	}

	if err := h.limiter.Reset(c.Request().Context(), req.Key); err != nil {
		h.logger.Error("bucket reset failed", applogger.String("key", req.Key), applogger.Error(err))
		return apphttp.InternalServerErrorResponse(c)
	}
	return apphttp.NoContentResponse(c)
}
