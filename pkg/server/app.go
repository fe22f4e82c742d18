package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ak47-369/bookticket-api-gateway/internal/events"
	"github.com/Ak47-369/bookticket-api-gateway/internal/handler/api"
	"github.com/Ak47-369/bookticket-api-gateway/internal/ratelimit"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/config"
	xhttp "github.com/Ak47-369/bookticket-api-gateway/pkg/http"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/redisx"
)

// App encapsulates the entire gateway lifecycle.
type App struct {
	cfg        *config.Config
	logger     *applogger.Logger
	handlers   *api.Handlers
	redis      *redisx.Client
	publisher  *events.Publisher
	limiter    ratelimit.Limiter
	httpServer *xhttp.Server
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	handlers *api.Handlers,
	rdb *redisx.Client,
	publisher *events.Publisher,
	limiter ratelimit.Limiter,
) *App {
	return &App{
		cfg:       cfg,
		logger:    l,
		handlers:  handlers,
		redis:     rdb,
		publisher: publisher,
		limiter:   limiter,
	}
}

// Run starts the gateway and blocks until interrupted.
func (a *App) Run() error {
	metricsPath := ""
	if a.cfg.Metrics.Enabled {
		metricsPath = a.cfg.Metrics.Path
	}

	a.httpServer = xhttp.NewServer(a.handlers,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithMetricsPath(metricsPath),
	)

	if err := a.httpServer.Start(); err != nil {
		a.logger.Error("http server start error", applogger.Error(err))
		return err
	}
	a.logger.Info("gateway started",
		applogger.Int("port", a.cfg.Server.Port),
		applogger.String("rate_limit_store", a.cfg.RateLimit.Store),
		applogger.Int("routes", len(a.cfg.Routes)),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.logger.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown gracefully stops all services.
func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Stop(ctx); err != nil {
		a.logger.Error("http shutdown error", applogger.Error(err))
	}

	if ml, ok := a.limiter.(*ratelimit.MemoryLimiter); ok {
		ml.Stop()
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Warn("publisher close error", applogger.Error(err))
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("redis close error", applogger.Error(err))
		}
	}

	a.logger.Info("shutdown complete")
	return nil
}
