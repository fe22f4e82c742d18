package di

import (
	"fmt"

	"github.com/Ak47-369/bookticket-api-gateway/internal/auth"
	"github.com/Ak47-369/bookticket-api-gateway/internal/domain/repository"
	"github.com/Ak47-369/bookticket-api-gateway/internal/events"
	"github.com/Ak47-369/bookticket-api-gateway/internal/filter"
	"github.com/Ak47-369/bookticket-api-gateway/internal/handler/api"
	"github.com/Ak47-369/bookticket-api-gateway/internal/proxy"
	"github.com/Ak47-369/bookticket-api-gateway/internal/ratelimit"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/config"
	pkgkafka "github.com/Ak47-369/bookticket-api-gateway/pkg/kafka"
	applogger "github.com/Ak47-369/bookticket-api-gateway/pkg/logger"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/metrics"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/redisx"
	"github.com/Ak47-369/bookticket-api-gateway/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder, or a no-op when
// metrics are disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return repository.NoopMetrics{}
	}
	return metrics.New()
}

// ProvideRedis creates the shared Redis client. Returns nil when the
// in-memory limiter is configured; nothing else in the gateway needs Redis.
func ProvideRedis(cfg *config.Config) (*redisx.Client, error) {
	if cfg.RateLimit.Store != "redis" {
		return nil, nil
	}
	client, err := redisx.New(
		redisx.WithHost(cfg.Redis.Host),
		redisx.WithPort(cfg.Redis.Port),
		redisx.WithPassword(cfg.Redis.Password),
		redisx.WithDB(cfg.Redis.DB),
		redisx.WithPool(cfg.Redis.PoolSize, cfg.Redis.MinIdleConns, cfg.Redis.PoolTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("redis client: %w", err)
	}
	return client, nil
}

// ProvideLimiter creates the token-bucket limiter backed by the
// configured store.
func ProvideLimiter(cfg *config.Config, rdb *redisx.Client, l *applogger.Logger, m repository.Metrics) ratelimit.Limiter {
	lcfg := ratelimit.Config{
		Capacity:        cfg.RateLimit.BucketCapacity,
		TokensPerSecond: cfg.RateLimit.TokensPerSecond,
		StoreTimeout:    cfg.RateLimit.StoreTimeout,
	}
	if cfg.RateLimit.Store == "memory" || rdb == nil {
		return ratelimit.NewMemoryLimiter(lcfg)
	}
	return ratelimit.NewRedisLimiter(rdb.Client(), lcfg, l, m)
}

// ProvideCodec creates the JWT claims codec.
func ProvideCodec(cfg *config.Config, l *applogger.Logger) *auth.Codec {
	return auth.NewCodec(cfg.Auth.JWTSecret, l)
}

// ProvideForwarder creates the static route forwarder.
func ProvideForwarder(cfg *config.Config, l *applogger.Logger) (proxy.Forwarder, error) {
	fwd, err := proxy.NewStaticForwarder(cfg.Routes, l)
	if err != nil {
		return nil, fmt.Errorf("forwarder: %w", err)
	}
	return fwd, nil
}

// ProvidePublisher creates the Kafka admission-event publisher, or a
// disabled one when events are off.
func ProvidePublisher(cfg *config.Config, l *applogger.Logger) (*events.Publisher, error) {
	if !cfg.Events.Enabled {
		return events.Disabled(), nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Events.Brokers),
		pkgkafka.WithCompression(cfg.Events.Compression),
		pkgkafka.WithRequiredAcks(cfg.Events.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Events.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Events.BatchTimeout),
		pkgkafka.WithTimeouts(cfg.Events.WriteTimeout, 0),
		pkgkafka.WithAsync(cfg.Events.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return events.NewPublisher(producer, cfg.Events.Topic, l), nil
}

// ProvideDecisionPublisher exposes the publisher behind its repository
// interface.
func ProvideDecisionPublisher(p *events.Publisher) repository.DecisionPublisher {
	return p
}

// ProvideChain assembles the ordered admission chain. Order matters:
// rate limiting runs before auth so rejected bursts never pay for
// signature verification.
func ProvideChain(
	limiter ratelimit.Limiter,
	codec *auth.Codec,
	m repository.Metrics,
	ev repository.DecisionPublisher,
	l *applogger.Logger,
	cfg *config.Config,
) *filter.Chain {
	return filter.NewChain(
		filter.NewRateLimit(limiter, m, ev, l),
		filter.NewAuth(codec, cfg.Auth.ProtectedPrefixes, m, ev, l),
	)
}

// ProvideHandlers groups the HTTP handlers.
func ProvideHandlers(
	l *applogger.Logger,
	chain *filter.Chain,
	fwd proxy.Forwarder,
	ev repository.DecisionPublisher,
	limiter ratelimit.Limiter,
	rdb *redisx.Client,
) *api.Handlers {
	gateway := api.NewGatewayHandler(l, chain, fwd, ev)
	admin := api.NewAdminHandler(l, limiter, rdb)
	return api.NewHandlers(admin, gateway)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handlers *api.Handlers,
	rdb *redisx.Client,
	publisher *events.Publisher,
	limiter ratelimit.Limiter,
) *server.App {
	return server.New(cfg, l, handlers, rdb, publisher, limiter)
}
