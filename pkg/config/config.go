package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Ak47-369/bookticket-api-gateway/pkg/util"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Route maps a request path prefix to an upstream service base URL.
type Route struct {
	Prefix string `yaml:"prefix"`
	Target string `yaml:"target"`
}

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Logging struct {
		Level  string `yaml:"level" default:"info"`
		Format string `yaml:"format" default:"console"`
		Output string `yaml:"output" default:"stdout"`
	} `yaml:"logging"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Redis struct {
		Host         string        `yaml:"host" default:"localhost"`
		Port         int           `yaml:"port" default:"6379"`
		Password     string        `yaml:"password"`
		DB           int           `yaml:"db"`
		PoolSize     int           `yaml:"pool_size" default:"10"`
		MinIdleConns int           `yaml:"min_idle_conns" default:"5"`
		PoolTimeout  time.Duration `yaml:"pool_timeout" default:"30s"`
	} `yaml:"redis"`
	RateLimit struct {
		Store           string        `yaml:"store" default:"redis"` // redis or memory
		TokensPerSecond float64       `yaml:"tokens_per_second" default:"1.66"`
		TokensPerMinute int           `yaml:"tokens_per_minute" default:"100"` // informational
		BucketCapacity  int           `yaml:"bucket_capacity" default:"100"`
		StoreTimeout    time.Duration `yaml:"store_timeout" default:"200ms"`
	} `yaml:"rate_limit"`
	Auth struct {
		JWTSecret         string   `yaml:"jwt_secret"`
		ProtectedPrefixes []string `yaml:"protected_prefixes"`
	} `yaml:"auth"`
	Routes []Route `yaml:"routes"`
	Events struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic" default:"gateway.admission"`
		Compression  string        `yaml:"compression" default:"gzip"`
		RequiredAcks int           `yaml:"required_acks" default:"-1"`
		BatchSize    int           `yaml:"batch_size" default:"100"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
		WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
		Async        bool          `yaml:"async" default:"true"`
	} `yaml:"events"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Host, c.Redis.Port = util.SplitHostPortDefault(v, c.Redis.Host, c.Redis.Port)
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("RATE_LIMIT_STORE"); v != "" {
		c.RateLimit.Store = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Events.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.RateLimit.Store != "redis" && c.RateLimit.Store != "memory" {
		return fmt.Errorf("rate_limit.store must be 'redis' or 'memory', got '%s'", c.RateLimit.Store)
	}
	if c.RateLimit.TokensPerSecond <= 0 {
		return fmt.Errorf("rate_limit.tokens_per_second must be positive")
	}
	if c.RateLimit.BucketCapacity <= 0 {
		return fmt.Errorf("rate_limit.bucket_capacity must be positive")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	for i, r := range c.Routes {
		if r.Prefix == "" || r.Target == "" {
			return fmt.Errorf("routes[%d]: prefix and target are required", i)
		}
	}
	if c.Events.Enabled && len(c.Events.Brokers) == 0 {
		return fmt.Errorf("events.brokers cannot be empty when events are enabled")
	}
	return nil
}
