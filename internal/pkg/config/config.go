// Package config loads service settings from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const Production = "production"

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// DefaultEnvFiles are read, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

type SpannerOptions struct {
	Database     string `env:"SPANNER_DATABASE" envDefault:"projects/test-project/instances/emulator-instance/databases/test-db"`
	EmulatorHost string `env:"SPANNER_EMULATOR_HOST"`
}

type SessionOptions struct {
	Store    string        `env:"SESSION_STORE" envDefault:"memory"` // memory or redis
	RedisURL string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	TTL      time.Duration `env:"SESSION_TTL" envDefault:"2h"`
}

func (s *SessionOptions) Validate() error {
	s.Store = strings.ToLower(strings.TrimSpace(s.Store))
	if s.Store != StoreMemory && s.Store != StoreRedis {
		return errors.Errorf("SESSION_STORE must be 'memory' or 'redis', got '%s'", s.Store)
	}
	if s.Store == StoreRedis && s.RedisURL == "" {
		return errors.New("REDIS_URL is required when SESSION_STORE is 'redis'")
	}
	if s.TTL < 0 {
		return errors.Errorf("SESSION_TTL must be non-negative, got %s", s.TTL)
	}
	return nil
}

type Config struct {
	Spanner SpannerOptions
	Session SessionOptions

	GRPCAddr         string        `env:"GRPC_ADDR" envDefault:":50051"`
	MetricsAddr      string        `env:"METRICS_ADDR" envDefault:":9090"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	GoAppEnvironment string        `env:"GO_APP_ENV" envDefault:"development"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	logger *logrus.Logger
}

// Load reads envFiles that exist, parses the environment and validates the
// result.
func Load(envFiles ...string) (*Config, error) {
	if err := loadEnvFiles(envFiles); err != nil {
		return nil, errors.Wrap(err, "load env files")
	}

	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, errors.Wrap(err, "parse environment")
	}
	if err := c.Session.Validate(); err != nil {
		return nil, errors.Wrap(err, "session configuration error")
	}
	if err := c.validateLogLevel(); err != nil {
		return nil, err
	}

	c.logger = newLogger(c.LogrusLogLevel(), c.GoAppEnvironment == Production)
	return c, nil
}

func (c *Config) Logger() *logrus.Logger {
	return c.logger
}

func (c *Config) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

func (c *Config) validateLogLevel() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	switch c.LogLevel {
	case "silent", "error", "warn", "info", "debug":
		return nil
	}
	return errors.Errorf("invalid LOG_LEVEL=%q (expected silent|error|warn|info|debug)", c.LogLevel)
}

func loadEnvFiles(files []string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

func newLogger(level logrus.Level, production bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetLevel(level)
	if production {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}
