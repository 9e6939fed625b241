package config

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/yasir870/khobzak-delivery-system/internal/domain/types"
	"github.com/yasir870/khobzak-delivery-system/pkg/configloader"
	"github.com/yasir870/khobzak-delivery-system/pkg/redis"
)

// Flags
var (
	modeFlag   = flag.String("mode", "", "service mode: order-service | courier-service | admin-service | auth-service")
	configFlag = flag.String("config", "", "path to a YAML config file (optional, env vars take precedence)")
)

// Errors
var (
	ErrModeNotProvided = errors.New("mode flag not provided")
	ErrUnknownMode     = errors.New("unknown service mode")
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Mode types.ServiceMode

		Database    DatabaseConfig
		RabbitMQ    RabbitMQConfig
		Redis       redis.Config
		ExternalAPI ExternalAPIConfig
		Services    ServicesConfig
		Auth        Auth
	}

	DatabaseConfig struct {
		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"khobzak_user"`
		Password string `env:"DATABASE_PASSWORD" default:"khobzak_pass"`
		Database string `env:"DATABASE_DATABASE" default:"khobzak_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	ExternalAPIConfig struct {
		LocationIQapiKey string `env:"LOCATIONIQ_API_KEY"`
		OSRMBaseURL      string `env:"OSRM_BASE_URL"`
	}

	ServicesConfig struct {
		OrderService   string `env:"SERVICES_ORDER_SERVICE" default:"3000"`
		CourierService string `env:"SERVICES_COURIER_SERVICE" default:"3001"`
		AdminService   string `env:"SERVICES_ADMIN_SERVICE" default:"3004"`
		AuthService    string `env:"SERVICES_AUTH_SERVICE" default:"3005"`
	}

	Auth struct {
		AccessTokenTTL  time.Duration `env:"AUTH_ACCESS_TOKEN_TTL" default:"15m"`
		RefreshTokenTTL time.Duration `env:"AUTH_REFRESH_TOKEN_TTL" default:"168h"`
		JWTSecret       string        `env:"AUTH_JWT_SECRET" default:"supersecretkey"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func New() (*Config, error) {
	cfg := &Config{}

	// Loading environment variables and parsing into the config struct.
	if err := configloader.Load(*configFlag, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := parseFlags(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	return cfg, nil
}

func parseFlags(cfg *Config) error {
	if modeFlag == nil || *modeFlag == "" {
		return ErrModeNotProvided
	}

	mode := types.ServiceMode(*modeFlag)
	switch mode {
	case types.OrderService, types.CourierService, types.AdminService, types.AuthService:
		cfg.Mode = mode
	default:
		return fmt.Errorf("%w: %s", ErrUnknownMode, *modeFlag)
	}

	return nil
}
