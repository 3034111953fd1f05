package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Sentinel error kinds for this package
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Supported authorization modes
const (
	AuthModePermissive = "permissive"
	AuthModeJWT        = "jwt"
)

// Config used for the application configuration
type Config struct {
	// Server Configuration
	AppEnv          string        `koanf:"app_env" json:"app_env"`
	Port            int           `koanf:"port" json:"port"`
	Host            string        `koanf:"host" json:"host"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" json:"shutdown_timeout"`

	// Logging configuration
	LogLevel string `koanf:"log_level" json:"log_level"`
	LogFile  string `koanf:"log_file" json:"log_file"`

	// Metrics configuration
	MetricsNamespace string    `koanf:"metrics_namespace" json:"metrics_namespace"`
	MetricsSubsystem string    `koanf:"metrics_subsystem" json:"metrics_subsystem"`
	MetricsBuckets   []float64 `koanf:"metrics_buckets" json:"metrics_buckets"`

	// CORS configuration
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" json:"cors_allowed_origins"`

	// Security Configuration
	AuthMode  string `koanf:"auth_mode" json:"auth_mode"`
	JWTSecret string `koanf:"jwt_secret" json:"jwt_secret"`

	// Database configuration
	DBDriver          string `koanf:"db_driver" json:"db_driver"`
	DBPath            string `koanf:"db_path" json:"db_path"`
	DBHost            string `koanf:"db_host" json:"db_host"`
	DBPort            string `koanf:"db_port" json:"db_port"`
	DBName            string `koanf:"db_name" json:"db_name"`
	DBUser            string `koanf:"db_user" json:"db_user"`
	DBPassword        string `koanf:"db_password" json:"db_password"`
	DBSSLMode         string `koanf:"db_sslmode" json:"db_sslmode"`
	DatabaseURL       string `koanf:"database_url" json:"database_url"`
	DBConnectAttempts int    `koanf:"db_connect_attempts" json:"db_connect_attempts"`
}

// New returns a Config populated with defaults
func New() *Config {
	return &Config{
		AppEnv:             "development",
		Port:               8080,
		Host:               "localhost",
		ShutdownTimeout:    10 * time.Second,
		MetricsNamespace:   "pizzastore",
		MetricsSubsystem:   "api",
		CORSAllowedOrigins: []string{"https://localhost:3000"},
		AuthMode:           AuthModePermissive,
		DBDriver:           "sqlite",
		DBPath:             "pizzas.sqlite",
		DBHost:             "localhost",
		DBPort:             "5432",
		DBName:             "pizzastore",
		DBUser:             "postgres",
		DBSSLMode:          "disable",
		DBConnectAttempts:  1,
	}
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{AppEnv: %s, Port: %d, Host: %s, LogLevel: %s, LogFile: %s, CORSAllowedOrigins: %v, AuthMode: %s, JWTSecret: [REDACTED], DBDriver: %s, DBPath: %s, DBHost: %s, DBPort: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], DatabaseURL: %s}",
		c.AppEnv, c.Port, c.Host, c.LogLevel, c.LogFile, c.CORSAllowedOrigins, c.AuthMode,
		c.DBDriver, c.DBPath, c.DBHost, c.DBPort, c.DBName, c.DBUser, maskDatabaseURL(c.DatabaseURL))
}

// EffectiveLogLevel returns LogLevel, falling back to a level derived from AppEnv
func (c *Config) EffectiveLogLevel() string {
	if c.LogLevel != "" {
		return c.LogLevel
	}
	switch c.AppEnv {
	case "development":
		return "debug"
	case "production":
		return "error"
	default:
		return "info"
	}
}

// Validate checks value ranges and cross-field requirements
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: port %d out of range", ErrInvalidConfig, c.Port)
	}

	switch strings.ToLower(c.DBDriver) {
	case "sqlite", "":
		if c.DBPath == "" {
			return fmt.Errorf("%w: db_path is required for sqlite", ErrInvalidConfig)
		}
	case "postgres", "postgresql":
		if c.DatabaseURL != "" {
			if _, err := url.ParseRequestURI(c.DatabaseURL); err != nil {
				return fmt.Errorf("%w: invalid database_url: %s", ErrInvalidConfig, maskDatabaseURL(c.DatabaseURL))
			}
		}
	default:
		return fmt.Errorf("%w: unsupported db_driver %q", ErrInvalidConfig, c.DBDriver)
	}

	switch c.AuthMode {
	case AuthModePermissive:
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("%w: jwt_secret is required when auth_mode is jwt", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unsupported auth_mode %q", ErrInvalidConfig, c.AuthMode)
	}

	if c.LogLevel != "" {
		if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
			return fmt.Errorf("%w: unsupported log_level %q", ErrInvalidConfig, c.LogLevel)
		}
	}

	for i := 1; i < len(c.MetricsBuckets); i++ {
		if c.MetricsBuckets[i] <= c.MetricsBuckets[i-1] {
			return fmt.Errorf("%w: metrics_buckets must be strictly increasing", ErrInvalidConfig)
		}
	}

	if c.DBConnectAttempts < 1 {
		return fmt.Errorf("%w: db_connect_attempts must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}
