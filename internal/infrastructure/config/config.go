// Package config provides configuration management for the application.
// It follows the 12-Factor App methodology by loading configuration
// from environment variables and supporting external configuration files.
//
// 12-Factor App Compilance:
// 	 - III. Config: Store config in the environment
// 	 - Configuration is loaded from environment variables
// 	 - Sensitive data (passwords, keys) only via environment
// 	 - No config files checked into version control

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration.
// All fields are populated from environment variables or config files.
type Config struct {
	// App contains application-level configuration
	App AppConfig `mapstructure:"app"`

	// Server contains HTTP server configuration
	Server ServerConfig `mapstructure:"server"`

	// Log contains logger configuration
	Log LogConfig `mapstructure:"log"`

	// Database contains shipment store configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Redis contains tracking number reservation configuration
	Redis RedisConfig `mapstructure:"redis"`

	// Tracking contains tracking number generation configuration
	Tracking TrackingConfig `mapstructure:"tracking"`

	// Freight contains measurement and pricing configuration
	Freight FreightConfig `mapstructure:"freight"`

	// Telemetry contains tracing configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`

	// RateLimit contains per-client rate limiting configuration
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// AppConfig contains application-level configuration.
type AppConfig struct {
	// Name of the application
	Name string `mapstructure:"name"`

	// Environment the application is running in (e.g., development, staging, production)
	Environment string `mapstructure:"environment"`

	// Version is reported when the binary was built without -ldflags version.
	Version string `mapstructure:"version"`

	// Debug forces debug-level logging regardless of log.level.
	Debug bool `mapstructure:"debug"`
}

// ResolveVersion prefers the version stamped at build time and falls back
// to app.version, then to "dev".
func (a AppConfig) ResolveVersion(buildVersion string) string {
	switch {
	case buildVersion != "" && buildVersion != "dev":
		return buildVersion
	case a.Version != "":
		return a.Version
	}
	return "dev"
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	// Host is the server bind address
	Host string `mapstructure:"host"`

	// Port is the server port
	Port int `mapstructure:"port"`

	// ReadTimeout is the maximum duration for reading the entire request, including the body
	ReadTimeout time.Duration `mapstructure:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the response
	WriteTimeout time.Duration `mapstructure:"write_timeout"`

	// RequestTimeout bounds handler work. It must stay below WriteTimeout so
	// the 504 response can still be written.
	RequestTimeout time.Duration `mapstructure:"request_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`

	// ShutdownTimeout is the maximum duration for graceful server shutdown
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`

	// MaxRequestSize is the maximun allowed request body size
	MaxRequestSize int64 `mapstructure:"max_request_size"`

	// CORSAllowedOrigins is a list of allowed origins for CORS
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

// Address returns host:port for http.Server.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LogLevel is the effective log level; app.debug overrides log.level.
func (c *Config) LogLevel() string {
	if c.App.Debug {
		return "debug"
	}
	return c.Log.Level
}

// LogConfig contains logger configuration.
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `mapstructure:"level"`

	// Format is json or console
	Format string `mapstructure:"format"`
}

// DatabaseConfig contains the SQLite shipment store configuration.
type DatabaseConfig struct {
	// Path is the SQLite database file
	Path string `mapstructure:"path"`
}

// RedisConfig contains the tracking number reservation store configuration.
// Reservations are skipped when Enabled is false.
type RedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Namespace string `mapstructure:"namespace"`
}

// TrackingConfig contains tracking number generation settings.
type TrackingConfig struct {
	// MaxAttempts bounds the collision-check loop
	MaxAttempts int `mapstructure:"max_attempts"`

	// InsertRetries bounds create retries after a unique-constraint conflict
	InsertRetries int `mapstructure:"insert_retries"`

	// ReservationTTL is how long a Redis reservation is held
	ReservationTTL time.Duration `mapstructure:"reservation_ttl"`
}

// FreightConfig contains measurement and pricing settings.
type FreightConfig struct {
	// MaxDimension is the largest accepted side in centimeters
	MaxDimension float64 `mapstructure:"max_dimension"`

	// DefaultDivisor is the volumetric divisor for modes without an override
	DefaultDivisor float64 `mapstructure:"default_divisor"`

	// Divisors overrides the divisor per freight mode (air, sea, road, express)
	Divisors map[string]float64 `mapstructure:"divisors"`

	// Currency prices quotes
	Currency string `mapstructure:"currency"`

	// RatesPerKg is the price per chargeable kg per freight mode, in minor units
	RatesPerKg map[string]int64 `mapstructure:"rates_per_kg"`
}

// TelemetryConfig contains tracing configuration.
type TelemetryConfig struct {
	// Enabled exports spans through the stdout exporter
	Enabled bool `mapstructure:"enabled"`

	// Output is a file for the exported spans; empty means stdout
	Output string `mapstructure:"output"`
}

// RateLimitConfig contains per-client rate limiting configuration.
type RateLimitConfig struct {
	Enabled           bool          `mapstructure:"enabled"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

// Load loads the configuration from environment variables and config files.
// It follows this precedence (higest to lowest):
//  1. Environment variables
//  2. Config file (if provided)
//  3. Default values
//
// Parameters:
//   - configFile: explicit config file path; empty searches the default locations
//
// Returns:
//   - *Config: The loaded configuration
//   - error: Any error encountered during loading
func Load(configFile string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/freight-go")
	}

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		// If the error is not "file not found", return the error
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	// Read environment variables
	v.SetEnvPrefix("FREIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific environment variables
	bindEnvVars(v)

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values that would make the service misbehave at runtime.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("server.port %d out of range", c.Server.Port))
	}
	if c.Server.RequestTimeout <= 0 {
		problems = append(problems, "server.request_timeout must be positive")
	} else if c.Server.WriteTimeout > 0 && c.Server.RequestTimeout >= c.Server.WriteTimeout {
		problems = append(problems, fmt.Sprintf("server.request_timeout %s must be below server.write_timeout %s",
			c.Server.RequestTimeout, c.Server.WriteTimeout))
	}
	if c.Database.Path == "" {
		problems = append(problems, "database.path is required")
	}
	if c.Tracking.MaxAttempts <= 0 {
		problems = append(problems, "tracking.max_attempts must be positive")
	}
	if c.Tracking.InsertRetries <= 0 {
		problems = append(problems, "tracking.insert_retries must be positive")
	}
	if c.Freight.MaxDimension <= 0 {
		problems = append(problems, "freight.max_dimension must be positive")
	}
	if c.Freight.DefaultDivisor <= 0 {
		problems = append(problems, "freight.default_divisor must be positive")
	}
	for mode, d := range c.Freight.Divisors {
		if d <= 0 {
			problems = append(problems, fmt.Sprintf("freight.divisors.%s must be positive", mode))
		}
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		problems = append(problems, "redis.addr is required when redis is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "freight-go")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.version", "")
	v.SetDefault("app.debug", false)

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.request_timeout", 10*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 30*time.Second)
	v.SetDefault("server.max_request_size", 1<<20)             // 1MB
	v.SetDefault("server.cors_allowed_origins", []string{"*"}) // Allow all origins by default

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.path", "freight.db")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.namespace", "freight")

	v.SetDefault("tracking.max_attempts", 10)
	v.SetDefault("tracking.insert_retries", 3)
	v.SetDefault("tracking.reservation_ttl", 5*time.Minute)

	v.SetDefault("freight.max_dimension", 300)
	v.SetDefault("freight.default_divisor", 5000)
	v.SetDefault("freight.currency", "USD")

	v.SetDefault("telemetry.enabled", false)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 10)
	v.SetDefault("rate_limit.burst", 20)
	v.SetDefault("rate_limit.cleanup_interval", time.Minute)
}

// bindEnvVars binds specific environment variables to configuration keys.
func bindEnvVars(v *viper.Viper) {
	// These are explicity bound for clarity
	_ = v.BindEnv("app.environment", "FREIGHT_ENVIRONMENT")
	_ = v.BindEnv("server.port", "FREIGHT_SERVER_PORT", "PORT") // Common convention
	_ = v.BindEnv("redis.password", "FREIGHT_REDIS_PASSWORD")
}

// MustLoad loads the configuration and panics on error.
// Use this in application entry points where configuration is required.
//
// Returns:
//   - *Config: The loaded configuration
func MustLoad(configFile string) *Config {
	cfg, err := Load(configFile)
	if err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
	return cfg
}
