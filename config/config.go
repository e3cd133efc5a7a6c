package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
)

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json or console
}

// RateLimitConfig holds the per-client request budget
type RateLimitConfig struct {
	RPS   float64 // Requests per second, <= 0 disables limiting
	Burst int     // Maximum burst size
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN        string  // Empty DSN disables reporting
	SampleRate float64 // Error event sample rate in [0, 1]
}

// ServerConfig holds HTTP server timeouts
type ServerConfig struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Config holds all configuration for the web service
type Config struct {
	Env                string
	Port               string
	WebDir             string // Directory holding the compiled app.wasm
	Version            string // Front-end build version, empty lets go-app derive one
	CORSAllowedOrigins []string
	RateLimit          RateLimitConfig
	Logging            LoggingConfig
	Sentry             SentryConfig
	Server             ServerConfig
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Env:                "local",
		Port:               ":8080",
		WebDir:             ".",
		CORSAllowedOrigins: []string{"http://localhost:8080"},
		RateLimit: RateLimitConfig{
			RPS:   20,
			Burst: 40,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Sentry: SentryConfig{
			SampleRate: 1.0,
		},
		Server: ServerConfig{
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// IsLocal reports whether the service runs on a developer machine
func (c *Config) IsLocal() bool {
	return c.Env == "local"
}

// Load builds the configuration from defaults, an optional config file and
// the environment, in increasing order of precedence
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{
		Env:                v.GetString("env"),
		Port:               v.GetString("port"),
		WebDir:             v.GetString("web_dir"),
		Version:            v.GetString("version"),
		CORSAllowedOrigins: stringList(v, "cors_allowed_origins"),
		RateLimit: RateLimitConfig{
			RPS:   v.GetFloat64("rate_limit.rps"),
			Burst: v.GetInt("rate_limit.burst"),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
		Sentry: SentryConfig{
			DSN:        v.GetString("sentry.dsn"),
			SampleRate: v.GetFloat64("sentry.sample_rate"),
		},
		Server: ServerConfig{
			ReadTimeout:     v.GetDuration("server.read_timeout"),
			WriteTimeout:    v.GetDuration("server.write_timeout"),
			IdleTimeout:     v.GetDuration("server.idle_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("env", d.Env)
	v.SetDefault("port", d.Port)
	v.SetDefault("web_dir", d.WebDir)
	v.SetDefault("version", d.Version)
	v.SetDefault("cors_allowed_origins", d.CORSAllowedOrigins)
	v.SetDefault("rate_limit.rps", d.RateLimit.RPS)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("sentry.dsn", d.Sentry.DSN)
	v.SetDefault("sentry.sample_rate", d.Sentry.SampleRate)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
}

// stringList reads a list that may come from a config file as a sequence or
// from the environment as a comma separated string
func stringList(v *viper.Viper, key string) []string {
	if raw, ok := v.Get(key).(string); ok {
		var out []string
		for _, item := range strings.Split(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
		return out
	}
	return v.GetStringSlice(key)
}

// Validate checks the configuration for values the server cannot run with
func (c *Config) Validate() error {
	var errs []error

	if err := validatePort(c.Port, "Port"); err != nil {
		errs = append(errs, err)
	}
	if c.RateLimit.RPS < 0 {
		errs = append(errs, fmt.Errorf("RateLimit.RPS: must not be negative (current value: %v)", c.RateLimit.RPS))
	}
	if c.RateLimit.RPS > 0 && c.RateLimit.Burst < 1 {
		errs = append(errs, fmt.Errorf("RateLimit.Burst: must be at least 1 when rate limiting is enabled (current value: %d)", c.RateLimit.Burst))
	}
	if c.Sentry.SampleRate < 0 || c.Sentry.SampleRate > 1 {
		errs = append(errs, fmt.Errorf("Sentry.SampleRate: must be between 0 and 1 (current value: %v)", c.Sentry.SampleRate))
	}
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, fmt.Errorf("Logging.Level: unknown level %q", c.Logging.Level))
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		errs = append(errs, fmt.Errorf("Logging.Format: must be json or console (current value: %s)", c.Logging.Format))
	}

	return errors.Join(errs...)
}

// validatePort checks a listen address of the form ":PORT"
func validatePort(port, fieldName string) error {
	if port == "" {
		return fmt.Errorf("%s: port cannot be empty", fieldName)
	}

	if !strings.HasPrefix(port, ":") {
		return fmt.Errorf("%s: port must be in format ':PORT' where PORT is numeric (current value: %s)", fieldName, port)
	}

	n, err := strconv.Atoi(port[1:])
	if err != nil {
		return fmt.Errorf("%s: port must be in format ':PORT' where PORT is numeric (current value: %s)", fieldName, port)
	}

	if n < 1 || n > 65535 {
		return fmt.Errorf("%s: port must be between 1 and 65535 (current value: %d)", fieldName, n)
	}

	return nil
}
