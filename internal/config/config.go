package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/newthinker/chatrelay/internal/core"
	"github.com/spf13/viper"
)

// Config holds process-level settings. Provider settings are not part of it;
// they are resolved per request by ProviderResolver.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	CORSEnabled  bool          `mapstructure:"cors_enabled"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"server.host":         "HOST",
	"server.port":         "PORT",
	"server.cors_enabled": "CORS_ENABLED",
	"log.debug":           "LOG_DEBUG",
	"metrics.enabled":     "METRICS_ENABLED",
}

// Load reads configuration from an optional file, applying defaults and
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	v := viper.New()

	d := Defaults()
	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.cors_enabled", d.Server.CORSEnabled)
	v.SetDefault("server.max_body_bytes", d.Server.MaxBodyBytes)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("log.debug", d.Log.Debug)
	v.SetDefault("metrics.enabled", d.Metrics.Enabled)
	v.SetDefault("metrics.path", d.Metrics.Path)

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", env, err)
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// Expand ${VAR} references in string values
	for _, key := range v.AllKeys() {
		val, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8000,
			MaxBodyBytes: 1 << 20,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.MaxBodyBytes <= 0 {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("max_body_bytes must be positive, got %d", c.Server.MaxBodyBytes))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		return core.WrapError(core.ErrInvalidConfig,
			fmt.Errorf("server timeouts cannot be negative"))
	}

	if c.Metrics.Enabled {
		if !strings.HasPrefix(c.Metrics.Path, "/") {
			return core.WrapError(core.ErrInvalidConfig,
				fmt.Errorf("metrics path must start with /, got %q", c.Metrics.Path))
		}
		switch c.Metrics.Path {
		case "/", "/health", "/chat", "/chat/stream":
			return core.WrapError(core.ErrInvalidConfig,
				fmt.Errorf("metrics path %q collides with a service route", c.Metrics.Path))
		}
	}

	return nil
}
