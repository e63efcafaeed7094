// Package config handles configuration loading using viper.
package config

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// Config is the top-level configuration. Maps to the `ipxplorer:` root key.
type Config struct {
	Server   ServerConfig             `mapstructure:"server"`
	Log      LogConfig                `mapstructure:"log"`
	Session  SessionConfig            `mapstructure:"session"`
	Variants map[string]VariantConfig `mapstructure:"variants"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"` // per WebSocket message
	PongWait       time.Duration `mapstructure:"pong_wait"`     // WebSocket keepalive
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // text | json
}

// SessionConfig bounds the number and lifetime of live explorer sessions.
type SessionConfig struct {
	MaxSessions int           `mapstructure:"max_sessions"`
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
}

// VariantConfig overrides per-variant presentation defaults.
type VariantConfig struct {
	DarkTheme *bool `mapstructure:"dark_theme"`
}

// ThemeOverrides returns the configured dark-theme flags by variant name.
func (c *Config) ThemeOverrides() map[string]bool {
	out := make(map[string]bool)
	for name, v := range c.Variants {
		if v.DarkTheme != nil {
			out[name] = *v.DarkTheme
		}
	}
	return out
}

type configRoot struct {
	IPXplorer Config `mapstructure:"ipxplorer"`
}

// Load reads the configuration. An empty path uses defaults and environment
// variables only. Env vars use the IPXPLORER_ prefix, e.g. IPXPLORER_SERVER_PORT.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrap(err, "failed to read config file")
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	var root configRoot
	if err := v.Unmarshal(&root); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	cfg := root.IPXplorer

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ipxplorer.server.port", 8080)
	v.SetDefault("ipxplorer.server.allowed_origins", []string{"http://localhost:*", "http://127.0.0.1:*"})
	v.SetDefault("ipxplorer.server.write_timeout", "5s")
	v.SetDefault("ipxplorer.server.pong_wait", "60s")

	v.SetDefault("ipxplorer.log.level", "info")
	v.SetDefault("ipxplorer.log.format", "text")

	v.SetDefault("ipxplorer.session.max_sessions", 1000)
	v.SetDefault("ipxplorer.session.idle_timeout", "30m")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.WriteTimeout <= 0 {
		return errors.Errorf("invalid write timeout: %s", c.Server.WriteTimeout)
	}
	if c.Server.PongWait <= 0 {
		return errors.Errorf("invalid pong wait: %s", c.Server.PongWait)
	}
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		return errors.Errorf("invalid log level: %s (must be debug/info/warn/error)", c.Log.Level)
	}
	if f := strings.ToLower(c.Log.Format); f != "json" && f != "text" {
		return errors.Errorf("invalid log format: %s (must be json/text)", c.Log.Format)
	}
	if c.Session.MaxSessions <= 0 {
		return errors.Errorf("invalid max sessions: %d", c.Session.MaxSessions)
	}
	if c.Session.IdleTimeout <= 0 {
		return errors.Errorf("invalid idle timeout: %s", c.Session.IdleTimeout)
	}
	return nil
}
