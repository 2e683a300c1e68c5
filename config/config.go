package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	Session SessionConfig `mapstructure:"session"`
	UI      UIConfig      `mapstructure:"ui"`
	Log     LogConfig     `mapstructure:"log"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// SessionConfig controls the signed cookie that carries the edit session.
type SessionConfig struct {
	Secret       string        `mapstructure:"secret"`
	TTL          time.Duration `mapstructure:"ttl"`
	SecureCookie bool          `mapstructure:"secure_cookie"`
}

type UIConfig struct {
	// HistoryTarget is the fixed average used for history badges. It is
	// unrelated to the backend's per-month target_average.
	HistoryTarget   float64       `mapstructure:"history_target"`
	NotificationTTL time.Duration `mapstructure:"notification_ttl"`
	Timezone        string        `mapstructure:"timezone"`
	DefaultClockOut string        `mapstructure:"default_clock_out"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads defaults, then the config file, then OVERTIME_* environment
// variables. An empty path searches ./overtime-ui.yaml.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.port", 8080)
	v.SetDefault("backend.base_url", "http://localhost:5001")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", "12h")
	v.SetDefault("session.secure_cookie", false)
	v.SetDefault("ui.history_target", 1.5)
	v.SetDefault("ui.notification_ttl", "3s")
	v.SetDefault("ui.timezone", "Local")
	v.SetDefault("ui.default_clock_out", "17:00")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("overtime-ui")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("OVERTIME")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks what every command needs. The session settings are
// only checked by Session.Validate, since only the view server uses them.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: backend.base_url %q is not an absolute URL", c.Backend.BaseURL)
	}
	if c.UI.NotificationTTL <= 0 {
		return errors.New("config: ui.notification_ttl must be positive")
	}
	if _, err := time.Parse("15:04", c.UI.DefaultClockOut); err != nil {
		return fmt.Errorf("config: ui.default_clock_out %q: %w", c.UI.DefaultClockOut, err)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	return nil
}

func (s *SessionConfig) Validate() error {
	if len(s.Secret) < 16 {
		return errors.New("config: session.secret must be at least 16 characters")
	}
	if s.TTL <= 0 {
		return errors.New("config: session.ttl must be positive")
	}
	return nil
}

// Location resolves ui.timezone, used to decide what "today" is.
func (c *Config) Location() (*time.Location, error) {
	if c.UI.Timezone == "" || c.UI.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.UI.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: ui.timezone: %w", err)
	}
	return loc, nil
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
