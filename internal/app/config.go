package app

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/cruma-app/cruma/internal/auth"
)

type Config struct {
	Server struct {
		Port        string   `toml:"port"`
		CORSOrigins []string `toml:"cors_origins"`
	} `toml:"server"`

	Database struct {
		DSN           string `toml:"dsn"`
		MigrationsDir string `toml:"migrations_dir"`
	} `toml:"database"`

	Sessions struct {
		RedisURL   string `toml:"redis_url"`
		CookieName string `toml:"cookie_name"`
		TTLHours   int    `toml:"ttl_hours"`
		Secure     bool   `toml:"secure"`
	} `toml:"sessions"`

	OAuth struct {
		Google auth.ProviderConfig `toml:"google"`
		GitHub auth.ProviderConfig `toml:"github"`
		// where the browser lands after a completed login
		SuccessURL string `toml:"success_url"`
	} `toml:"oauth"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
	}

	if config.Server.Port == "" {
		return nil, fmt.Errorf("server port is not specified in config, use a value like :9999")
	}
	if config.Database.DSN == "" {
		return nil, fmt.Errorf("database dsn is not specified in config")
	}
	if config.Sessions.RedisURL == "" {
		return nil, fmt.Errorf("sessions redis_url is not specified in config")
	}

	if config.Sessions.CookieName == "" {
		config.Sessions.CookieName = "cruma_session"
	}
	if config.Sessions.TTLHours == 0 {
		config.Sessions.TTLHours = 24 * 7
	}
	if config.OAuth.SuccessURL == "" {
		config.OAuth.SuccessURL = "/"
	}

	logger.Debug.Printf("Loaded config, serving on %s", config.Server.Port)

	return &config, nil
}
