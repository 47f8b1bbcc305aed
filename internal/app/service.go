package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/cruma-app/cruma/internal/auth"
	"github.com/cruma-app/cruma/internal/prereq"
	"github.com/cruma-app/cruma/internal/schedule"
	"github.com/cruma-app/cruma/internal/store"
	"github.com/cruma-app/cruma/internal/store/postgres"
	"github.com/cruma-app/cruma/internal/store/sqlite"
)

// Service is the dependency container built once in main and passed into the
// handlers; nothing here is package-global.
type Service struct {
	Config    *Config
	Store     store.Store
	Sessions  *Sessions
	Providers map[string]*auth.Provider
	Prereqs   *prereq.Service
	Schedules *schedule.Service
}

func NewService(configPath string) (*Service, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	st, err := NewStore(config.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to init store: %w", err)
	}

	sessions, err := NewSessions(config.Sessions.RedisURL, time.Duration(config.Sessions.TTLHours)*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("failed to init sessions: %w", err)
	}

	providers := map[string]*auth.Provider{}
	if config.OAuth.Google.ClientID != "" {
		providers[auth.ProviderGoogle] = auth.NewGoogleProvider(config.OAuth.Google)
	}
	if config.OAuth.GitHub.ClientID != "" {
		providers[auth.ProviderGitHub] = auth.NewGitHubProvider(config.OAuth.GitHub)
	}

	return &Service{
		Config:    config,
		Store:     st,
		Sessions:  sessions,
		Providers: providers,
		Prereqs:   prereq.NewService(st),
		Schedules: schedule.NewService(st),
	}, nil
}

func NewStore(dsn string) (store.Store, error) {
	dbType := store.DBTypeSQLite
	if strings.HasPrefix(dsn, "postgres") {
		dbType = store.DBTypePostgres
	}

	switch dbType {
	case store.DBTypePostgres:
		return postgres.NewPostgresStore(dsn)
	case store.DBTypeSQLite:
		return sqlite.NewSQLiteStore(dsn)
	default:
		return nil, fmt.Errorf("unable to determine database type from DSN: %s", dsn)
	}
}

func (s *Service) Close() error {
	var errs []error

	if err := s.Store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("store: %w", err))
	}
	if err := s.Sessions.Close(); err != nil {
		errs = append(errs, fmt.Errorf("sessions: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors while closing: %v", errs)
	}
	return nil
}
