package config

import (
	"fmt"
	"os"
	"time"
)

const (
	// StoreDriverPostgres backs the service with Postgres.
	StoreDriverPostgres = "postgres"
	// StoreDriverMemory keeps everything in process memory. State is lost
	// on restart; meant for local runs and demos.
	StoreDriverMemory = "memory"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Store     StoreConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type StoreConfig struct {
	Driver string
}

type SchedulerConfig struct {
	ProcessingDelay time.Duration
	TerminalDelay   time.Duration
	PollInterval    time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3002"),
			Env:  getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "paylite"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Store: StoreConfig{
			Driver: getEnv("STORE_DRIVER", StoreDriverPostgres),
		},
		Scheduler: SchedulerConfig{
			ProcessingDelay: getDuration("SCHED_PROCESSING_DELAY", 1500*time.Millisecond),
			TerminalDelay:   getDuration("SCHED_TERMINAL_DELAY", 3*time.Second),
			PollInterval:    getDuration("SCHED_POLL_INTERVAL", 250*time.Millisecond),
		},
	}

	switch cfg.Store.Driver {
	case StoreDriverPostgres, StoreDriverMemory:
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}

	return cfg, nil
}

// DSN builds the Postgres connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
