package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds everything the process reads from the environment. Load is
// called once at startup, after godotenv has had a chance to populate the
// environment from a .env file.
type Config struct {
	ListenAddr  string
	DatabaseURL string

	// Session tokens are minted by the auth service with the same secret;
	// this service only verifies them (plus issues short-lived ones for
	// internal tooling).
	SessionSecret string
	SessionTTL    time.Duration

	// Shared token for service-to-service endpoints under /internal.
	InternalServiceToken string

	// Starting rating for every discipline on a new profile.
	RatingDefault int

	// Pending-confirmation reminder job.
	ReminderInterval time.Duration
	ReminderAfter    time.Duration

	// Dead-connection sweep.
	PresenceSweepInterval time.Duration

	// Outbound queue size per websocket client.
	WSSendBuffer int

	LogLevel  string
	LogFormat string

	CORSOrigins string
}

func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:            getenv("LISTEN_ADDR", ":5300"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SessionSecret:         os.Getenv("SESSION_SECRET"),
		SessionTTL:            getduration("SESSION_TTL", 24*time.Hour),
		InternalServiceToken:  os.Getenv("INTERNAL_SERVICE_TOKEN"),
		RatingDefault:         getint("RATING_DEFAULT", 1000),
		ReminderInterval:      getduration("REMINDER_INTERVAL", 15*time.Minute),
		ReminderAfter:         getduration("REMINDER_AFTER", time.Hour),
		PresenceSweepInterval: getduration("PRESENCE_SWEEP_INTERVAL", time.Minute),
		WSSendBuffer:          getint("WS_SEND_BUFFER", 32),
		LogLevel:              getenv("LOG_LEVEL", "info"),
		LogFormat:             getenv("LOG_FORMAT", "json"),
		CORSOrigins:           getenv("CORS_ORIGINS", "http://localhost:3000"),
	}

	if cfg.DatabaseURL == "" {
		return nil, errors.New("DATABASE_URL environment variable not set")
	}
	if cfg.SessionSecret == "" {
		return nil, errors.New("SESSION_SECRET environment variable not set")
	}
	if cfg.InternalServiceToken == "" {
		return nil, errors.New("INTERNAL_SERVICE_TOKEN environment variable not set")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getduration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
