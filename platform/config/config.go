// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// JWTConfig provides JWT validation settings for middleware.
type JWTConfig interface {
	GetJWTAccessSecret() string
}

// TokenConfig provides settings needed to issue access tokens.
type TokenConfig interface {
	JWTConfig
	GetAccessTokenTTL() time.Duration
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// SessionStoreConfig provides settings for the durable session record.
type SessionStoreConfig interface {
	GetSessionBackend() string
	GetRedisURL() string
	GetSessionKey() string
	GetSessionFile() string
}

// SchedulerConfig provides settings for the follow-up reminder queue.
type SchedulerConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
	GetFollowUpReminderLead() time.Duration
}

// SMTPConfig provides settings for reminder e-mail delivery.
type SMTPConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsSMTPEnabled() bool
}

// MinIOConfig provides settings for property document storage.
type MinIOConfig interface {
	GetMinIOEndpoint() string
	GetMinIOAccessKey() string
	GetMinIOSecretKey() string
	GetMinIOUseSSL() bool
	GetMinIORegion() string
	GetMinioBucketPropertyDocuments() string
	IsMinIOEnabled() bool
}

// PhoneConfig provides the default region for contact phone normalisation.
type PhoneConfig interface {
	GetPhoneDefaultRegion() string
}

// SeedConfig provides the sample-data fixture location.
type SeedConfig interface {
	GetSeedFile() string
}

// Config holds all application configuration.
type Config struct {
	Env                          string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                     string        `env:"HTTP_ADDR" envDefault:":8080"`
	JWTAccessSecret              string        `env:"JWT_ACCESS_SECRET"`
	AccessTokenTTL               time.Duration `env:"JWT_ACCESS_TTL" envDefault:"12h"`
	CORSOrigins                  []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	CORSAllowAll                 bool          `env:"CORS_ALLOW_ALL" envDefault:"false"`
	RedisURL                     string        `env:"REDIS_URL"`
	SessionBackend               string        `env:"SESSION_BACKEND" envDefault:"file"`
	SessionKey                   string        `env:"SESSION_KEY" envDefault:"estate_dashboard:session"`
	SessionFile                  string        `env:"SESSION_FILE" envDefault:".estate_dashboard_session.json"`
	AsynqQueueName               string        `env:"ASYNQ_QUEUE" envDefault:"followups"`
	AsynqConcurrency             int           `env:"ASYNQ_CONCURRENCY" envDefault:"5"`
	FollowUpReminderLead         time.Duration `env:"FOLLOWUP_REMINDER_LEAD" envDefault:"1h"`
	SMTPHost                     string        `env:"SMTP_HOST"`
	SMTPPort                     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername                 string        `env:"SMTP_USERNAME"`
	SMTPPassword                 string        `env:"SMTP_PASSWORD"`
	EmailFromName                string        `env:"EMAIL_FROM_NAME" envDefault:"Estate Dashboard"`
	EmailFromAddress             string        `env:"EMAIL_FROM_ADDRESS" envDefault:"no-reply@example.com"`
	MinIOEndpoint                string        `env:"MINIO_ENDPOINT"`
	MinIOAccessKey               string        `env:"MINIO_ACCESS_KEY"`
	MinIOSecretKey               string        `env:"MINIO_SECRET_KEY"`
	MinIOUseSSL                  bool          `env:"MINIO_USE_SSL" envDefault:"false"`
	MinIORegion                  string        `env:"MINIO_REGION" envDefault:"us-east-1"`
	MinioBucketPropertyDocuments string        `env:"MINIO_BUCKET_PROPERTY_DOCUMENTS" envDefault:"property-documents"`
	PhoneDefaultRegion           string        `env:"PHONE_DEFAULT_REGION" envDefault:"IN"`
	SeedFile                     string        `env:"SEED_FILE" envDefault:"seed/sample.yaml"`
}

// =============================================================================
// Interface Implementations
// =============================================================================

// JWTConfig / TokenConfig implementation
func (c *Config) GetJWTAccessSecret() string       { return c.JWTAccessSecret }
func (c *Config) GetAccessTokenTTL() time.Duration { return c.AccessTokenTTL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }

// SessionStoreConfig implementation
func (c *Config) GetSessionBackend() string { return c.SessionBackend }
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetSessionKey() string     { return c.SessionKey }
func (c *Config) GetSessionFile() string    { return c.SessionFile }

// SchedulerConfig implementation
func (c *Config) GetAsynqQueueName() string              { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int               { return c.AsynqConcurrency }
func (c *Config) GetFollowUpReminderLead() time.Duration { return c.FollowUpReminderLead }

// SMTPConfig implementation
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsSMTPEnabled() bool         { return c.SMTPHost != "" }

// MinIOConfig implementation
func (c *Config) GetMinIOEndpoint() string  { return c.MinIOEndpoint }
func (c *Config) GetMinIOAccessKey() string { return c.MinIOAccessKey }
func (c *Config) GetMinIOSecretKey() string { return c.MinIOSecretKey }
func (c *Config) GetMinIOUseSSL() bool      { return c.MinIOUseSSL }
func (c *Config) GetMinIORegion() string    { return c.MinIORegion }
func (c *Config) GetMinioBucketPropertyDocuments() string {
	return c.MinioBucketPropertyDocuments
}
func (c *Config) IsMinIOEnabled() bool { return c.MinIOEndpoint != "" }

// PhoneConfig implementation
func (c *Config) GetPhoneDefaultRegion() string { return c.PhoneDefaultRegion }

// SeedConfig implementation
func (c *Config) GetSeedFile() string { return c.SeedFile }

// Load reads configuration from environment variables, after loading a local
// .env file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return Parse()
}

// Parse reads configuration from the current process environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	for _, origin := range cfg.CORSOrigins {
		if strings.TrimSpace(origin) == "*" {
			cfg.CORSAllowAll = true
		}
	}

	if cfg.JWTAccessSecret == "" {
		if !strings.EqualFold(cfg.Env, "development") {
			return nil, fmt.Errorf("JWT_ACCESS_SECRET is required outside development")
		}
		cfg.JWTAccessSecret = "development-only-secret"
	}

	switch cfg.SessionBackend {
	case "file", "redis", "memory":
	default:
		return nil, fmt.Errorf("SESSION_BACKEND must be file, redis or memory, got %q", cfg.SessionBackend)
	}
	if cfg.SessionBackend == "redis" && cfg.RedisURL == "" {
		return nil, fmt.Errorf("SESSION_BACKEND=redis requires REDIS_URL")
	}

	return cfg, nil
}
