package config

import (
	"testing"
	"time"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_ACCESS_SECRET", "")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.GetSessionBackend() != "file" {
		t.Fatalf("unexpected session backend %q", cfg.GetSessionBackend())
	}
	if cfg.GetSessionKey() != "estate_dashboard:session" {
		t.Fatalf("unexpected session key %q", cfg.GetSessionKey())
	}
	if cfg.GetFollowUpReminderLead() != time.Hour {
		t.Fatalf("unexpected reminder lead %s", cfg.GetFollowUpReminderLead())
	}
	if cfg.GetPhoneDefaultRegion() != "IN" {
		t.Fatalf("unexpected phone region %q", cfg.GetPhoneDefaultRegion())
	}
	if cfg.GetJWTAccessSecret() == "" {
		t.Fatal("development config should fall back to a local secret")
	}
	if cfg.IsSMTPEnabled() || cfg.IsMinIOEnabled() {
		t.Fatal("optional integrations should be disabled by default")
	}
}

func TestParseRequiresSecretInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_ACCESS_SECRET", "")

	if _, err := Parse(); err == nil {
		t.Fatal("expected error when JWT_ACCESS_SECRET is missing in production")
	}
}

func TestParseWildcardOriginEnablesAllowAll(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("CORS_ORIGINS", "http://a.example, *")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !cfg.GetCORSAllowAll() {
		t.Fatal("expected wildcard origin to enable CORS allow-all")
	}
}

func TestParseSessionBackend(t *testing.T) {
	tests := []struct {
		name     string
		backend  string
		redisURL string
		wantErr  bool
	}{
		{name: "memory", backend: "memory"},
		{name: "redis with url", backend: "redis", redisURL: "redis://localhost:6379/0"},
		{name: "redis without url", backend: "redis", wantErr: true},
		{name: "unknown", backend: "sqlite", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("APP_ENV", "development")
			t.Setenv("SESSION_BACKEND", tc.backend)
			t.Setenv("REDIS_URL", tc.redisURL)

			_, err := Parse()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
