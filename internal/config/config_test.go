package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "BASE_URL", "EVENT_CACHE_TTL", "RECOMMENDATION_LIMIT", "SIMILAR_USERS_LIMIT"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.Environment != "development" {
		t.Errorf("Environment = %q, want development", cfg.Environment)
	}
	if cfg.EventCacheTTL != time.Hour {
		t.Errorf("EventCacheTTL = %v, want 1h", cfg.EventCacheTTL)
	}
	if cfg.RecommendationLimit != 10 {
		t.Errorf("RecommendationLimit = %d, want 10", cfg.RecommendationLimit)
	}
	if cfg.SimilarUsersLimit != 10 {
		t.Errorf("SimilarUsersLimit = %d, want 10", cfg.SimilarUsersLimit)
	}
	if cfg.BaseURL == "" {
		t.Error("BaseURL was not derived from the port")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "staging")
	t.Setenv("EVENT_CACHE_TTL", "30m")
	t.Setenv("RECOMMENDATION_LIMIT", "25")

	cfg := Load()

	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
	if cfg.Environment != "staging" {
		t.Errorf("Environment = %q, want staging", cfg.Environment)
	}
	if cfg.EventCacheTTL != 30*time.Minute {
		t.Errorf("EventCacheTTL = %v, want 30m", cfg.EventCacheTTL)
	}
	if cfg.RecommendationLimit != 25 {
		t.Errorf("RecommendationLimit = %d, want 25", cfg.RecommendationLimit)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := Load()
		cfg.JWTSecret = "test-secret"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "defaults are valid",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name: "default JWT secret rejected in production",
			mutate: func(c *Config) {
				c.JWTSecret = "your-super-secret-key-change-this-in-production"
				c.Environment = "production"
			},
			wantErr: true,
		},
		{
			name:    "missing database URL",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: true,
		},
		{
			name:    "recommendation limit out of range",
			mutate:  func(c *Config) { c.RecommendationLimit = 0 },
			wantErr: true,
		},
		{
			name:    "similar users limit out of range",
			mutate:  func(c *Config) { c.SimilarUsersLimit = 101 },
			wantErr: true,
		},
		{
			name:    "negative cache TTL",
			mutate:  func(c *Config) { c.EventCacheTTL = -time.Second },
			wantErr: true,
		},
		{
			name:    "cleanup interval below one minute",
			mutate:  func(c *Config) { c.CleanupInterval = time.Second },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{Environment: "production"}
	if !cfg.IsProduction() || cfg.IsDevelopment() {
		t.Error("production environment misreported")
	}

	cfg.Environment = "development"
	if cfg.IsProduction() || !cfg.IsDevelopment() {
		t.Error("development environment misreported")
	}
}
