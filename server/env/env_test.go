package env

import (
	"testing"
	"time"
)

func TestSetDefaults(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "test-key")

	e := &ENV{}
	e.SetDefaults()

	if e.Environment != "development" {
		t.Errorf("Expected development, got %s", e.Environment)
	}
	if e.GetServerPort() != "5000" {
		t.Errorf("Expected port 5000, got %s", e.GetServerPort())
	}
	if e.JWTSigningKey != "test-key" {
		t.Errorf("Expected signing key from environment, got %q", e.JWTSigningKey)
	}
	if e.Optimizer.HistoryNodeBudget != 2000000 {
		t.Errorf("Expected history node budget 2000000, got %d", e.Optimizer.HistoryNodeBudget)
	}
	if e.Optimizer.MaxNodes != 1000000 {
		t.Errorf("Expected max nodes 1000000, got %d", e.Optimizer.MaxNodes)
	}
	if e.Log.Level != "debug" || !*e.Log.Pretty {
		t.Errorf("Expected pretty debug logging in development, got %+v", e.Log)
	}
	if e.HasRedis() || e.HasDatabase() {
		t.Error("Expected no redis and no database by default")
	}
}

func TestSetDefaults_MissingSigningKeyPanics(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", "")

	defer func() {
		if recover() == nil {
			t.Error("Expected panic without a signing key")
		}
	}()
	(&ENV{}).SetDefaults()
}

func TestDurations(t *testing.T) {
	e := &ENV{
		JWTTokenDuration: "2h",
		Optimizer:        &Optimizer{CacheTTL: "bogus"},
		RateLimit:        &RateLimit{Window: "10s"},
	}

	if got := e.GetJWTDuration(); got != 2*time.Hour {
		t.Errorf("Expected 2h, got %v", got)
	}
	if got := e.GetCacheTTL(); got != 30*time.Minute {
		t.Errorf("Expected fallback 30m for invalid TTL, got %v", got)
	}
	if got := e.GetRateLimitWindow(); got != 10*time.Second {
		t.Errorf("Expected 10s, got %v", got)
	}

	var nilEnv *ENV
	if got := nilEnv.GetJWTDuration(); got != 24*time.Hour {
		t.Errorf("Expected 24h for nil env, got %v", got)
	}
}
