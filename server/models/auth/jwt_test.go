package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func newService(t *testing.T, duration time.Duration) *JWTService {
	t.Helper()
	s, err := NewJWTService(&Config{SecretKey: []byte("test-secret"), TokenDuration: duration})
	if err != nil {
		t.Fatalf("NewJWTService failed: %v", err)
	}
	return s
}

func TestGenerateAndValidateToken(t *testing.T) {
	s := newService(t, time.Hour)

	token, expiresAt, err := s.GenerateToken("ops")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Error("Expected expiry in the future")
	}

	claims, err := s.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.Subject != "ops" {
		t.Errorf("Expected subject ops, got %s", claims.Subject)
	}
	if claims.Scope != "runs:read" {
		t.Errorf("Expected scope runs:read, got %s", claims.Scope)
	}
}

func TestGenerateToken_EmptySubject(t *testing.T) {
	s := newService(t, time.Hour)
	if _, _, err := s.GenerateToken("  "); !errors.Is(err, ErrEmptySubject) {
		t.Errorf("Expected ErrEmptySubject, got %v", err)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	s := newService(t, time.Minute)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := s.GenerateToken("ops")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	s.now = time.Now
	if _, err := s.ValidateToken(token); !errors.Is(err, jwt.ErrTokenExpired) {
		t.Errorf("Expected ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	token, _, err := newService(t, time.Hour).GenerateToken("ops")
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	other, _ := NewJWTService(&Config{SecretKey: []byte("other-secret")})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("Expected signature error")
	}
}

func TestValidateToken_Garbage(t *testing.T) {
	s := newService(t, time.Hour)
	if _, err := s.ValidateToken("not.a.token"); err == nil {
		t.Error("Expected error for malformed token")
	}
	if _, err := s.ValidateToken(strings.Repeat("a", 10)); err == nil {
		t.Error("Expected error for malformed token")
	}
}

func TestNewJWTService_MissingSecret(t *testing.T) {
	if _, err := NewJWTService(&Config{}); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("Expected ErrMissingSecret, got %v", err)
	}
}
