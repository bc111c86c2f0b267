package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const Issuer = "latency-optimizer"

var (
	ErrEmptySubject  = errors.New("token subject is required")
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("signing key is required")
)

// Config holds JWT configuration
type Config struct {
	SecretKey     []byte
	TokenDuration time.Duration
}

// TokenClaims are the claims of an operator token. Operator tokens grant
// read access to the persisted optimization runs.
type TokenClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTService issues and validates operator tokens
type JWTService struct {
	config *Config
	now    func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(config *Config) (*JWTService, error) {
	if config == nil || len(config.SecretKey) == 0 {
		return nil, ErrMissingSecret
	}
	if config.TokenDuration <= 0 {
		config.TokenDuration = 24 * time.Hour
	}
	return &JWTService{config: config, now: time.Now}, nil
}

// GenerateToken signs a token for subject
func (s *JWTService) GenerateToken(subject string) (string, time.Time, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return "", time.Time{}, ErrEmptySubject
	}

	now := s.now()
	expiresAt := now.Add(s.config.TokenDuration)

	claims := &TokenClaims{
		Scope: "runs:read",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.config.SecretKey)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func (s *JWTService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.config.SecretKey, nil
	}, jwt.WithIssuer(Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
