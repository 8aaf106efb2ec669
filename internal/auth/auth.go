// Package auth issues and checks admin session tokens.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/bahayahay/realty/pkg/constants"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned by Login for a wrong username or password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotConfigured is returned when admin credentials or the signing secret are missing.
	ErrNotConfigured = errors.New("admin access is not configured")
)

// Config holds the admin credentials and token settings.
type Config struct {
	AdminUsername string
	AdminPassword string
	Secret        string
	Issuer        string
	TTL           time.Duration
}

// Claims are the JWT claims of an admin session.
type Claims struct {
	jwt.RegisteredClaims
	Roles []string `json:"roles"`
}

// HasRole checks if the claims include the specified role.
func (c Claims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Service handles admin logins and token validation.
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService returns an auth service. Missing credentials do not fail here;
// Login reports ErrNotConfigured instead so the public site still starts.
func NewService(cfg Config) *Service {
	if cfg.Issuer == "" {
		cfg.Issuer = constants.DefaultTokenIssuer
	}
	if cfg.TTL <= 0 {
		cfg.TTL = time.Duration(constants.DefaultTokenTTLMinutes) * time.Minute
	}
	return &Service{cfg: cfg, now: time.Now}
}

func (s *Service) configured() bool {
	return s.cfg.AdminUsername != "" && s.cfg.AdminPassword != "" && s.cfg.Secret != ""
}

// Login checks the credentials and returns a signed token with its expiry.
func (s *Service) Login(username, password string) (string, time.Time, error) {
	if !s.configured() {
		return "", time.Time{}, ErrNotConfigured
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.AdminPassword)) == 1
	if !userOK || !passOK {
		return "", time.Time{}, ErrInvalidCredentials
	}

	now := s.now()
	expires := now.Add(s.cfg.TTL)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.cfg.Issuer,
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
		Roles: []string{constants.RoleAdmin},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// Validate parses and validates a token string.
func (s *Service) Validate(tokenString string) (*Claims, error) {
	if s.cfg.Secret == "" {
		return nil, ErrNotConfigured
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithIssuer(s.cfg.Issuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if !claims.HasRole(constants.RoleAdmin) {
		return nil, errors.New("token lacks the admin role")
	}
	return claims, nil
}

type contextKey string

const claimsContextKey contextKey = "claims"

// ContextWithClaims returns a new context with the given Claims attached.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext extracts Claims from the context.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*Claims)
	return claims, ok
}
