// Package auth verifies the bearer tokens issued by the hosted auth service.
package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jsamuelsen/horoscope-service/internal/domain"
	"github.com/jsamuelsen/horoscope-service/internal/platform/config"
)

// defaultLeeway absorbs small clock drift between us and the issuer.
const defaultLeeway = 30 * time.Second

// Identity is the caller resolved from a verified token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// tokenClaims is the payload layout used by the hosted auth service.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// TokenVerifier checks HS256 tokens signed with a shared secret.
type TokenVerifier struct {
	secret   []byte
	issuer   string
	audience string
	leeway   time.Duration
	now      func() time.Time
}

// NewTokenVerifier builds a verifier from the auth config section.
func NewTokenVerifier(cfg config.AuthConfig) (*TokenVerifier, error) {
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, errors.New("jwt secret is required")
	}

	return &TokenVerifier{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		leeway:   defaultLeeway,
		now:      time.Now,
	}, nil
}

// Verify parses raw and returns the identity it carries. Every failure is a
// *domain.UnauthorizedError.
func (v *TokenVerifier) Verify(raw string) (*Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.NewUnauthorizedError("token is required")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(v.leeway),
		jwt.WithTimeFunc(v.now),
	}

	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	if v.audience != "" {
		opts = append(opts, jwt.WithAudience(v.audience))
	}

	var claims tokenClaims

	_, err := jwt.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, opts...)
	if err != nil {
		return nil, mapJWTError(err)
	}

	if strings.TrimSpace(claims.Subject) == "" {
		return nil, domain.NewUnauthorizedError("token has no subject")
	}

	return &Identity{
		UserID: claims.Subject,
		Email:  claims.Email,
		Role:   claims.Role,
	}, nil
}

func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.NewUnauthorizedError("token expired")
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.NewUnauthorizedError("token signature invalid")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer), errors.Is(err, jwt.ErrTokenInvalidAudience):
		return domain.NewUnauthorizedError("token not issued for this service")
	default:
		return domain.NewUnauthorizedError("token invalid")
	}
}
