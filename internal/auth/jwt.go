// Package auth verifies learner identity tokens. Issuance belongs to the
// external account service; the engine only checks that a bearer token was
// signed with the shared secret and names a learner.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lexigraph/engine/internal/config"
	"github.com/lexigraph/engine/internal/domain"
)

// TokenValidator validates HS256 learner tokens.
type TokenValidator struct {
	secret []byte
	issuer string
}

// NewTokenValidator creates a validator from auth configuration.
// The secret must be at least 32 characters for HS256 security; config
// validation enforces this before we get here.
func NewTokenValidator(cfg config.AuthConfig) *TokenValidator {
	return &TokenValidator{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
	}
}

// ValidateToken parses and validates a bearer token and returns the learner
// ID from its subject claim. All failures unwrap to domain.ErrUnauthorized.
func (v *TokenValidator) ValidateToken(_ context.Context, tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("empty token: %w", domain.ErrUnauthorized)
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %v: %w", err, domain.ErrUnauthorized)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token claims: %w", domain.ErrUnauthorized)
	}

	learnerID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject: %w", domain.ErrUnauthorized)
	}

	return learnerID, nil
}

// SignForTest builds a signed token for the given learner. Test helper; the
// engine never issues tokens in production.
func SignForTest(cfg config.AuthConfig, learnerID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   learnerID.String(),
		Issuer:    cfg.JWTIssuer,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}
