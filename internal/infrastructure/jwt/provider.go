// Package jwtinfra signs and verifies the HS256 bearer tokens that protect
// the event-ingest webhook. Callers are other backend services, not end
// users, so a shared secret is sufficient.
package jwtinfra

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-push-reactor/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Claims holds the JWT payload fields.
type Claims struct {
	Service string `json:"service"`
	jwt.RegisteredClaims
}

// Provider signs and verifies HS256 JWTs with a shared secret.
type Provider struct {
	secret []byte
	expiry time.Duration
}

func NewProvider(cfg *config.Config) (*Provider, error) {
	if cfg.WebhookJWTSecret == "" {
		return nil, fmt.Errorf("webhook JWT secret is not configured")
	}
	return &Provider{
		secret: []byte(cfg.WebhookJWTSecret),
		expiry: cfg.WebhookJWTExpiry,
	}, nil
}

// Sign issues a token identifying the calling service. Used by operational
// tooling to mint webhook credentials.
func (p *Provider) Sign(service string) (string, error) {
	claims := Claims{
		Service: service,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(p.expiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

func (p *Provider) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
