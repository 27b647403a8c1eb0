// Package token issues the access tokens handed to presentation clients.
// Validation lives in platform/httpkit.
package token

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"estate_dashboard_backend/internal/rbac"
	"estate_dashboard_backend/platform/config"

	"github.com/golang-jwt/jwt/v5"
)

const accessTokenType = "access"

// Claims carried by an access token.
type Claims struct {
	Type string `json:"type"`
	Role string `json:"role"`
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(cfg config.TokenConfig) *Issuer {
	return &Issuer{
		secret: []byte(cfg.GetJWTAccessSecret()),
		ttl:    cfg.GetAccessTokenTTL(),
		now:    time.Now,
	}
}

// SetClock overrides the issue time source.
func (i *Issuer) SetClock(now func() time.Time) {
	if now != nil {
		i.now = now
	}
}

// Issue signs an HS256 access token for p.
func (i *Issuer) Issue(p rbac.Principal) (string, time.Time, error) {
	jti, err := GenerateRandomToken(16)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate token id: %w", err)
	}
	issuedAt := i.now()
	expiresAt := issuedAt.Add(i.ttl)

	claims := Claims{
		Type: accessTokenType,
		Role: string(p.Role),
		Name: p.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   p.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}
	return signed, expiresAt, nil
}

func GenerateRandomToken(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
