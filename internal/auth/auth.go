// Package auth issues and verifies the bearer tokens that identify trip owners.
// Tokens are HS256 JWTs whose subject is the owner's UUID.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/pkordes/itinerary/internal/domain"
)

const issuer = "itinerary"

// Authenticator signs and verifies owner tokens with a shared secret.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New returns an Authenticator. ttl is the lifetime of issued tokens.
func New(secret string, ttl time.Duration) *Authenticator {
	return &Authenticator{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue returns a signed token identifying ownerID.
func (a *Authenticator) Issue(ownerID uuid.UUID) (string, error) {
	now := a.now()
	claims := jwt.RegisteredClaims{
		Subject:   ownerID.String(),
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("auth.Authenticator.Issue: %w", err)
	}
	return signed, nil
}

// Authenticate verifies token and returns the owner it identifies.
// Every failure is reported as domain.ErrUnauthorized.
func (a *Authenticator) Authenticate(token string) (uuid.UUID, error) {
	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}

	ownerID, err := uuid.Parse(claims.Subject)
	if err != nil || ownerID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("%w: token subject is not an owner id", domain.ErrUnauthorized)
	}
	return ownerID, nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", errors.Join(domain.ErrUnauthorized, errors.New("missing or malformed bearer token"))
	}
	return strings.TrimSpace(token), nil
}

type ownerKey struct{}

// WithOwner returns a copy of ctx carrying the authenticated owner ID.
func WithOwner(ctx context.Context, ownerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ownerKey{}, ownerID)
}

// OwnerFrom returns the owner ID stored by WithOwner.
func OwnerFrom(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerKey{}).(uuid.UUID)
	return id, ok
}
