// Package auth verifies the access tokens issued by the backend auth service
// and carries the caller identity through request contexts.
package auth

import (
	"errors"
	"fmt"
	"slices"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mamadbah2/herdbook/internal/domain/models"
)

// Verifier validates HS256 access tokens.
type Verifier struct {
	secret   []byte
	audience string
}

// NewVerifier creates a verifier. An empty audience disables the audience
// check.
func NewVerifier(secret, audience string) *Verifier {
	return &Verifier{secret: []byte(secret), audience: audience}
}

type accessClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Verify parses tokenString and returns the owner id carried in its subject.
// Every failure wraps models.ErrNotAuthenticated.
func (v *Verifier) Verify(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, fmt.Errorf("token is empty: %w", models.ErrNotAuthenticated)
	}

	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse token: %w: %w", models.ErrNotAuthenticated, err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("invalid token: %w", models.ErrNotAuthenticated)
	}

	if v.audience != "" && !slices.Contains(claims.Audience, v.audience) {
		return uuid.Nil, fmt.Errorf("token audience %v: %w", claims.Audience, models.ErrNotAuthenticated)
	}

	owner, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid subject: %w", errors.Join(models.ErrNotAuthenticated, err))
	}
	return owner, nil
}
