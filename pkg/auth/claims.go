// Package auth provides JWT-based authentication for nexus-be.
// Tokens are issued locally with an HMAC secret; federated logins
// from configured identity providers are verified via their JWKS
// endpoints.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// ClaimsKey is the context key for storing JWT claims.
	ClaimsKey contextKey = "claims"
)

// Claims represents the JWT claims carried by nexus tokens.
// It embeds RegisteredClaims for standard JWT fields (sub, exp, iat)
// and adds the account's username and type.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	UserType string `json:"utype,omitempty"` // "student" or "client"
}

// GetClaims retrieves JWT claims from the request context.
// Returns nil and false if claims are not present.
func GetClaims(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(ClaimsKey).(*Claims)
	return claims, ok
}
