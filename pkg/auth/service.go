package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/config"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
	ErrInvalidToken         = errors.New("invalid token")
)

// AuthService defines the interface for authentication operations.
// This abstraction enables clean separation between HTTP handling
// and token logic, making both easier to test.
type AuthService interface {
	// IssueToken signs a new token for the given account.
	// Returns the token string and its expiry time.
	IssueToken(username, userType string) (string, time.Time, error)

	// ValidateRequest extracts and validates a JWT from the
	// Authorization header with "Bearer" scheme.
	ValidateRequest(r *http.Request) (*Claims, error)
}

// authService implements AuthService. Locally issued tokens are
// HS256-signed with the configured secret. If JWKS endpoints are
// configured, RS256 tokens from those issuers are also accepted.
type authService struct {
	secret []byte
	ttl    time.Duration
	jwks   map[string]keyfunc.Keyfunc
	logger *zap.Logger
}

// NewAuthService creates a new AuthService from auth configuration.
// It fetches JWKS from all configured endpoints up front and returns
// an error if any endpoint fails to load.
func NewAuthService(cfg *config.AuthConfig, logger *zap.Logger) (AuthService, error) {
	s := &authService{
		secret: []byte(cfg.TokenSecret),
		ttl:    time.Duration(cfg.TokenTTLMinutes) * time.Minute,
		jwks:   make(map[string]keyfunc.Keyfunc),
		logger: logger,
	}

	for issuer, jwksURL := range cfg.JWKSEndpoints {
		jwks, err := keyfunc.NewDefaultCtx(context.Background(), []string{jwksURL})
		if err != nil {
			return nil, fmt.Errorf("failed to create JWKS client for %s: %w", issuer, err)
		}
		s.jwks[issuer] = jwks
	}

	return s, nil
}

// IssueToken signs a new HS256 token for the given account.
func (s *authService) IssueToken(username, userType string) (string, time.Time, error) {
	if len(s.secret) == 0 {
		return "", time.Time{}, errors.New("token secret not configured")
	}

	now := time.Now()
	expiry := now.Add(s.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiry),
		},
		Username: username,
		UserType: userType,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiry, nil
}

// ValidateRequest extracts and validates a JWT from the request.
func (s *authService) ValidateRequest(r *http.Request) (*Claims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No JWT found in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return nil, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return nil, ErrInvalidAuthFormat
	}

	claims, err := s.validateToken(parts[1])
	if err != nil {
		s.logger.Debug("JWT validation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return nil, err
	}
	return claims, nil
}

// validateToken verifies a token string, trying the local HMAC secret
// first and falling back to configured JWKS issuers.
func (s *authService) validateToken(tokenString string) (*Claims, error) {
	if len(s.secret) > 0 {
		claims, err := s.parseWithKeyfunc(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		})
		if err == nil {
			return claims, nil
		}
		if len(s.jwks) == 0 {
			return nil, err
		}
	}

	for issuer, jwks := range s.jwks {
		claims, err := s.parseWithKeyfunc(tokenString, jwks.Keyfunc)
		if err == nil {
			if iss, _ := claims.GetIssuer(); iss != issuer {
				continue
			}
			return claims, nil
		}
	}
	return nil, ErrInvalidToken
}

func (s *authService) parseWithKeyfunc(tokenString string, kf jwt.Keyfunc) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, kf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Username == "" {
		claims.Username = claims.Subject
	}
	return claims, nil
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
