// Package services implements the business logic layer between HTTP
// handlers and repositories.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/uw-nexus/nexus-be/pkg/apperrors"
	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/models"
	"github.com/uw-nexus/nexus-be/pkg/repositories"
)

// Registration carries a new-account request.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	UserType string `json:"userType"`
}

// Session is an issued login token.
type Session struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	UserType  string    `json:"userType"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AccountService provides registration and login.
type AccountService interface {
	Register(ctx context.Context, reg *Registration) (*Session, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
}

type accountService struct {
	users       repositories.UserRepository
	authService auth.AuthService
	logger      *zap.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(users repositories.UserRepository, authService auth.AuthService, logger *zap.Logger) AccountService {
	return &accountService{
		users:       users,
		authService: authService,
		logger:      logger.Named("account-service"),
	}
}

var _ AccountService = (*accountService)(nil)

const minPasswordLength = 8

func (s *accountService) Register(ctx context.Context, reg *Registration) (*Session, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if reg.Email == "" {
		return nil, fmt.Errorf("%w: email is required", apperrors.ErrValidation)
	}
	if len(reg.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}
	if reg.UserType != models.UserTypeStudent && reg.UserType != models.UserTypeClient {
		return nil, fmt.Errorf("%w: unknown user type %q", apperrors.ErrValidation, reg.UserType)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     reg.Username,
		Email:        reg.Email,
		UserType:     reg.UserType,
		PasswordHash: string(hash),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: username or email already taken", apperrors.ErrConflict)
		}
		s.logger.Error("Failed to create account",
			zap.String("username", reg.Username),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Account registered",
		zap.String("username", reg.Username),
		zap.String("user_type", reg.UserType))
	return s.issueSession(reg.Username, reg.UserType)
}

func (s *accountService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.logger.Error("Failed to look up account",
			zap.String("username", username),
			zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Debug("Password mismatch", zap.String("username", username))
		return nil, apperrors.ErrUnauthorized
	}

	return s.issueSession(user.Username, user.UserType)
}

func (s *accountService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return apperrors.ErrUnauthorized
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, username, string(hash)); err != nil {
		s.logger.Error("Failed to update password",
			zap.String("username", username),
			zap.Error(err))
		return err
	}

	s.logger.Info("Password changed", zap.String("username", username))
	return nil
}

func (s *accountService) issueSession(username, userType string) (*Session, error) {
	token, expiry, err := s.authService.IssueToken(username, userType)
	if err != nil {
		s.logger.Error("Failed to issue token",
			zap.String("username", username),
			zap.Error(err))
		return nil, err
	}
	return &Session{
		Token:     token,
		Username:  username,
		UserType:  userType,
		ExpiresAt: expiry,
	}, nil
}
