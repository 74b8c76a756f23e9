// Package identity authenticates the storefront administrator.
package identity

import (
	"context"
	"strings"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/auth"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Login errors
var (
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrLocalLoginDisabled = shared.NewDomainError("LOCAL_LOGIN_DISABLED", "Sign in through the identity provider")
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	Provider string // local or firebase
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{Provider: config.AuthProviderLocal}
}

// AuthService handles admin authentication
type AuthService struct {
	admin      *auth.AdminCredentials
	jwtService *auth.JWTService
	revoked    auth.RevocationList
	config     AuthServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service. admin and
// jwtService may be nil when tokens come from an external provider.
func NewAuthService(
	admin *auth.AdminCredentials,
	jwtService *auth.JWTService,
	revoked auth.RevocationList,
	cfg AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if cfg.Provider == "" {
		cfg.Provider = DefaultAuthServiceConfig().Provider
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		admin:      admin,
		jwtService: jwtService,
		revoked:    revoked,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
}

// Login checks the admin credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	s.logger.Info("Login attempt", zap.String("email", email), zap.String("ip", input.IP))

	if s.admin == nil || s.jwtService == nil {
		return nil, ErrLocalLoginDisabled
	}
	if !s.admin.Check(email, input.Password) {
		s.logger.Warn("Invalid credentials", zap.String("email", email))
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.Issue(s.admin.Email())
	if err != nil {
		s.logger.Error("Failed to issue access token", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication token")
	}

	s.logger.Info("Admin logged in", zap.String("email", s.admin.Email()))
	return &LoginResult{
		AccessToken: token.Token,
		ExpiresAt:   token.ExpiresAt,
		TokenType:   token.TokenType,
		User: AdminInfo{
			Email:    s.admin.Email(),
			Provider: config.AuthProviderLocal,
		},
	}, nil
}

// Logout revokes a locally issued token until it would have expired.
// Tokens without an id are left alone.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" || s.revoked == nil {
		return nil
	}
	ttl := input.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revoked.Revoke(ctx, input.TokenJTI, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", input.TokenJTI), zap.Error(err))
		return err
	}
	s.logger.Info("Admin logged out", zap.String("jti", input.TokenJTI))
	return nil
}

// Provider returns the configured auth provider
func (s *AuthService) Provider() string {
	return s.config.Provider
}
