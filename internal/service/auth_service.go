package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/ceylontrails/ceylontrails-api/internal/apperr"
	"github.com/ceylontrails/ceylontrails-api/internal/domain"
	"github.com/ceylontrails/ceylontrails-api/internal/platform/mailer"
	"github.com/ceylontrails/ceylontrails-api/internal/repo/postgres"
	"github.com/ceylontrails/ceylontrails-api/internal/validation"
	"github.com/ceylontrails/ceylontrails-api/pkg/auth"
	"github.com/ceylontrails/ceylontrails-api/pkg/config"
	"github.com/ceylontrails/ceylontrails-api/pkg/logger"
)

// resetTokenMessage is the single answer for every reset-token failure;
// wrong, spent and expired tokens are indistinguishable to the caller.
const resetTokenMessage = "Invalid or expired reset token"

type LoginResult struct {
	Token string
	User  *domain.UserInfo
}

type AuthService interface {
	Register(ctx context.Context, in *domain.RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in *domain.LoginInput) (*LoginResult, error)
	GetUser(ctx context.Context, id string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	ChangePassword(ctx context.Context, callerID, targetID string, in *domain.ChangePasswordInput) error
	DeleteUser(ctx context.Context, callerID, targetID string) error
	ForgotPassword(ctx context.Context, in *domain.ForgotPasswordInput) error
	VerifyResetToken(ctx context.Context, in *domain.VerifyResetTokenInput) error
	ResetPassword(ctx context.Context, in *domain.ResetPasswordInput) error
}

type authService struct {
	userRepo  postgres.UserRepository
	tokenRepo postgres.ResetTokenRepository
	mailer    mailer.Service
	config    *config.Config
}

func NewAuthService(
	userRepo postgres.UserRepository,
	tokenRepo postgres.ResetTokenRepository,
	mail mailer.Service,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		mailer:    mail,
		config:    cfg,
	}
}

func (s *authService) Register(ctx context.Context, in *domain.RegisterInput) (*domain.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("User with this email already exists")
	}

	passwordHash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.userRepo.Create(ctx, in.Email, passwordHash, domain.RoleAdmin)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, in *domain.LoginInput) (*LoginResult, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	valid, err := argon2id.ComparePasswordAndHash(in.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return nil, apperr.Unauthorized("Invalid email or password")
	}

	token, err := auth.NewSessionToken(user.ID, user.Email, string(user.Role), s.config.Auth.JWTSecret, s.config.Auth.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create session token: %w", err)
	}

	return &LoginResult{Token: token, User: user.ToUserInfo()}, nil
}

func (s *authService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

func (s *authService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// ChangePassword only ever applies to the caller's own account.
func (s *authService) ChangePassword(ctx context.Context, callerID, targetID string, in *domain.ChangePasswordInput) error {
	if callerID != targetID {
		return apperr.Forbidden("You can only change your own password")
	}

	if err := validation.Struct(in); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, callerID)
	if err != nil {
		return fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return apperr.NotFound("User not found")
	}

	valid, err := argon2id.ComparePasswordAndHash(in.CurrentPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		return apperr.Validation("Validation failed",
			apperr.FieldError{Field: "current_password", Message: "is incorrect"})
	}

	passwordHash, err := argon2id.CreateHash(in.NewPassword, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, user.ID, passwordHash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (s *authService) DeleteUser(ctx context.Context, callerID, targetID string) error {
	if callerID == targetID {
		return apperr.Forbidden("You cannot delete your own account")
	}

	deleted, err := s.userRepo.Delete(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if !deleted {
		return apperr.NotFound("User not found")
	}
	return nil
}

// ForgotPassword never reveals whether the email is registered; the
// handler answers with the same generic message either way.
func (s *authService) ForgotPassword(ctx context.Context, in *domain.ForgotPasswordInput) error {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil
	}

	secret, err := newResetSecret()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.config.Auth.ResetTokenTTL)
	if err := s.tokenRepo.Issue(ctx, user.ID, hashResetSecret(secret), expiresAt); err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	resetURL := fmt.Sprintf("%s/admin/reset-password?token=%s", s.config.Site.BaseURL, secret)
	if err := s.mailer.SendPasswordResetEmail(user.Email, resetURL); err != nil {
		logger.ErrorContext(ctx, "Failed to send password reset email", "error", err, "user_id", user.ID)
	}

	return nil
}

func (s *authService) VerifyResetToken(ctx context.Context, in *domain.VerifyResetTokenInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	userID, err := s.tokenRepo.FindActive(ctx, hashResetSecret(in.Token))
	if err != nil {
		return fmt.Errorf("failed to check reset token: %w", err)
	}
	if userID == "" {
		return apperr.Validation(resetTokenMessage)
	}
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, in *domain.ResetPasswordInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}

	passwordHash, err := argon2id.CreateHash(in.Password, argon2id.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.tokenRepo.Consume(ctx, hashResetSecret(in.Token), passwordHash)
	if err != nil {
		return fmt.Errorf("failed to consume reset token: %w", err)
	}
	if userID == "" {
		return apperr.Validation(resetTokenMessage)
	}
	return nil
}

// newResetSecret returns a cryptographically random secret. Only its
// hash is stored; the plaintext exists in the reset email alone.
func newResetSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func hashResetSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
