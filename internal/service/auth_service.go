package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"commerce-platform/internal/auth"
	"commerce-platform/internal/mailer"
	"commerce-platform/internal/models"
	"commerce-platform/internal/redisclient"
	"commerce-platform/internal/store"
	"commerce-platform/internal/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// AuthResponse is the login payload returned to clients.
type AuthResponse struct {
	Token     string   `json:"token"`
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

// RegisterRequest carries the registration form.
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthService owns accounts, credentials, and password recovery.
type AuthService struct {
	store         *store.Store
	redis         *redisclient.Client
	tokens        *auth.TokenIssuer
	mail          mailer.Mailer
	logger        *zap.Logger
	resetTokenTTL time.Duration
}

// NewAuthService creates a new auth service
func NewAuthService(st *store.Store, redis *redisclient.Client, tokens *auth.TokenIssuer, mail mailer.Mailer, resetTTL time.Duration) *AuthService {
	return &AuthService{
		store:         st,
		redis:         redis,
		tokens:        tokens,
		mail:          mail,
		logger:        util.GetLogger(),
		resetTokenTTL: resetTTL,
	}
}

// Register creates an account with ROLE_USER after uniqueness and password
// strength checks.
func (as *AuthService) Register(ctx context.Context, req RegisterRequest) error {
	ctx, span := util.StartSpan(ctx, "AuthService.Register")
	defer span.End()

	usernameTaken, emailTaken, err := as.store.UserExists(ctx, req.Username, req.Email)
	if err != nil {
		return fmt.Errorf("failed to check account uniqueness: %w", err)
	}
	if emailTaken {
		return ErrEmailTaken
	}
	if usernameTaken {
		return ErrUsernameTaken
	}
	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:  req.Username,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Roles:     pq.StringArray{models.RoleUser},
	}
	if err := as.store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	as.logger.Info("User registered", zap.String("username", user.Username))
	return nil
}

// Login authenticates by username or email and returns a signed token with
// the account's roles.
func (as *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*AuthResponse, error) {
	ctx, span := util.StartSpan(ctx, "AuthService.Login")
	defer span.End()

	user, err := as.store.GetUserByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.CheckPassword(password, user.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := as.tokens.Generate(user.ID, user.Username, user.Roles)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	as.logger.Info("Login successful", zap.String("username", user.Username))
	return &AuthResponse{
		Token:     token,
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Roles:     user.Roles,
	}, nil
}

// GetProfile returns a user's profile by username.
func (as *AuthService) GetProfile(ctx context.Context, username string) (*models.User, error) {
	return as.store.GetUserByUsername(ctx, username)
}

// UpdateProfile updates the mutable profile fields and returns the result.
func (as *AuthService) UpdateProfile(ctx context.Context, username, email, firstName, lastName string) (*models.User, error) {
	user, err := as.store.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if err := as.store.UpdateUserProfile(ctx, user.ID, email, firstName, lastName); err != nil {
		return nil, err
	}
	return as.store.GetUserByUsername(ctx, username)
}

// RequestPasswordReset issues a reset token with TTL and mails it. Unknown
// addresses succeed silently so the endpoint cannot be used to probe for
// registered accounts.
func (as *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := as.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	token := uuid.New().String()
	if err := as.redis.SetResetToken(ctx, token, user.ID, as.resetTokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nUse this token to reset your password: %s\n\nThe token expires in %s.",
		user.Username, token, as.resetTokenTTL)
	if err := as.mail.Send(user.Email, "Password reset", body); err != nil {
		as.logger.Error("Failed to send reset email", zap.Error(err))
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	util.EmailsSentTotal.WithLabelValues("password_reset").Inc()
	return nil
}

// ResetPassword consumes a reset token and replaces the account password.
func (as *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	userID, err := as.redis.GetResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, redisclient.ErrCacheMiss) {
			return ErrInvalidResetToken
		}
		return err
	}
	if err := auth.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := as.store.UpdateUserPassword(ctx, userID, hash); err != nil {
		return err
	}
	if err := as.redis.DeleteResetToken(ctx, token); err != nil {
		as.logger.Warn("Failed to delete consumed reset token", zap.Error(err))
	}

	as.logger.Info("Password reset", zap.Int64("user_id", userID))
	return nil
}

// ChangePassword verifies the current password before replacing it.
func (as *AuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	user, err := as.store.GetUserByUsername(ctx, username)
	if err != nil {
		return err
	}
	if err := auth.CheckPassword(currentPassword, user.Password); err != nil {
		return ErrInvalidCredentials
	}
	if err := auth.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hash, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return as.store.UpdateUserPassword(ctx, user.ID, hash)
}
