package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"commerce-platform/internal/auth"
	"commerce-platform/internal/models"
	"commerce-platform/internal/store"
	"commerce-platform/internal/util"
)

// ErrUserNotFound is returned when a user id does not exist.
var ErrUserNotFound = errors.New("user not found")

// UserService is the admin-facing user management surface.
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st, logger: util.GetLogger()}
}

// Create inserts an account from the admin console. Unlike self-service
// registration the roles are taken from the request.
func (us *UserService) Create(ctx context.Context, user *models.User, password string) error {
	if err := auth.ValidatePasswordStrength(password); err != nil {
		return err
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash
	if len(user.Roles) == 0 {
		user.Roles = pq.StringArray{models.RoleUser}
	}
	if err := us.store.CreateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	us.logger.Info("User created", zap.Int64("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

func (us *UserService) GetAll(ctx context.Context) ([]models.User, error) {
	return us.store.GetAllUsers(ctx)
}

func (us *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	user, err := us.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Update applies admin edits to a user record. Passwords are not editable
// through this path.
func (us *UserService) Update(ctx context.Context, user *models.User) error {
	if err := us.store.UpdateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	us.logger.Info("User updated", zap.Int64("user_id", user.ID))
	return nil
}

func (us *UserService) Delete(ctx context.Context, id int64) error {
	if err := us.store.DeleteUser(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	us.logger.Info("User deleted", zap.Int64("user_id", id))
	return nil
}

func (us *UserService) Count(ctx context.Context) (int64, error) {
	return us.store.CountUsers(ctx)
}
