package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"commerce-platform/internal/models"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// CreateUser inserts a new user and fills in the generated ID.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password, first_name, last_name, roles)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	return s.db.GetContext(ctx, user, query,
		user.Username, user.Email, user.Password, user.FirstName, user.LastName, pq.Array(user.Roles))
}

// GetUserByID retrieves a user by ID
func (s *Store) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by username
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE username = $1", username)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", username, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByUsernameOrEmail resolves the login identifier against either column.
func (s *Store) GetUserByUsernameOrEmail(ctx context.Context, usernameOrEmail string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user,
		"SELECT * FROM users WHERE username = $1 OR email = TRIM(LOWER($1))", usernameOrEmail)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", usernameOrEmail, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.GetContext(ctx, &user, "SELECT * FROM users WHERE email = TRIM(LOWER($1))", email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user %q: %w", email, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserExists reports whether the username or email is already taken.
func (s *Store) UserExists(ctx context.Context, username, email string) (usernameTaken, emailTaken bool, err error) {
	err = s.db.GetContext(ctx, &usernameTaken,
		"SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)", username)
	if err != nil {
		return false, false, err
	}
	err = s.db.GetContext(ctx, &emailTaken,
		"SELECT EXISTS(SELECT 1 FROM users WHERE email = TRIM(LOWER($1)))", email)
	return usernameTaken, emailTaken, err
}

// GetAllUsers retrieves every account, newest first.
func (s *Store) GetAllUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.SelectContext(ctx, &users, "SELECT * FROM users ORDER BY created_at DESC")
	return users, err
}

// UpdateUserProfile updates the mutable profile fields.
func (s *Store) UpdateUserProfile(ctx context.Context, id int64, email, firstName, lastName string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET email = TRIM(LOWER($1)), first_name = $2, last_name = $3 WHERE id = $4",
		email, firstName, lastName, id)
	return err
}

// UpdateUser updates an account from the admin console.
func (s *Store) UpdateUser(ctx context.Context, user *models.User) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = $1, email = TRIM(LOWER($2)), first_name = $3, last_name = $4, roles = $5
		 WHERE id = $6`,
		user.Username, user.Email, user.FirstName, user.LastName, pq.Array(user.Roles), user.ID)
	return err
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE users SET password = $1 WHERE id = $2", passwordHash, id)
	return err
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = $1", id)
	return err
}

// CountUsers returns the total number of accounts.
func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM users")
	return count, err
}
