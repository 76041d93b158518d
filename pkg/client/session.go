package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// RoleAdmin is the role string the backend grants administrator accounts.
const RoleAdmin = "ROLE_ADMIN"

// ErrAccessDenied is returned by AdminLogin when the credentials are valid
// but the account lacks the admin role.
var ErrAccessDenied = errors.New("access denied")

// Notification is a transient user-facing message emitted by session
// operations.
type Notification struct {
	Success bool
	Message string
}

// Notifier receives session notifications. A nil notifier drops them.
type Notifier func(Notification)

// Credentials is the durable session state persisted between runs.
type Credentials struct {
	Token    string   `json:"token"`
	Username string   `json:"username"`
	Roles    []string `json:"userRoles"`
}

// CredentialStore persists session credentials.
type CredentialStore interface {
	Load() (*Credentials, error)
	Save(*Credentials) error
	Clear() error
}

// FileCredentialStore keeps credentials in a JSON file.
type FileCredentialStore struct {
	Path string
}

func (f *FileCredentialStore) Load() (*Credentials, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		return nil, err
	}
	return &creds, nil
}

func (f *FileCredentialStore) Save(creds *Credentials) error {
	raw, err := json.MarshalIndent(creds, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, raw, 0o600)
}

func (f *FileCredentialStore) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// AuthSession owns the authenticated state: current user, token, persisted
// credentials. It is not safe for concurrent use.
type AuthSession struct {
	client *Client
	creds  CredentialStore
	notify Notifier

	user         *User
	token        string
	onSessionEnd []func()
}

// NewAuthSession creates a session backed by the given credential store.
func NewAuthSession(c *Client, creds CredentialStore, notify Notifier) *AuthSession {
	return &AuthSession{client: c, creds: creds, notify: notify}
}

func (s *AuthSession) emit(success bool, format string, args ...interface{}) {
	if s.notify != nil {
		s.notify(Notification{Success: success, Message: fmt.Sprintf(format, args...)})
	}
}

// OnSessionEnd registers a callback invoked whenever the session becomes
// unauthenticated, through Logout or a failed Resume. The cart session
// registers its Reset here so stale items never outlive the login.
func (s *AuthSession) OnSessionEnd(fn func()) {
	s.onSessionEnd = append(s.onSessionEnd, fn)
}

func (s *AuthSession) sessionEnded() {
	for _, fn := range s.onSessionEnd {
		fn()
	}
}

// IsAuthenticated reports whether a token and resolved user are present.
func (s *AuthSession) IsAuthenticated() bool {
	return s.token != "" && s.user != nil
}

// IsAdmin reports whether the current user carries the admin role.
func (s *AuthSession) IsAdmin() bool {
	return s.user != nil && s.user.HasRole(RoleAdmin)
}

// User returns the resolved account, or nil when unauthenticated.
func (s *AuthSession) User() *User {
	return s.user
}

type loginResponse struct {
	Token     string   `json:"token"`
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
}

func (r *loginResponse) user() *User {
	return &User{
		ID:        r.ID,
		Username:  r.Username,
		Email:     r.Email,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Roles:     r.Roles,
	}
}

// Login authenticates and persists the session. The returned bool mirrors
// success; failures are reported through the notifier.
func (s *AuthSession) Login(ctx context.Context, usernameOrEmail, password string) bool {
	resp, err := s.authenticate(ctx, usernameOrEmail, password)
	if err != nil {
		s.emit(false, "Login failed: %s", errMessage(err))
		return false
	}

	s.install(resp)
	s.emit(true, "Welcome back, %s!", resp.Username)
	return true
}

// AdminLogin authenticates like Login but refuses to persist a session for
// accounts without the admin role.
func (s *AuthSession) AdminLogin(ctx context.Context, usernameOrEmail, password string) bool {
	resp, err := s.authenticate(ctx, usernameOrEmail, password)
	if err != nil {
		s.emit(false, "Login failed: %s", errMessage(err))
		return false
	}

	if !resp.user().HasRole(RoleAdmin) {
		s.emit(false, "Access denied: administrator privileges required")
		return false
	}

	s.install(resp)
	s.emit(true, "Welcome back, %s!", resp.Username)
	return true
}

func (s *AuthSession) authenticate(ctx context.Context, usernameOrEmail, password string) (*loginResponse, error) {
	var resp loginResponse
	err := s.client.post(ctx, "/auth/login", map[string]string{
		"usernameOrEmail": usernameOrEmail,
		"password":        password,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *AuthSession) install(resp *loginResponse) {
	s.token = resp.Token
	s.user = resp.user()
	s.client.SetToken(resp.Token)

	if err := s.creds.Save(&Credentials{
		Token:    resp.Token,
		Username: resp.Username,
		Roles:    resp.Roles,
	}); err != nil {
		s.emit(false, "Could not save session: %s", err)
	}
}

// RegisterFields is the registration form payload.
type RegisterFields struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Register creates an account. It does not log in.
func (s *AuthSession) Register(ctx context.Context, fields RegisterFields) bool {
	if err := s.client.post(ctx, "/auth/register", fields, nil); err != nil {
		s.emit(false, "Registration failed: %s", errMessage(err))
		return false
	}
	s.emit(true, "Registration successful! Please log in.")
	return true
}

// Logout clears the persisted credentials and in-memory state.
func (s *AuthSession) Logout() {
	s.token = ""
	s.user = nil
	s.client.ClearToken()
	s.sessionEnded()
	if err := s.creds.Clear(); err != nil {
		s.emit(false, "Could not clear saved session: %s", err)
		return
	}
	s.emit(true, "You have been logged out.")
}

// Resume restores a persisted session by resolving the stored token's user
// profile. On any failure the stored credentials are cleared silently.
func (s *AuthSession) Resume(ctx context.Context) bool {
	creds, err := s.creds.Load()
	if err != nil || creds.Token == "" {
		return false
	}

	s.client.SetToken(creds.Token)
	var user User
	if err := s.client.get(ctx, "/auth/profile/"+creds.Username, nil, &user); err != nil {
		s.client.ClearToken()
		_ = s.creds.Clear()
		s.sessionEnded()
		return false
	}

	s.token = creds.Token
	s.user = &user
	return true
}

func errMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "something went wrong, please try again"
}
