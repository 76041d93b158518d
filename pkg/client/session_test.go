package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCredStore(t *testing.T) *FileCredentialStore {
	t.Helper()
	return &FileCredentialStore{Path: filepath.Join(t.TempDir(), "session.json")}
}

func loginBackend(t *testing.T, roles []string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req["password"] != "s3cret!Pass" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid username or password"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"token":    "test-token",
			"id":       7,
			"username": "alice",
			"email":    "alice@example.com",
			"roles":    roles,
		})
	})
	mux.HandleFunc("/cart/user", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{"id": 1, "productId": 1, "productName": "x", "price": 100.0, "quantity": 2},
			},
		})
	})
	mux.HandleFunc("/auth/profile/alice", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"message": "Invalid or expired token"})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       7,
			"username": "alice",
			"roles":    roles,
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestLoginPersistsSession(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER"})
	creds := testCredStore(t)
	var notes []Notification
	session := NewAuthSession(New(server.URL), creds, func(n Notification) { notes = append(notes, n) })

	ok := session.Login(context.Background(), "alice", "s3cret!Pass")

	require.True(t, ok)
	assert.True(t, session.IsAuthenticated())
	assert.False(t, session.IsAdmin())

	saved, err := creds.Load()
	require.NoError(t, err)
	assert.Equal(t, "test-token", saved.Token)
	assert.Equal(t, "alice", saved.Username)
	assert.Equal(t, []string{"ROLE_USER"}, saved.Roles)

	require.NotEmpty(t, notes)
	assert.True(t, notes[len(notes)-1].Success)
}

func TestLoginBadCredentials(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER"})
	creds := testCredStore(t)
	var notes []Notification
	session := NewAuthSession(New(server.URL), creds, func(n Notification) { notes = append(notes, n) })

	ok := session.Login(context.Background(), "alice", "wrong")

	assert.False(t, ok)
	assert.False(t, session.IsAuthenticated())
	_, err := creds.Load()
	assert.True(t, os.IsNotExist(err))

	require.NotEmpty(t, notes)
	assert.False(t, notes[len(notes)-1].Success)
	assert.Contains(t, notes[len(notes)-1].Message, "Invalid username or password")
}

func TestAdminLoginWithoutAdminRole(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER"})
	creds := testCredStore(t)
	var notes []Notification
	session := NewAuthSession(New(server.URL), creds, func(n Notification) { notes = append(notes, n) })

	ok := session.AdminLogin(context.Background(), "alice", "s3cret!Pass")

	assert.False(t, ok)
	assert.False(t, session.IsAuthenticated())

	// No session may be persisted for a non-admin account.
	_, err := creds.Load()
	assert.True(t, os.IsNotExist(err))

	require.NotEmpty(t, notes)
	assert.Contains(t, notes[len(notes)-1].Message, "Access denied")
}

func TestAdminLoginWithAdminRole(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER", "ROLE_ADMIN"})
	session := NewAuthSession(New(server.URL), testCredStore(t), nil)

	ok := session.AdminLogin(context.Background(), "alice", "s3cret!Pass")

	require.True(t, ok)
	assert.True(t, session.IsAdmin())
}

func TestLogoutClearsEverything(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER"})
	creds := testCredStore(t)
	session := NewAuthSession(New(server.URL), creds, nil)
	require.True(t, session.Login(context.Background(), "alice", "s3cret!Pass"))

	session.Logout()

	assert.False(t, session.IsAuthenticated())
	assert.Nil(t, session.User())
	_, err := creds.Load()
	assert.True(t, os.IsNotExist(err))
}

func TestLogoutResetsCart(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER"})
	c := New(server.URL)
	session := NewAuthSession(c, testCredStore(t), nil)
	cart := NewCartSession(c)
	session.OnSessionEnd(cart.Reset)

	require.True(t, session.Login(context.Background(), "alice", "s3cret!Pass"))
	require.NoError(t, cart.Refresh(context.Background()))
	require.Len(t, cart.Items(), 1)

	session.Logout()

	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.CartCount())
}

func TestResumeRestoresSession(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER"})
	creds := testCredStore(t)
	require.NoError(t, creds.Save(&Credentials{
		Token:    "test-token",
		Username: "alice",
		Roles:    []string{"ROLE_USER"},
	}))

	session := NewAuthSession(New(server.URL), creds, nil)

	assert.True(t, session.Resume(context.Background()))
	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, "alice", session.User().Username)
}

func TestResumeWithStaleTokenClearsSilently(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER"})
	creds := testCredStore(t)
	require.NoError(t, creds.Save(&Credentials{
		Token:    "stale-token",
		Username: "alice",
	}))

	var notes []Notification
	session := NewAuthSession(New(server.URL), creds, func(n Notification) { notes = append(notes, n) })

	assert.False(t, session.Resume(context.Background()))
	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, notes)

	_, err := creds.Load()
	assert.True(t, os.IsNotExist(err))
}

func TestResumeFailureResetsCart(t *testing.T) {
	server := loginBackend(t, []string{"ROLE_USER"})
	creds := testCredStore(t)
	require.NoError(t, creds.Save(&Credentials{
		Token:    "stale-token",
		Username: "alice",
	}))

	c := New(server.URL)
	session := NewAuthSession(c, creds, nil)
	cart := NewCartSession(c)
	session.OnSessionEnd(cart.Reset)
	require.NoError(t, cart.Refresh(context.Background()))
	require.Len(t, cart.Items(), 1)

	assert.False(t, session.Resume(context.Background()))
	assert.Empty(t, cart.Items())
}
