package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusPollerReportsFlips(t *testing.T) {
	var mu sync.Mutex
	healthy := true
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		ok := healthy
		mu.Unlock()
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	changes := make(chan bool, 8)
	poller := NewStatusPoller(New(srv.URL), 10*time.Millisecond, func(online bool) {
		changes <- online
	})

	poller.Start(context.Background())
	defer poller.Stop()

	select {
	case online := <-changes:
		assert.True(t, online)
	case <-time.After(2 * time.Second):
		t.Fatal("no up transition reported")
	}
	require.True(t, poller.Online())

	mu.Lock()
	healthy = false
	mu.Unlock()

	select {
	case online := <-changes:
		assert.False(t, online)
	case <-time.After(2 * time.Second):
		t.Fatal("no down transition reported")
	}
	assert.False(t, poller.Online())
}

func TestStatusPollerStopIsIdempotent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	poller := NewStatusPoller(New(srv.URL), 10*time.Millisecond, nil)
	poller.Start(context.Background())
	poller.Stop()
	poller.Stop()

	// Stopped pollers can be restarted.
	poller.Start(context.Background())
	poller.Stop()
}
