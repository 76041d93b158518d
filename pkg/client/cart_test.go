package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cartBackend is an in-memory cart that records every request it serves.
type cartBackend struct {
	mu       sync.Mutex
	items    map[int64]*CartItem
	nextID   int64
	requests []string
}

func newCartBackend() *cartBackend {
	return &cartBackend{items: map[int64]*CartItem{}, nextID: 1}
}

func (b *cartBackend) record(r *http.Request) {
	b.requests = append(b.requests, r.Method+" "+r.URL.Path)
}

func (b *cartBackend) snapshot() []CartItem {
	var items []CartItem
	for _, it := range b.items {
		items = append(items, *it)
	}
	return items
}

func (b *cartBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.record(r)

		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/cart/user":
			json.NewEncoder(w).Encode(map[string]interface{}{"items": b.snapshot()})

		case r.Method == http.MethodPost && r.URL.Path == "/cart/add":
			var req struct {
				ProductID int64 `json:"productId"`
				Quantity  int   `json:"quantity"`
			}
			json.NewDecoder(r.Body).Decode(&req)
			id := b.nextID
			b.nextID++
			b.items[id] = &CartItem{ID: id, ProductID: req.ProductID, Price: 100, Quantity: req.Quantity}
			json.NewEncoder(w).Encode(map[string]string{"message": "Item added to cart"})

		case r.Method == http.MethodPut && strings.HasPrefix(r.URL.Path, "/cart/update/"):
			id := pathSuffixID(r.URL.Path)
			q, _ := strconv.Atoi(r.URL.Query().Get("quantity"))
			if it, ok := b.items[id]; ok {
				it.Quantity = q
			}
			json.NewEncoder(w).Encode(map[string]string{"message": "Cart updated"})

		case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/cart/remove/"):
			delete(b.items, pathSuffixID(r.URL.Path))
			json.NewEncoder(w).Encode(map[string]string{"message": "Item removed from cart"})

		case r.Method == http.MethodDelete && r.URL.Path == "/cart/clear":
			b.items = map[int64]*CartItem{}
			json.NewEncoder(w).Encode(map[string]string{"message": "Cart cleared"})

		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"message": "not found"})
		}
	})
}

func pathSuffixID(path string) int64 {
	id, _ := strconv.ParseInt(path[strings.LastIndex(path, "/")+1:], 10, 64)
	return id
}

func newCartTest(t *testing.T) (*cartBackend, *CartSession) {
	t.Helper()
	backend := newCartBackend()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return backend, NewCartSession(New(server.URL))
}

func TestCartMutationsResync(t *testing.T) {
	backend, cart := newCartTest(t)
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, 1, 2))
	require.NoError(t, cart.AddToCart(ctx, 2, 1))

	// Each mutation must be followed by a re-fetch of the cart.
	assert.Equal(t, []string{
		"POST /cart/add", "GET /cart/user",
		"POST /cart/add", "GET /cart/user",
	}, backend.requests)
	assert.Len(t, cart.Items(), 2)
}

func TestCartTotals(t *testing.T) {
	_, cart := newCartTest(t)
	cart.items = []CartItem{
		{ID: 1, ProductID: 1, Price: 100, Quantity: 2},
		{ID: 2, ProductID: 2, Price: 50, Quantity: 1},
	}

	assert.Equal(t, 250.0, cart.CartTotal())
	assert.Equal(t, 3, cart.CartCount())
}

func TestUpdateQuantityZeroRemoves(t *testing.T) {
	backend, cart := newCartTest(t)
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, 1, 2))
	id := cart.Items()[0].ID

	require.NoError(t, cart.UpdateQuantity(ctx, id, 0))

	assert.Empty(t, cart.Items())
	assert.Contains(t, backend.requests, "DELETE /cart/remove/1")
	for _, req := range backend.requests {
		assert.NotContains(t, req, "PUT /cart/update")
	}
}

func TestUpdateQuantityNegativeRemoves(t *testing.T) {
	_, cart := newCartTest(t)
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, 1, 2))
	id := cart.Items()[0].ID

	require.NoError(t, cart.UpdateQuantity(ctx, id, -3))
	assert.Empty(t, cart.Items())
}

func TestUpdateQuantityPositive(t *testing.T) {
	_, cart := newCartTest(t)
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, 1, 2))
	id := cart.Items()[0].ID

	require.NoError(t, cart.UpdateQuantity(ctx, id, 5))

	require.Len(t, cart.Items(), 1)
	assert.Equal(t, 5, cart.Items()[0].Quantity)
}

func TestClearCart(t *testing.T) {
	_, cart := newCartTest(t)
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, 1, 2))
	require.NoError(t, cart.ClearCart(ctx))

	assert.Empty(t, cart.Items())
	assert.Zero(t, cart.CartTotal())
}

func TestResetDropsSnapshotLocally(t *testing.T) {
	backend, cart := newCartTest(t)
	ctx := context.Background()

	require.NoError(t, cart.AddToCart(ctx, 1, 2))
	before := len(backend.requests)

	cart.Reset()

	assert.Empty(t, cart.Items())
	assert.Len(t, backend.requests, before)
}
