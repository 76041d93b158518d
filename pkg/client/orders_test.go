package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commerce-platform/internal/orderflow"
)

// recordingBackend accepts every order update and records the sequence.
type recordingBackend struct {
	requests []string
}

func (b *recordingBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.requests = append(b.requests, r.Method+" "+r.URL.Path+"?"+r.URL.RawQuery)
		json.NewEncoder(w).Encode(map[string]string{"message": "ok"})
	})
}

func newOrderTest(t *testing.T) (*recordingBackend, *Client) {
	t.Helper()
	backend := &recordingBackend{}
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)
	return backend, New(server.URL)
}

func TestSaveOrderEditBlockedDeliveredMakesNoRequests(t *testing.T) {
	backend, c := newOrderTest(t)

	original := OrderEdit{
		OrderStatus:    "SHIPPED",
		PaymentStatus:  "PENDING",
		TrackingNumber: "TBD123",
		Carrier:        "TBD",
	}
	edited := original
	edited.OrderStatus = "DELIVERED"

	err := c.SaveOrderEdit(context.Background(), 42, original, edited)

	var fieldErrs orderflow.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "paymentStatus")
	assert.Contains(t, fieldErrs, "trackingNumber")
	assert.Contains(t, fieldErrs, "carrier")

	// A blocked edit must never reach the network.
	assert.Empty(t, backend.requests)
}

func TestSaveOrderEditIssuesChangedCallsInOrder(t *testing.T) {
	backend, c := newOrderTest(t)

	original := OrderEdit{
		OrderStatus:    "CONFIRMED",
		PaymentStatus:  "PENDING",
		TrackingNumber: "TBD",
		Carrier:        "TBD",
	}
	edited := OrderEdit{
		OrderStatus:    "SHIPPED",
		PaymentStatus:  "PAID",
		TrackingNumber: "TRK-991",
		Carrier:        "BlueDart",
	}

	require.NoError(t, c.SaveOrderEdit(context.Background(), 42, original, edited))

	require.Len(t, backend.requests, 3)
	assert.Contains(t, backend.requests[0], "PUT /order/tracking/42")
	assert.Contains(t, backend.requests[1], "PUT /order/payment/42")
	assert.Contains(t, backend.requests[2], "PUT /order/status/42")
}

func TestSaveOrderEditSkipsUnchangedFields(t *testing.T) {
	backend, c := newOrderTest(t)

	original := OrderEdit{
		OrderStatus:    "CONFIRMED",
		PaymentStatus:  "PAID",
		TrackingNumber: "TRK-991",
		Carrier:        "BlueDart",
	}
	edited := original
	edited.OrderStatus = "SHIPPED"

	require.NoError(t, c.SaveOrderEdit(context.Background(), 42, original, edited))

	require.Len(t, backend.requests, 1)
	assert.Contains(t, backend.requests[0], "PUT /order/status/42")
}

func TestSaveOrderEditNoChanges(t *testing.T) {
	backend, c := newOrderTest(t)

	edit := OrderEdit{
		OrderStatus:    "SHIPPED",
		PaymentStatus:  "PAID",
		TrackingNumber: "TRK-991",
		Carrier:        "BlueDart",
	}

	require.NoError(t, c.SaveOrderEdit(context.Background(), 42, edit, edit))
	assert.Empty(t, backend.requests)
}

func TestSaveOrderEditDeliveredWithRealDetails(t *testing.T) {
	backend, c := newOrderTest(t)

	original := OrderEdit{
		OrderStatus:    "SHIPPED",
		PaymentStatus:  "PAID",
		TrackingNumber: "TRK-991",
		Carrier:        "BlueDart",
	}
	edited := original
	edited.OrderStatus = "DELIVERED"

	require.NoError(t, c.SaveOrderEdit(context.Background(), 42, original, edited))
	require.Len(t, backend.requests, 1)
	assert.Contains(t, backend.requests[0], "status=DELIVERED")
}

func TestCheckoutClearsCartSnapshot(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/order/create", func(w http.ResponseWriter, r *http.Request) {
		var req checkoutRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "12 Main St", req.ShippingAddress)
		assert.Equal(t, "COD", req.Payment.PaymentMethod)
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(Order{OrderID: 9, OrderStatus: "PENDING", TrackingNumber: "TBD"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cart := NewCartSession(New(server.URL))
	cart.items = []CartItem{{ID: 1, ProductID: 1, Price: 100, Quantity: 2}}

	order, err := cart.Checkout(context.Background(), "12 Main St", PaymentDetails{PaymentMethod: "COD"})

	require.NoError(t, err)
	assert.Equal(t, int64(9), order.OrderID)
	assert.Empty(t, cart.Items())
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/order/create", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "payment declined: please try again"})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	cart := NewCartSession(New(server.URL))
	cart.items = []CartItem{{ID: 1, ProductID: 1, Price: 100, Quantity: 2}}

	_, err := cart.Checkout(context.Background(), "12 Main St", PaymentDetails{PaymentMethod: "UPI", UPIID: "a@upi"})

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "payment declined: please try again", apiErr.Message)
	assert.Len(t, cart.Items(), 1)
}
