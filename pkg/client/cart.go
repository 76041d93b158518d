package client

import (
	"context"
	"net/url"
	"strconv"
)

// CartSession mirrors the server-side cart. Every mutation is followed by a
// full re-fetch so the local snapshot always reflects backend-confirmed
// state. Not safe for concurrent use.
type CartSession struct {
	client *Client
	items  []CartItem
}

// NewCartSession creates an empty cart session.
func NewCartSession(c *Client) *CartSession {
	return &CartSession{client: c}
}

// Items returns the current snapshot.
func (cs *CartSession) Items() []CartItem {
	return cs.items
}

type cartResponse struct {
	Items []CartItem `json:"items"`
}

// Refresh re-fetches the server-side cart.
func (cs *CartSession) Refresh(ctx context.Context) error {
	var resp cartResponse
	if err := cs.client.get(ctx, "/cart/user", nil, &resp); err != nil {
		return err
	}
	cs.items = resp.Items
	return nil
}

// AddToCart adds quantity units of a product, then resynchronizes.
func (cs *CartSession) AddToCart(ctx context.Context, productID int64, quantity int) error {
	err := cs.client.post(ctx, "/cart/add", map[string]interface{}{
		"productId": productID,
		"quantity":  quantity,
	}, nil)
	if err != nil {
		return err
	}
	return cs.Refresh(ctx)
}

// RemoveFromCart deletes a cart line, then resynchronizes.
func (cs *CartSession) RemoveFromCart(ctx context.Context, cartItemID int64) error {
	if err := cs.client.delete(ctx, "/cart/remove/"+strconv.FormatInt(cartItemID, 10)); err != nil {
		return err
	}
	return cs.Refresh(ctx)
}

// UpdateQuantity sets a cart line's quantity. A quantity of zero or less
// removes the line.
func (cs *CartSession) UpdateQuantity(ctx context.Context, cartItemID int64, quantity int) error {
	if quantity <= 0 {
		return cs.RemoveFromCart(ctx, cartItemID)
	}

	query := url.Values{"quantity": {strconv.Itoa(quantity)}}
	if err := cs.client.put(ctx, "/cart/update/"+strconv.FormatInt(cartItemID, 10), query, nil, nil); err != nil {
		return err
	}
	return cs.Refresh(ctx)
}

// ClearCart empties the server-side cart, then resynchronizes.
func (cs *CartSession) ClearCart(ctx context.Context) error {
	if err := cs.client.delete(ctx, "/cart/clear"); err != nil {
		return err
	}
	return cs.Refresh(ctx)
}

// Reset drops the local snapshot without contacting the backend. Register
// it with AuthSession.OnSessionEnd so the snapshot is emptied whenever the
// session becomes unauthenticated.
func (cs *CartSession) Reset() {
	cs.items = nil
}

// CartTotal is the sum of price times quantity over the snapshot.
func (cs *CartSession) CartTotal() float64 {
	var total float64
	for _, it := range cs.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

// CartCount is the sum of quantities over the snapshot.
func (cs *CartSession) CartCount() int {
	var count int
	for _, it := range cs.items {
		count += it.Quantity
	}
	return count
}
