package client

import (
	"context"
	"net/url"
	"strconv"

	"commerce-platform/internal/orderflow"
)

// PaymentDetails is the method-specific field set collected at checkout.
type PaymentDetails struct {
	PaymentMethod  string `json:"paymentMethod"`
	UPIID          string `json:"upiId,omitempty"`
	CardNumber     string `json:"cardNumber,omitempty"`
	CardHolderName string `json:"cardHolderName,omitempty"`
	ExpiryDate     string `json:"expiryDate,omitempty"`
	CVV            string `json:"cvv,omitempty"`
	BankName       string `json:"bankName,omitempty"`
}

type checkoutRequest struct {
	ShippingAddress string         `json:"shippingAddress"`
	Payment         PaymentDetails `json:"payment"`
}

// Checkout submits the current cart as an order and clears the cart
// snapshot on success.
func (cs *CartSession) Checkout(ctx context.Context, shippingAddress string, payment PaymentDetails) (*Order, error) {
	var order Order
	err := cs.client.post(ctx, "/order/create", checkoutRequest{
		ShippingAddress: shippingAddress,
		Payment:         payment,
	}, &order)
	if err != nil {
		return nil, err
	}

	cs.Reset()
	return &order, nil
}

// OrderHistory fetches the authenticated user's orders, newest first.
func (c *Client) OrderHistory(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/order/user/details", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, id int64) (*Order, error) {
	var order Order
	if err := c.get(ctx, "/order/"+strconv.FormatInt(id, 10), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder cancels one of the user's own orders.
func (c *Client) CancelOrder(ctx context.Context, id int64) (*Order, error) {
	var order Order
	if err := c.put(ctx, "/order/cancel/"+strconv.FormatInt(id, 10), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// AdminOrders fetches every order. Requires an admin session.
func (c *Client) AdminOrders(ctx context.Context) ([]Order, error) {
	var orders []Order
	if err := c.get(ctx, "/order/admin/all", nil, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// OrderEdit is the editable slice of an order in the admin edit form.
type OrderEdit struct {
	OrderStatus    string
	PaymentStatus  string
	TrackingNumber string
	Carrier        string
}

func (e OrderEdit) flow() orderflow.OrderEdit {
	return orderflow.OrderEdit{
		OrderStatus:    orderflow.OrderStatus(e.OrderStatus),
		PaymentStatus:  orderflow.PaymentStatus(e.PaymentStatus),
		TrackingNumber: e.TrackingNumber,
		Carrier:        e.Carrier,
	}
}

// EditFor seeds an edit form from an order's current values.
func EditFor(order *Order) OrderEdit {
	return OrderEdit{
		OrderStatus:    order.OrderStatus,
		PaymentStatus:  order.PaymentStatus,
		TrackingNumber: order.TrackingNumber,
		Carrier:        order.Carrier,
	}
}

// SaveOrderEdit validates an edit and issues the backend calls it implies:
// tracking first, then payment status, then order status, each only when
// its value changed. A validation failure returns the field errors without
// making any network call.
func (c *Client) SaveOrderEdit(ctx context.Context, orderID int64, original, edited OrderEdit) error {
	of, ef := original.flow(), edited.flow()

	if errs := orderflow.ValidateTransition(of.OrderStatus, ef.OrderStatus, ef.Fields()); errs != nil {
		return errs
	}

	for _, step := range orderflow.PlanUpdates(of, ef) {
		var err error
		switch step.Kind {
		case orderflow.UpdateTracking:
			err = c.updateOrderTracking(ctx, orderID, step.TrackingNumber, step.Carrier)
		case orderflow.UpdatePayment:
			err = c.updateOrderPayment(ctx, orderID, string(step.PaymentStatus))
		case orderflow.UpdateStatus:
			err = c.updateOrderStatus(ctx, orderID, string(step.OrderStatus))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) updateOrderStatus(ctx context.Context, orderID int64, status string) error {
	query := url.Values{"status": {status}}
	return c.put(ctx, "/order/status/"+strconv.FormatInt(orderID, 10), query, nil, nil)
}

func (c *Client) updateOrderPayment(ctx context.Context, orderID int64, status string) error {
	query := url.Values{"status": {status}}
	return c.put(ctx, "/order/payment/"+strconv.FormatInt(orderID, 10), query, nil, nil)
}

func (c *Client) updateOrderTracking(ctx context.Context, orderID int64, trackingNumber, carrier string) error {
	query := url.Values{
		"trackingNumber": {trackingNumber},
		"carrier":        {carrier},
	}
	return c.put(ctx, "/order/tracking/"+strconv.FormatInt(orderID, 10), query, nil, nil)
}

// MarkDelivered is the one-call delivery confirmation. The backend enforces
// the same payment and tracking requirements as a status edit.
func (c *Client) MarkDelivered(ctx context.Context, orderID int64) (*Order, error) {
	var order Order
	if err := c.put(ctx, "/order/delivered/"+strconv.FormatInt(orderID, 10), nil, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// DeleteOrder removes an order. Requires an admin session.
func (c *Client) DeleteOrder(ctx context.Context, orderID int64) error {
	return c.delete(ctx, "/order/admin/"+strconv.FormatInt(orderID, 10))
}
