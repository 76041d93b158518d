package models

import "time"

// Event types
const (
	EventTypeOrderCreated     = "ORDER_CREATED"
	EventTypeOrderShipped     = "ORDER_SHIPPED"
	EventTypeOrderDelivered   = "ORDER_DELIVERED"
	EventTypeOrderCancelled   = "ORDER_CANCELLED"
	EventTypePaymentProcessed = "PAYMENT_PROCESSED"
	EventTypeContactMessage   = "CONTACT_MESSAGE"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderCreatedEvent published after checkout succeeds
type OrderCreatedEvent struct {
	BaseEvent
	OrderID      int64       `json:"order_id"`
	UserID       int64       `json:"user_id"`
	UserEmail    string      `json:"user_email"`
	CustomerName string      `json:"customer_name"`
	TotalPrice   float64     `json:"total_price"`
	Items        []OrderItem `json:"items"`
}

// OrderShippedEvent published when an order transitions to SHIPPED
type OrderShippedEvent struct {
	BaseEvent
	OrderID        int64  `json:"order_id"`
	UserID         int64  `json:"user_id"`
	UserEmail      string `json:"user_email"`
	TrackingNumber string `json:"tracking_number"`
	Carrier        string `json:"carrier"`
}

// OrderDeliveredEvent published when an order transitions to DELIVERED
type OrderDeliveredEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	UserID    int64  `json:"user_id"`
	UserEmail string `json:"user_email"`
}

// OrderCancelledEvent published when an order is cancelled
type OrderCancelledEvent struct {
	BaseEvent
	OrderID   int64  `json:"order_id"`
	UserID    int64  `json:"user_id"`
	UserEmail string `json:"user_email"`
	Reason    string `json:"reason"`
}

// PaymentProcessedEvent published after the payment gateway settles
type PaymentProcessedEvent struct {
	BaseEvent
	OrderID       int64   `json:"order_id"`
	PaymentStatus string  `json:"payment_status"`
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
}

// ContactMessageEvent published when a visitor submits the contact form
type ContactMessageEvent struct {
	BaseEvent
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
