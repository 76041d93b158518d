package models

import (
	"time"

	"github.com/lib/pq"
)

// Roles carried by a user account.
const (
	RoleUser  = "ROLE_USER"
	RoleAdmin = "ROLE_ADMIN"
)

// User represents a registered account
type User struct {
	ID        int64          `db:"id" json:"id"`
	Username  string         `db:"username" json:"username"`
	Email     string         `db:"email" json:"email"`
	Password  string         `db:"password" json:"-"`
	FirstName string         `db:"first_name" json:"firstName"`
	LastName  string         `db:"last_name" json:"lastName"`
	Roles     pq.StringArray `db:"roles" json:"roles"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}

// HasRole reports whether the user carries the given role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Product represents a product in the catalog
type Product struct {
	ProductID     int64     `db:"product_id" json:"productId"`
	Name          string    `db:"name" json:"name"`
	Description   string    `db:"description" json:"description"`
	Price         float64   `db:"price" json:"price"`
	Category      string    `db:"category" json:"category"`
	StockQuantity int       `db:"stock_quantity" json:"stockQuantity"`
	ImageURL      string    `db:"image_url" json:"imageUrl,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// CartItem is one (user, product) line in a cart. Price and name are
// denormalized from the product at read time.
type CartItem struct {
	ID          int64   `db:"id" json:"id"`
	UserID      int64   `db:"user_id" json:"-"`
	ProductID   int64   `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName"`
	Price       float64 `db:"price" json:"price"`
	Quantity    int     `db:"quantity" json:"quantity"`
	ImageURL    string  `db:"image_url" json:"imageUrl,omitempty"`
}

// CartSummary aggregates a user's cart
type CartSummary struct {
	TotalPrice     float64 `json:"totalPrice"`
	TotalItems     int     `json:"totalItems"`
	UniqueProducts int     `json:"uniqueProducts"`
}

// SummarizeCart reduces a cart snapshot to its totals.
func SummarizeCart(items []CartItem) CartSummary {
	var s CartSummary
	for _, it := range items {
		s.TotalPrice += it.Price * float64(it.Quantity)
		s.TotalItems += it.Quantity
	}
	s.UniqueProducts = len(items)
	return s
}

// Order represents a customer order
type Order struct {
	OrderID            int64      `db:"order_id" json:"orderId"`
	UserID             int64      `db:"user_id" json:"userId"`
	TotalPrice         float64    `db:"total_price" json:"totalPrice"`
	ShippingAddress    string     `db:"shipping_address" json:"shippingAddress"`
	OrderStatus        string     `db:"order_status" json:"orderStatus"`
	PaymentStatus      string     `db:"payment_status" json:"paymentStatus"`
	PaymentMethod      string     `db:"payment_method" json:"paymentMethod,omitempty"`
	TransactionID      string     `db:"transaction_id" json:"transactionId,omitempty"`
	TrackingNumber     string     `db:"tracking_number" json:"trackingNumber"`
	Carrier            string     `db:"carrier" json:"carrier"`
	UserEmail          string     `db:"user_email" json:"userEmail,omitempty"`
	CustomerName       string     `db:"customer_name" json:"customerName,omitempty"`
	EstimatedDelivery  *time.Time `db:"estimated_delivery" json:"estimatedDelivery,omitempty"`
	ShippedAt          *time.Time `db:"shipped_at" json:"shippedAt,omitempty"`
	DeliveredAt        *time.Time `db:"delivered_at" json:"deliveredAt,omitempty"`
	PaymentProcessedAt *time.Time `db:"payment_processed_at" json:"paymentProcessedAt,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"createdAt"`

	Items []OrderItem `db:"-" json:"orderItems,omitempty"`
}

// OrderItem is a line snapshotted from the cart at order time
type OrderItem struct {
	ID          int64   `db:"id" json:"-"`
	OrderID     int64   `db:"order_id" json:"-"`
	ProductID   int64   `db:"product_id" json:"productId"`
	ProductName string  `db:"product_name" json:"productName"`
	Price       float64 `db:"price" json:"price"`
	Quantity    int     `db:"quantity" json:"quantity"`
	TotalPrice  float64 `db:"total_price" json:"totalPrice"`
}

// DashboardStats aggregates the admin dashboard counters
type DashboardStats struct {
	TotalUsers      int64   `json:"totalUsers"`
	TotalProducts   int64   `json:"totalProducts"`
	TotalOrders     int64   `json:"totalOrders"`
	TotalRevenue    float64 `json:"totalRevenue"`
	PendingOrders   int64   `json:"pendingOrders"`
	CompletedOrders int64   `json:"completedOrders"`
}
