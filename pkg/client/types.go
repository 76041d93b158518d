package client

import "time"

// User mirrors the backend account record.
type User struct {
	ID        int64    `json:"id"`
	Username  string   `json:"username"`
	Email     string   `json:"email"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Roles     []string `json:"roles"`
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

// Product mirrors a catalog record.
type Product struct {
	ProductID     int64   `json:"productId"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Price         float64 `json:"price"`
	Category      string  `json:"category"`
	StockQuantity int     `json:"stockQuantity"`
	ImageURL      string  `json:"imageUrl,omitempty"`
}

// CartItem mirrors one line of the server-side cart.
type CartItem struct {
	ID          int64   `json:"id"`
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	ImageURL    string  `json:"imageUrl,omitempty"`
}

// Order mirrors the backend order record.
type Order struct {
	OrderID           int64       `json:"orderId"`
	UserID            int64       `json:"userId"`
	TotalPrice        float64     `json:"totalPrice"`
	ShippingAddress   string      `json:"shippingAddress"`
	OrderStatus       string      `json:"orderStatus"`
	PaymentStatus     string      `json:"paymentStatus"`
	PaymentMethod     string      `json:"paymentMethod,omitempty"`
	TrackingNumber    string      `json:"trackingNumber"`
	Carrier           string      `json:"carrier"`
	EstimatedDelivery *time.Time  `json:"estimatedDelivery,omitempty"`
	ShippedAt         *time.Time  `json:"shippedAt,omitempty"`
	DeliveredAt       *time.Time  `json:"deliveredAt,omitempty"`
	CreatedAt         time.Time   `json:"createdAt"`
	OrderItems        []OrderItem `json:"orderItems,omitempty"`
}

// OrderItem mirrors one line of an order.
type OrderItem struct {
	ProductID   int64   `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"totalPrice"`
}
