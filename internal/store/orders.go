package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"commerce-platform/internal/models"
	"commerce-platform/internal/orderflow"
)

// CreateOrder creates an order together with its item snapshot in one
// transaction and fills in the generated IDs.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (user_id, total_price, shipping_address, order_status, payment_status,
		                    payment_method, transaction_id, tracking_number, carrier,
		                    user_email, customer_name, estimated_delivery, payment_processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING order_id, created_at`

	row := tx.QueryRowxContext(ctx, query,
		order.UserID, order.TotalPrice, order.ShippingAddress, order.OrderStatus, order.PaymentStatus,
		order.PaymentMethod, order.TransactionID, order.TrackingNumber, order.Carrier,
		order.UserEmail, order.CustomerName, order.EstimatedDelivery, order.PaymentProcessedAt)
	if err := row.Scan(&order.OrderID, &order.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, product_id, product_name, price, quantity, total_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	for i := range order.Items {
		it := &order.Items[i]
		it.OrderID = order.OrderID
		if err := tx.QueryRowxContext(ctx, itemQuery,
			it.OrderID, it.ProductID, it.ProductName, it.Price, it.Quantity, it.TotalPrice).Scan(&it.ID); err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return tx.Commit()
}

// GetOrderByID retrieves an order with its items.
func (s *Store) GetOrderByID(ctx context.Context, id int64) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order, "SELECT * FROM orders WHERE order_id = $1", id)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if order.Items, err = s.getOrderItems(ctx, id); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Store) getOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

func (s *Store) attachItems(ctx context.Context, orders []models.Order) error {
	for i := range orders {
		items, err := s.getOrderItems(ctx, orders[i].OrderID)
		if err != nil {
			return err
		}
		orders[i].Items = items
	}
	return nil
}

// GetOrdersByUserID retrieves a user's orders, newest first, with items.
func (s *Store) GetOrdersByUserID(ctx context.Context, userID int64) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE user_id = $1 ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetAllOrders retrieves every order, newest first, with items.
func (s *Store) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders, "SELECT * FROM orders ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// UpdateOrderStatus writes the new status plus its timestamp side effects:
// SHIPPED stamps shipped_at and refreshes the delivery estimate, DELIVERED
// stamps delivered_at.
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status orderflow.OrderStatus, now time.Time) error {
	var err error
	switch status {
	case orderflow.StatusShipped:
		estimated := now.AddDate(0, 0, 5)
		_, err = s.db.ExecContext(ctx,
			"UPDATE orders SET order_status = $1, shipped_at = $2, estimated_delivery = $3 WHERE order_id = $4",
			status, now, estimated, orderID)
	case orderflow.StatusDelivered:
		_, err = s.db.ExecContext(ctx,
			"UPDATE orders SET order_status = $1, delivered_at = $2 WHERE order_id = $3",
			status, now, orderID)
	default:
		_, err = s.db.ExecContext(ctx,
			"UPDATE orders SET order_status = $1 WHERE order_id = $2", status, orderID)
	}
	return err
}

// UpdatePaymentStatus writes the payment status only.
func (s *Store) UpdatePaymentStatus(ctx context.Context, orderID int64, status orderflow.PaymentStatus) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET payment_status = $1 WHERE order_id = $2", status, orderID)
	if err != nil {
		return err
	}
	return orderAffected(res, orderID)
}

// UpdateOrderTracking writes tracking detail with no status side effects.
func (s *Store) UpdateOrderTracking(ctx context.Context, orderID int64, trackingNumber, carrier string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET tracking_number = $1, carrier = $2 WHERE order_id = $3",
		trackingNumber, carrier, orderID)
	if err != nil {
		return err
	}
	return orderAffected(res, orderID)
}

func orderAffected(res sql.Result, orderID int64) error {
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return fmt.Errorf("order %d: %w", orderID, ErrNotFound)
	}
	return err
}

// DeleteOrder removes an order and its items.
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM orders WHERE order_id = $1", orderID); err != nil {
		return err
	}
	return tx.Commit()
}

// CountOrders returns the total number of orders.
func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM orders")
	return count, err
}

// CountOrdersByStatus returns how many orders carry the given status.
func (s *Store) CountOrdersByStatus(ctx context.Context, status orderflow.OrderStatus) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count,
		"SELECT COUNT(*) FROM orders WHERE order_status = $1", status)
	return count, err
}

// TotalRevenue sums order totals over delivered orders.
func (s *Store) TotalRevenue(ctx context.Context) (float64, error) {
	var revenue float64
	err := s.db.GetContext(ctx, &revenue,
		"SELECT COALESCE(SUM(total_price), 0) FROM orders WHERE order_status = $1",
		orderflow.StatusDelivered)
	return revenue, err
}
