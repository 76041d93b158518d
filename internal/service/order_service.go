package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"commerce-platform/internal/broker"
	"commerce-platform/internal/models"
	"commerce-platform/internal/orderflow"
	"commerce-platform/internal/redisclient"
	"commerce-platform/internal/store"
	"commerce-platform/internal/util"
)

var (
	// ErrEmptyCart is returned when checkout is attempted with no cart items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrPaymentDeclined is returned when the gateway rejects every attempt.
	ErrPaymentDeclined = errors.New("payment declined")
	// ErrOrderNotFound is returned when an order id does not exist.
	ErrOrderNotFound = errors.New("order not found")
	// ErrForbidden is returned when a user reads an order they do not own.
	ErrForbidden = errors.New("access denied")
)

const (
	paymentRetryAttempts = 2
	paymentRetryBackoff  = 200 * time.Millisecond

	// Seed estimate for a freshly placed order; shipping refines it.
	initialDeliveryEstimate = 7 * 24 * time.Hour
	shippedDeliveryEstimate = 5 * 24 * time.Hour
)

// CheckoutRequest is the payload for placing an order from the cart.
type CheckoutRequest struct {
	ShippingAddress string      `json:"shippingAddress" binding:"required"`
	Payment         PaymentInfo `json:"payment"`
}

// OrderService owns checkout and the order lifecycle.
type OrderService struct {
	store     *store.Store
	redis     *redisclient.Client
	products  *ProductService
	cart      *CartService
	payments  *PaymentService
	publisher *broker.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(st *store.Store, redis *redisclient.Client, products *ProductService, cart *CartService, payments *PaymentService, publisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:     st,
		redis:     redis,
		products:  products,
		cart:      cart,
		payments:  payments,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

func baseEvent(eventType string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: time.Now(),
	}
}

// PlaceOrder converts the user's cart into an order. Payment is validated
// and charged before anything is written; stock deduction and cart clearing
// happen after the order row exists and are logged rather than rolled back.
func (os *OrderService) PlaceOrder(ctx context.Context, user *models.User, req CheckoutRequest) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.PlaceOrder")
	defer span.End()

	if errs := ValidatePaymentInfo(req.Payment); errs != nil {
		util.OrdersFailedTotal.WithLabelValues("invalid_payment").Inc()
		return nil, errs
	}

	items, err := os.cart.GetCart(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(items) == 0 {
		util.OrdersFailedTotal.WithLabelValues("empty_cart").Inc()
		return nil, ErrEmptyCart
	}

	for _, it := range items {
		p, err := os.products.GetByID(ctx, it.ProductID)
		if err != nil {
			util.OrdersFailedTotal.WithLabelValues("product_missing").Inc()
			return nil, fmt.Errorf("product %d no longer available", it.ProductID)
		}
		if p.StockQuantity < it.Quantity {
			util.OrdersFailedTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, fmt.Errorf("insufficient stock for %s: %d available", p.Name, p.StockQuantity)
		}
	}

	summary := models.SummarizeCart(items)

	result := os.chargeWithRetry(ctx, req.Payment, summary.TotalPrice)
	if !result.Success {
		util.OrdersFailedTotal.WithLabelValues("payment_declined").Inc()
		return nil, fmt.Errorf("%w: %s", ErrPaymentDeclined, result.Message)
	}

	estimated := time.Now().Add(initialDeliveryEstimate)
	order := &models.Order{
		UserID:             user.ID,
		TotalPrice:         summary.TotalPrice,
		ShippingAddress:    req.ShippingAddress,
		OrderStatus:        string(orderflow.StatusPending),
		PaymentStatus:      string(result.PaymentStatus),
		PaymentMethod:      req.Payment.PaymentMethod,
		TransactionID:      result.TransactionID,
		TrackingNumber:     orderflow.TrackingPlaceholder,
		Carrier:            orderflow.TrackingPlaceholder,
		UserEmail:          user.Email,
		CustomerName:       user.Username,
		EstimatedDelivery:  &estimated,
		PaymentProcessedAt: &result.ProcessedAt,
	}
	for _, it := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Price:       it.Price,
			Quantity:    it.Quantity,
			TotalPrice:  it.Price * float64(it.Quantity),
		})
	}

	if err := os.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for _, it := range items {
		if err := os.products.DeductStock(ctx, it.ProductID, it.Quantity); err != nil {
			os.logger.Error("Stock deduction failed after order creation",
				zap.Int64("order_id", order.OrderID),
				zap.Int64("product_id", it.ProductID),
				zap.Error(err))
		}
	}

	if err := os.cart.Clear(ctx, user.ID); err != nil {
		os.logger.Error("Failed to clear cart after order creation",
			zap.Int64("order_id", order.OrderID),
			zap.Error(err))
	}

	util.OrdersPlacedTotal.Inc()

	if os.publisher != nil {
		event := &models.OrderCreatedEvent{
			BaseEvent:    baseEvent(models.EventTypeOrderCreated),
			OrderID:      order.OrderID,
			UserID:       user.ID,
			UserEmail:    user.Email,
			CustomerName: user.Username,
			TotalPrice:   order.TotalPrice,
			Items:        order.Items,
		}
		if err := os.publisher.PublishOrderCreated(ctx, event); err != nil {
			os.logger.Error("Failed to publish order created event",
				zap.Int64("order_id", order.OrderID),
				zap.Error(err))
		}
		payEvent := &models.PaymentProcessedEvent{
			BaseEvent:     baseEvent(models.EventTypePaymentProcessed),
			OrderID:       order.OrderID,
			PaymentStatus: string(result.PaymentStatus),
			TransactionID: result.TransactionID,
			Amount:        order.TotalPrice,
		}
		if err := os.publisher.PublishPaymentProcessed(ctx, payEvent); err != nil {
			os.logger.Error("Failed to publish payment processed event",
				zap.Int64("order_id", order.OrderID),
				zap.Error(err))
		}
	}

	os.logger.Info("Order placed",
		zap.Int64("order_id", order.OrderID),
		zap.Int64("user_id", user.ID),
		zap.Float64("total", order.TotalPrice))

	return order, nil
}

// chargeWithRetry gives the gateway a second chance on transient declines.
func (os *OrderService) chargeWithRetry(ctx context.Context, info PaymentInfo, amount float64) PaymentResult {
	var result PaymentResult
	for attempt := 1; attempt <= paymentRetryAttempts; attempt++ {
		result = os.payments.ProcessPayment(ctx, info, amount)
		if result.Success {
			return result
		}
		os.logger.Warn("Payment attempt failed",
			zap.Int("attempt", attempt),
			zap.String("message", result.Message))
		if attempt < paymentRetryAttempts {
			select {
			case <-time.After(paymentRetryBackoff):
			case <-ctx.Done():
				return result
			}
		}
	}
	return result
}

// GetOrder returns a single order. Non-admin callers may only read their own.
func (os *OrderService) GetOrder(ctx context.Context, id int64, requester *models.User) (*models.Order, error) {
	order, err := os.store.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if !requester.HasRole(models.RoleAdmin) && order.UserID != requester.ID {
		return nil, ErrForbidden
	}
	return order, nil
}

// GetUserOrders returns the order history for one user, newest first.
func (os *OrderService) GetUserOrders(ctx context.Context, userID int64) ([]models.Order, error) {
	return os.store.GetOrdersByUserID(ctx, userID)
}

// GetAllOrders returns every order, newest first.
func (os *OrderService) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	return os.store.GetAllOrders(ctx)
}

// UpdateStatus moves an order to a new fulfilment status. Entry into
// DELIVERED is guarded: payment must be PAID and real tracking details must
// be on record before the transition is accepted.
func (os *OrderService) UpdateStatus(ctx context.Context, orderID int64, target orderflow.OrderStatus) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()

	order, err := os.store.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	fields := orderflow.TransitionFields{
		PaymentStatus:  orderflow.PaymentStatus(order.PaymentStatus),
		TrackingNumber: order.TrackingNumber,
		Carrier:        order.Carrier,
	}
	if errs := orderflow.ValidateTransition(orderflow.OrderStatus(order.OrderStatus), target, fields); errs != nil {
		util.OrderTransitionsBlocked.WithLabelValues(string(target)).Inc()
		os.logger.Warn("Order transition blocked",
			zap.Int64("order_id", orderID),
			zap.String("target", string(target)),
			zap.String("reason", errs.Error()))
		return nil, errs
	}

	now := time.Now()
	if err := os.store.UpdateOrderStatus(ctx, orderID, target, now); err != nil {
		return nil, err
	}

	order.OrderStatus = string(target)
	switch target {
	case orderflow.StatusShipped:
		order.ShippedAt = &now
		est := now.Add(shippedDeliveryEstimate)
		order.EstimatedDelivery = &est
	case orderflow.StatusDelivered:
		order.DeliveredAt = &now
		util.OrdersDeliveredTotal.Inc()
	}

	os.publishStatusEvent(ctx, order, target)
	os.invalidateDashboard(ctx)

	os.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", string(target)))

	return order, nil
}

func (os *OrderService) publishStatusEvent(ctx context.Context, order *models.Order, target orderflow.OrderStatus) {
	if os.publisher == nil {
		return
	}
	var err error
	switch target {
	case orderflow.StatusShipped:
		err = os.publisher.PublishOrderShipped(ctx, &models.OrderShippedEvent{
			BaseEvent:      baseEvent(models.EventTypeOrderShipped),
			OrderID:        order.OrderID,
			UserID:         order.UserID,
			UserEmail:      order.UserEmail,
			TrackingNumber: order.TrackingNumber,
			Carrier:        order.Carrier,
		})
	case orderflow.StatusDelivered:
		err = os.publisher.PublishOrderDelivered(ctx, &models.OrderDeliveredEvent{
			BaseEvent: baseEvent(models.EventTypeOrderDelivered),
			OrderID:   order.OrderID,
			UserID:    order.UserID,
			UserEmail: order.UserEmail,
		})
	case orderflow.StatusCancelled:
		err = os.publisher.PublishOrderCancelled(ctx, &models.OrderCancelledEvent{
			BaseEvent: baseEvent(models.EventTypeOrderCancelled),
			OrderID:   order.OrderID,
			UserID:    order.UserID,
			UserEmail: order.UserEmail,
			Reason:    "order cancelled",
		})
	}
	if err != nil {
		os.logger.Error("Failed to publish order event",
			zap.Int64("order_id", order.OrderID),
			zap.String("status", string(target)),
			zap.Error(err))
	}
}

// CancelOrder lets a user cancel their own order while it is still
// cancellable.
func (os *OrderService) CancelOrder(ctx context.Context, orderID int64, requester *models.User) (*models.Order, error) {
	order, err := os.GetOrder(ctx, orderID, requester)
	if err != nil {
		return nil, err
	}
	if !orderflow.CanCancel(orderflow.OrderStatus(order.OrderStatus)) {
		return nil, fmt.Errorf("order in status %s cannot be cancelled", order.OrderStatus)
	}
	return os.UpdateStatus(ctx, orderID, orderflow.StatusCancelled)
}

// UpdatePaymentStatus records a settlement change made by an admin.
func (os *OrderService) UpdatePaymentStatus(ctx context.Context, orderID int64, status orderflow.PaymentStatus) error {
	if err := os.store.UpdatePaymentStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	os.invalidateDashboard(ctx)
	os.logger.Info("Payment status updated",
		zap.Int64("order_id", orderID),
		zap.String("payment_status", string(status)))
	return nil
}

// UpdateTracking records the tracking number and carrier for an order.
// Both values are required together; a lone tracking number without a
// carrier is not useful to the customer.
func (os *OrderService) UpdateTracking(ctx context.Context, orderID int64, trackingNumber, carrier string) error {
	errs := orderflow.FieldErrors{}
	if orderflow.IsPlaceholder(trackingNumber) {
		errs["trackingNumber"] = "A real tracking number is required."
	}
	if orderflow.IsPlaceholder(carrier) {
		errs["carrier"] = "A carrier is required."
	}
	if len(errs) > 0 {
		return errs
	}

	if err := os.store.UpdateOrderTracking(ctx, orderID, trackingNumber, carrier); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	os.logger.Info("Order tracking updated",
		zap.Int64("order_id", orderID),
		zap.String("tracking_number", trackingNumber),
		zap.String("carrier", carrier))
	return nil
}

// MarkDelivered is the one-call delivery confirmation. It runs the same
// entry guard as UpdateStatus.
func (os *OrderService) MarkDelivered(ctx context.Context, orderID int64) (*models.Order, error) {
	return os.UpdateStatus(ctx, orderID, orderflow.StatusDelivered)
}

// DeleteOrder removes an order and its items.
func (os *OrderService) DeleteOrder(ctx context.Context, orderID int64) error {
	if err := os.store.DeleteOrder(ctx, orderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrOrderNotFound
		}
		return err
	}
	os.invalidateDashboard(ctx)
	os.logger.Info("Order deleted", zap.Int64("order_id", orderID))
	return nil
}

// Count returns the total number of orders.
func (os *OrderService) Count(ctx context.Context) (int64, error) {
	return os.store.CountOrders(ctx)
}

// Revenue sums the totals of delivered orders.
func (os *OrderService) Revenue(ctx context.Context) (float64, error) {
	return os.store.TotalRevenue(ctx)
}

// PendingCount returns the number of orders awaiting confirmation.
func (os *OrderService) PendingCount(ctx context.Context) (int64, error) {
	return os.store.CountOrdersByStatus(ctx, orderflow.StatusPending)
}

// CompletedCount returns the number of delivered orders.
func (os *OrderService) CompletedCount(ctx context.Context) (int64, error) {
	return os.store.CountOrdersByStatus(ctx, orderflow.StatusDelivered)
}

// DashboardStats assembles the admin dashboard counters, cached briefly in
// Redis so repeated refreshes do not hammer the aggregate queries.
func (os *OrderService) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if os.redis != nil {
		if stats, err := os.redis.GetDashboardStats(ctx); err == nil {
			return stats, nil
		}
	}

	stats := &models.DashboardStats{}
	var err error
	if stats.TotalUsers, err = os.store.CountUsers(ctx); err != nil {
		return nil, err
	}
	if stats.TotalProducts, err = os.store.CountProducts(ctx); err != nil {
		return nil, err
	}
	if stats.TotalOrders, err = os.store.CountOrders(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRevenue, err = os.store.TotalRevenue(ctx); err != nil {
		return nil, err
	}
	if stats.PendingOrders, err = os.store.CountOrdersByStatus(ctx, orderflow.StatusPending); err != nil {
		return nil, err
	}
	if stats.CompletedOrders, err = os.store.CountOrdersByStatus(ctx, orderflow.StatusDelivered); err != nil {
		return nil, err
	}

	if os.redis != nil {
		if err := os.redis.SetDashboardStats(ctx, stats); err != nil {
			os.logger.Warn("Failed to cache dashboard stats", zap.Error(err))
		}
	}
	return stats, nil
}

func (os *OrderService) invalidateDashboard(ctx context.Context) {
	if os.redis == nil {
		return
	}
	if err := os.redis.InvalidateDashboardStats(ctx); err != nil {
		os.logger.Warn("Failed to invalidate dashboard cache", zap.Error(err))
	}
}
