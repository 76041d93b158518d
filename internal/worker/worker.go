package worker

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"commerce-platform/internal/broker"
	"commerce-platform/internal/mailer"
	"commerce-platform/internal/models"
	"commerce-platform/internal/util"
)

// NotificationWorker consumes order lifecycle events and sends the
// customer-facing and admin emails for them.
type NotificationWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	mail         mailer.Mailer
	adminEmail   string
	logger       *zap.Logger
}

// NewNotificationWorker creates a new notification worker
func NewNotificationWorker(consumer *broker.Consumer, mail mailer.Mailer, adminEmail string) *NotificationWorker {
	w := &NotificationWorker{
		consumer:   consumer,
		mail:       mail,
		adminEmail: adminEmail,
		logger:     util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderCreated(w.handleOrderCreated)
	eventHandler.OnOrderShipped(w.handleOrderShipped)
	eventHandler.OnOrderDelivered(w.handleOrderDelivered)
	eventHandler.OnOrderCancelled(w.handleOrderCancelled)
	eventHandler.OnContactMessage(w.handleContactMessage)
	w.eventHandler = eventHandler

	return w
}

// Start starts the worker
func (w *NotificationWorker) Start(ctx context.Context) error {
	w.logger.Info("Starting notification worker")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *NotificationWorker) Stop() error {
	w.logger.Info("Stopping notification worker")
	return w.consumer.Close()
}

// send delivers one email. A delivery failure is logged and swallowed so a
// broken SMTP relay cannot wedge the consumer on a single event.
func (w *NotificationWorker) send(kind, to, subject, body string) {
	if to == "" {
		return
	}
	if err := w.mail.Send(to, subject, body); err != nil {
		w.logger.Error("Failed to send email",
			zap.String("kind", kind),
			zap.String("to", to),
			zap.Error(err))
		return
	}
	util.EmailsSentTotal.WithLabelValues(kind).Inc()
}

func (w *NotificationWorker) handleOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	var lines strings.Builder
	for _, item := range event.Items {
		fmt.Fprintf(&lines, "  %s x%d - %.2f\n", item.ProductName, item.Quantity, item.TotalPrice)
	}

	body := fmt.Sprintf(
		"Hi %s,\n\nThank you for your order #%d.\n\n%s\nTotal: %.2f\n\nWe will let you know when it ships.\n",
		event.CustomerName, event.OrderID, lines.String(), event.TotalPrice)
	w.send("order_confirmation", event.UserEmail,
		fmt.Sprintf("Order #%d confirmed", event.OrderID), body)

	adminBody := fmt.Sprintf("Order #%d placed by %s for %.2f.\n",
		event.OrderID, event.CustomerName, event.TotalPrice)
	w.send("admin_order_notice", w.adminEmail,
		fmt.Sprintf("New order #%d", event.OrderID), adminBody)

	return nil
}

func (w *NotificationWorker) handleOrderShipped(ctx context.Context, event *models.OrderShippedEvent) error {
	body := fmt.Sprintf(
		"Your order #%d is on its way.\n\nCarrier: %s\nTracking number: %s\n",
		event.OrderID, event.Carrier, event.TrackingNumber)
	w.send("order_shipped", event.UserEmail,
		fmt.Sprintf("Order #%d shipped", event.OrderID), body)
	return nil
}

func (w *NotificationWorker) handleOrderDelivered(ctx context.Context, event *models.OrderDeliveredEvent) error {
	body := fmt.Sprintf("Your order #%d has been delivered. Enjoy!\n", event.OrderID)
	w.send("order_delivered", event.UserEmail,
		fmt.Sprintf("Order #%d delivered", event.OrderID), body)
	return nil
}

func (w *NotificationWorker) handleOrderCancelled(ctx context.Context, event *models.OrderCancelledEvent) error {
	body := fmt.Sprintf("Your order #%d has been cancelled (%s).\n", event.OrderID, event.Reason)
	w.send("order_cancelled", event.UserEmail,
		fmt.Sprintf("Order #%d cancelled", event.OrderID), body)
	return nil
}

func (w *NotificationWorker) handleContactMessage(ctx context.Context, event *models.ContactMessageEvent) error {
	body := fmt.Sprintf("From: %s <%s>\n\n%s\n", event.Name, event.Email, event.Message)
	w.send("contact_message", w.adminEmail, "New contact form message", body)
	return nil
}
