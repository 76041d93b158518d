// Package orderflow owns the order lifecycle rules shared by the API server
// and the client SDK: status enums, the delivered-entry guard, and the
// ordering of admin update calls.
package orderflow

import (
	"fmt"
	"strings"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	StatusPending   OrderStatus = "PENDING"
	StatusConfirmed OrderStatus = "CONFIRMED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// PaymentStatus is the settlement state of an order's payment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "PENDING"
	PaymentPaid     PaymentStatus = "PAID"
	PaymentFailed   PaymentStatus = "FAILED"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// PaymentMethod selects the checkout payment flow.
type PaymentMethod string

const (
	MethodCOD        PaymentMethod = "COD"
	MethodUPI        PaymentMethod = "UPI"
	MethodCard       PaymentMethod = "CARD"
	MethodNetBanking PaymentMethod = "NET_BANKING"
)

// TrackingPlaceholder is the value new orders are seeded with before a real
// tracking number is assigned.
const TrackingPlaceholder = "TBD"

var orderStatuses = map[OrderStatus]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusShipped:   true,
	StatusDelivered: true,
	StatusCancelled: true,
}

var paymentStatuses = map[PaymentStatus]bool{
	PaymentPending:  true,
	PaymentPaid:     true,
	PaymentFailed:   true,
	PaymentRefunded: true,
}

var paymentMethods = map[PaymentMethod]bool{
	MethodCOD:        true,
	MethodUPI:        true,
	MethodCard:       true,
	MethodNetBanking: true,
}

// ParseOrderStatus validates a raw status string.
func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !orderStatuses[st] {
		return "", fmt.Errorf("unknown order status: %q", s)
	}
	return st, nil
}

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	st := PaymentStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !paymentStatuses[st] {
		return "", fmt.Errorf("unknown payment status: %q", s)
	}
	return st, nil
}

// ParsePaymentMethod validates a raw payment method string.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToUpper(strings.TrimSpace(s)))
	if !paymentMethods[m] {
		return "", fmt.Errorf("unknown payment method: %q", s)
	}
	return m, nil
}

// IsTerminal reports whether no further status transitions are expected.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanCancel reports whether an order in the given status may be cancelled.
func CanCancel(current OrderStatus) bool {
	return !current.IsTerminal()
}

// IsPlaceholder reports whether a tracking or carrier value is unset in
// spirit: blank after trimming, or still carrying the "TBD" seed (any
// suffix, any case).
func IsPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" {
		return true
	}
	return strings.HasPrefix(strings.ToUpper(v), TrackingPlaceholder)
}

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return "no field errors"
	}
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return strings.Join(parts, "; ")
}

// TransitionFields carries the order fields the delivered-entry guard
// inspects.
type TransitionFields struct {
	PaymentStatus  PaymentStatus
	TrackingNumber string
	Carrier        string
}

// ValidateTransition checks whether an order may move from current to
// target. Entering DELIVERED requires a settled payment and real tracking
// detail; every other transition is accepted, matching the behavior the
// admin tooling has always had. A nil return means the transition may be
// submitted.
func ValidateTransition(current, target OrderStatus, fields TransitionFields) FieldErrors {
	_ = current // only the delivered-entry guard is enforced today

	if target != StatusDelivered {
		return nil
	}

	errs := FieldErrors{}
	if fields.PaymentStatus != PaymentPaid {
		errs["paymentStatus"] = "Payment status must be PAID for delivered orders."
	}
	if IsPlaceholder(fields.TrackingNumber) {
		errs["trackingNumber"] = "Tracking number is required for delivered orders."
	}
	if IsPlaceholder(fields.Carrier) {
		errs["carrier"] = "Carrier is required for delivered orders."
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}
