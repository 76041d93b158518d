package service

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"commerce-platform/internal/orderflow"
	"commerce-platform/internal/util"
)

// PaymentInfo is the method-specific field set collected at checkout.
type PaymentInfo struct {
	PaymentMethod  string `json:"paymentMethod"`
	UPIID          string `json:"upiId,omitempty"`
	CardNumber     string `json:"cardNumber,omitempty"`
	CardHolderName string `json:"cardHolderName,omitempty"`
	ExpiryDate     string `json:"expiryDate,omitempty"`
	CVV            string `json:"cvv,omitempty"`
	BankName       string `json:"bankName,omitempty"`
}

// PaymentResult is the gateway's settlement outcome.
type PaymentResult struct {
	Success       bool
	PaymentStatus orderflow.PaymentStatus
	TransactionID string
	Message       string
	ProcessedAt   time.Time
}

// PaymentService simulates the payment gateway. COD settles later on
// delivery, so it succeeds immediately with a PENDING payment status;
// electronic methods settle to PAID.
type PaymentService struct {
	logger      *zap.Logger
	successRate float64
}

// NewPaymentService creates a new payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{
		logger:      util.GetLogger(),
		successRate: 0.95,
	}
}

// ValidatePaymentInfo checks the method-specific required fields without
// touching the gateway.
func ValidatePaymentInfo(info PaymentInfo) orderflow.FieldErrors {
	method, err := orderflow.ParsePaymentMethod(info.PaymentMethod)
	if err != nil {
		return orderflow.FieldErrors{"paymentMethod": "A valid payment method is required."}
	}

	errs := orderflow.FieldErrors{}
	switch method {
	case orderflow.MethodCOD:
		// Nothing to collect.
	case orderflow.MethodUPI:
		if strings.TrimSpace(info.UPIID) == "" {
			errs["upiId"] = "UPI ID is required."
		}
	case orderflow.MethodCard:
		if strings.TrimSpace(info.CardNumber) == "" {
			errs["cardNumber"] = "Card number is required."
		}
		if strings.TrimSpace(info.CardHolderName) == "" {
			errs["cardHolderName"] = "Card holder name is required."
		}
		if strings.TrimSpace(info.ExpiryDate) == "" {
			errs["expiryDate"] = "Card expiry date is required."
		}
		if strings.TrimSpace(info.CVV) == "" {
			errs["cvv"] = "CVV is required."
		}
	case orderflow.MethodNetBanking:
		if strings.TrimSpace(info.BankName) == "" {
			errs["bankName"] = "Bank name is required."
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ProcessPayment settles a validated payment and returns the outcome.
func (ps *PaymentService) ProcessPayment(ctx context.Context, info PaymentInfo, amount float64) PaymentResult {
	_, span := util.StartSpan(ctx, "PaymentService.ProcessPayment")
	defer span.End()

	method, err := orderflow.ParsePaymentMethod(info.PaymentMethod)
	if err != nil {
		return PaymentResult{Success: false, Message: "Invalid payment method"}
	}

	util.PaymentAttemptsTotal.WithLabelValues(string(method)).Inc()
	start := time.Now()
	defer func() {
		util.PaymentProcessingLatency.Observe(time.Since(start).Seconds())
	}()

	if method == orderflow.MethodCOD {
		return PaymentResult{
			Success:       true,
			PaymentStatus: orderflow.PaymentPending,
			TransactionID: "COD-" + transactionID(),
			Message:       "Cash on Delivery - payment collected upon delivery",
			ProcessedAt:   time.Now(),
		}
	}

	if rand.Float64() >= ps.successRate {
		ps.logger.Warn("Payment declined",
			zap.String("method", string(method)),
			zap.Float64("amount", amount))
		util.PaymentFailedTotal.WithLabelValues(string(method)).Inc()
		return PaymentResult{Success: false, Message: paymentFailureMessage(method)}
	}

	prefix := map[orderflow.PaymentMethod]string{
		orderflow.MethodUPI:        "UPI-",
		orderflow.MethodCard:       "CARD-",
		orderflow.MethodNetBanking: "NET-",
	}[method]

	return PaymentResult{
		Success:       true,
		PaymentStatus: orderflow.PaymentPaid,
		TransactionID: prefix + transactionID(),
		Message:       "Payment successful",
		ProcessedAt:   time.Now(),
	}
}

func paymentFailureMessage(method orderflow.PaymentMethod) string {
	switch method {
	case orderflow.MethodCard:
		return "Card payment failed - please check your card details"
	case orderflow.MethodUPI:
		return "UPI payment failed - please try again"
	default:
		return "Payment failed - please try again"
	}
}

func transactionID() string {
	return strings.ToUpper(uuid.New().String()[:8]) + time.Now().Format("20060102150405")
}
