package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"commerce-platform/internal/orderflow"
	"commerce-platform/internal/util"
)

func init() {
	_ = util.InitLogger("development")
}

func TestValidatePaymentInfo(t *testing.T) {
	tests := []struct {
		name       string
		info       PaymentInfo
		wantFields []string
	}{
		{
			name: "cod needs nothing",
			info: PaymentInfo{PaymentMethod: "COD"},
		},
		{
			name:       "upi without handle",
			info:       PaymentInfo{PaymentMethod: "UPI"},
			wantFields: []string{"upiId"},
		},
		{
			name: "upi with handle",
			info: PaymentInfo{PaymentMethod: "UPI", UPIID: "alice@upi"},
		},
		{
			name:       "card missing everything",
			info:       PaymentInfo{PaymentMethod: "CARD"},
			wantFields: []string{"cardNumber", "cardHolderName", "expiryDate", "cvv"},
		},
		{
			name: "card complete",
			info: PaymentInfo{
				PaymentMethod:  "CARD",
				CardNumber:     "4111111111111111",
				CardHolderName: "Alice",
				ExpiryDate:     "12/27",
				CVV:            "123",
			},
		},
		{
			name:       "net banking without bank",
			info:       PaymentInfo{PaymentMethod: "NET_BANKING"},
			wantFields: []string{"bankName"},
		},
		{
			name:       "unknown method",
			info:       PaymentInfo{PaymentMethod: "BARTER"},
			wantFields: []string{"paymentMethod"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidatePaymentInfo(tt.info)
			if len(tt.wantFields) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.NotNil(t, errs)
			assert.Len(t, errs, len(tt.wantFields))
			for _, field := range tt.wantFields {
				assert.Contains(t, errs, field)
			}
		})
	}
}

func TestProcessPaymentCOD(t *testing.T) {
	ps := NewPaymentService()

	result := ps.ProcessPayment(context.Background(), PaymentInfo{PaymentMethod: "COD"}, 499.0)

	require.True(t, result.Success)
	assert.Equal(t, orderflow.PaymentPending, result.PaymentStatus)
	assert.True(t, strings.HasPrefix(result.TransactionID, "COD-"))
	assert.False(t, result.ProcessedAt.IsZero())
}

func TestProcessPaymentElectronicPrefixes(t *testing.T) {
	ps := NewPaymentService()
	ps.successRate = 1.0

	tests := []struct {
		info   PaymentInfo
		prefix string
	}{
		{PaymentInfo{PaymentMethod: "UPI", UPIID: "alice@upi"}, "UPI-"},
		{PaymentInfo{PaymentMethod: "CARD", CardNumber: "4111", CardHolderName: "A", ExpiryDate: "12/27", CVV: "123"}, "CARD-"},
		{PaymentInfo{PaymentMethod: "NET_BANKING", BankName: "First Bank"}, "NET-"},
	}

	for _, tt := range tests {
		result := ps.ProcessPayment(context.Background(), tt.info, 100.0)
		require.True(t, result.Success, tt.info.PaymentMethod)
		assert.Equal(t, orderflow.PaymentPaid, result.PaymentStatus)
		assert.True(t, strings.HasPrefix(result.TransactionID, tt.prefix),
			"transaction id %q should start with %q", result.TransactionID, tt.prefix)
	}
}

func TestProcessPaymentDeclined(t *testing.T) {
	ps := NewPaymentService()
	ps.successRate = 0.0

	result := ps.ProcessPayment(context.Background(), PaymentInfo{PaymentMethod: "UPI", UPIID: "alice@upi"}, 100.0)

	assert.False(t, result.Success)
	assert.Empty(t, result.TransactionID)
	assert.NotEmpty(t, result.Message)
}
