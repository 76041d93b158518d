package orderflow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransitionDeliveredGuard(t *testing.T) {
	tests := []struct {
		name       string
		fields     TransitionFields
		wantFields []string
	}{
		{
			name: "all requirements met",
			fields: TransitionFields{
				PaymentStatus:  PaymentPaid,
				TrackingNumber: "1Z999AA10123456784",
				Carrier:        "UPS",
			},
		},
		{
			name: "payment pending and placeholder tracking",
			fields: TransitionFields{
				PaymentStatus:  PaymentPending,
				TrackingNumber: "TBD123",
				Carrier:        "UPS",
			},
			wantFields: []string{"paymentStatus", "trackingNumber"},
		},
		{
			name: "everything missing",
			fields: TransitionFields{
				PaymentStatus:  PaymentFailed,
				TrackingNumber: "",
				Carrier:        "   ",
			},
			wantFields: []string{"paymentStatus", "trackingNumber", "carrier"},
		},
		{
			name: "lowercase tbd carrier",
			fields: TransitionFields{
				PaymentStatus:  PaymentPaid,
				TrackingNumber: "TRK-100",
				Carrier:        "tbd",
			},
			wantFields: []string{"carrier"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateTransition(StatusShipped, StatusDelivered, tt.fields)
			if len(tt.wantFields) == 0 {
				assert.Nil(t, errs)
				return
			}
			require.NotNil(t, errs)
			assert.Len(t, errs, len(tt.wantFields))
			for _, f := range tt.wantFields {
				assert.Contains(t, errs, f)
			}
		})
	}
}

func TestValidateTransitionNonDeliveredAlwaysAllowed(t *testing.T) {
	// The guard only gates entry into DELIVERED; any other target passes
	// even with placeholder tracking and unpaid status.
	for _, target := range []OrderStatus{StatusPending, StatusConfirmed, StatusShipped, StatusCancelled} {
		errs := ValidateTransition(StatusPending, target, TransitionFields{
			PaymentStatus:  PaymentPending,
			TrackingNumber: "TBD",
			Carrier:        "",
		})
		assert.Nil(t, errs, "target %s", target)
	}
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder(""))
	assert.True(t, IsPlaceholder("  "))
	assert.True(t, IsPlaceholder("TBD"))
	assert.True(t, IsPlaceholder("TBD123"))
	assert.True(t, IsPlaceholder("tbd-later"))
	assert.False(t, IsPlaceholder("1Z999AA10123456784"))
	assert.False(t, IsPlaceholder("BlueDart"))
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(StatusPending))
	assert.True(t, CanCancel(StatusConfirmed))
	assert.True(t, CanCancel(StatusShipped))
	assert.False(t, CanCancel(StatusDelivered))
	assert.False(t, CanCancel(StatusCancelled))
}

func TestParseOrderStatus(t *testing.T) {
	st, err := ParseOrderStatus(" shipped ")
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, st)

	_, err = ParseOrderStatus("DISPATCHED")
	assert.Error(t, err)
}

func TestParsePaymentMethod(t *testing.T) {
	m, err := ParsePaymentMethod("net_banking")
	require.NoError(t, err)
	assert.Equal(t, MethodNetBanking, m)

	_, err = ParsePaymentMethod("CRYPTO")
	assert.Error(t, err)
}

func TestPlanUpdatesOrderingAndDiff(t *testing.T) {
	original := OrderEdit{
		OrderStatus:    StatusConfirmed,
		PaymentStatus:  PaymentPending,
		TrackingNumber: "TBD",
		Carrier:        "TBD",
	}
	edited := OrderEdit{
		OrderStatus:    StatusShipped,
		PaymentStatus:  PaymentPaid,
		TrackingNumber: "TRK-42",
		Carrier:        "FedEx",
	}

	steps := PlanUpdates(original, edited)
	require.Len(t, steps, 3)
	assert.Equal(t, UpdateTracking, steps[0].Kind)
	assert.Equal(t, "TRK-42", steps[0].TrackingNumber)
	assert.Equal(t, "FedEx", steps[0].Carrier)
	assert.Equal(t, UpdatePayment, steps[1].Kind)
	assert.Equal(t, PaymentPaid, steps[1].PaymentStatus)
	assert.Equal(t, UpdateStatus, steps[2].Kind)
	assert.Equal(t, StatusShipped, steps[2].OrderStatus)
}

func TestPlanUpdatesSkipsUnchanged(t *testing.T) {
	edit := OrderEdit{
		OrderStatus:    StatusShipped,
		PaymentStatus:  PaymentPaid,
		TrackingNumber: "TRK-42",
		Carrier:        "FedEx",
	}
	assert.Empty(t, PlanUpdates(edit, edit))

	// Only payment changed.
	edited := edit
	edited.PaymentStatus = PaymentRefunded
	steps := PlanUpdates(edit, edited)
	require.Len(t, steps, 1)
	assert.Equal(t, UpdatePayment, steps[0].Kind)
}

func TestPlanUpdatesIncompleteTrackingNotSent(t *testing.T) {
	original := OrderEdit{TrackingNumber: "TBD", Carrier: "TBD"}
	edited := OrderEdit{TrackingNumber: "TRK-1", Carrier: ""}
	// Tracking update needs both values; half-filled forms issue nothing.
	assert.Empty(t, PlanUpdates(original, edited))
}
