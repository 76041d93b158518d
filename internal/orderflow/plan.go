package orderflow

// UpdateKind identifies one of the three independent admin update calls.
type UpdateKind string

const (
	UpdateTracking UpdateKind = "tracking"
	UpdatePayment  UpdateKind = "payment"
	UpdateStatus   UpdateKind = "status"
)

// UpdateStep is one backend call the admin edit form should issue.
type UpdateStep struct {
	Kind           UpdateKind
	OrderStatus    OrderStatus
	PaymentStatus  PaymentStatus
	TrackingNumber string
	Carrier        string
}

// OrderEdit is the editable slice of an order as seen by the admin form.
type OrderEdit struct {
	OrderStatus    OrderStatus
	PaymentStatus  PaymentStatus
	TrackingNumber string
	Carrier        string
}

// Fields extracts the delivered-entry guard inputs from an edit.
func (e OrderEdit) Fields() TransitionFields {
	return TransitionFields{
		PaymentStatus:  e.PaymentStatus,
		TrackingNumber: e.TrackingNumber,
		Carrier:        e.Carrier,
	}
}

// PlanUpdates diffs an edit against the stored order and returns the update
// calls to issue, changed values only, in the fixed order tracking, payment,
// status. Tracking lands first because the status write can trigger shipment
// and delivery emails that quote the tracking number on record.
func PlanUpdates(original, edited OrderEdit) []UpdateStep {
	var steps []UpdateStep

	trackingChanged := edited.TrackingNumber != original.TrackingNumber ||
		edited.Carrier != original.Carrier
	if trackingChanged && edited.TrackingNumber != "" && edited.Carrier != "" {
		steps = append(steps, UpdateStep{
			Kind:           UpdateTracking,
			TrackingNumber: edited.TrackingNumber,
			Carrier:        edited.Carrier,
		})
	}

	if edited.PaymentStatus != original.PaymentStatus {
		steps = append(steps, UpdateStep{
			Kind:          UpdatePayment,
			PaymentStatus: edited.PaymentStatus,
		})
	}

	if edited.OrderStatus != original.OrderStatus {
		steps = append(steps, UpdateStep{
			Kind:        UpdateStatus,
			OrderStatus: edited.OrderStatus,
		})
	}

	return steps
}
