package lsps1

import "github.com/flokiorg/lokilsp/lsps/events"

const (
	EventTypePaymentDetailsRequested  = "lsps1_payment_details_requested"
	EventTypeCheckPaymentConfirmation = "lsps1_check_payment_confirmation"
	EventTypeRefund                   = "lsps1_refund"
)

// PaymentDetailsRequestedEvent asks the business layer to price an order and
// produce payment terms, then call ServiceHandler.SendPaymentDetails.
type PaymentDetailsRequestedEvent struct {
	RequestID          string
	CounterpartyNodeID string
	Order              OrderParams
}

func (e *PaymentDetailsRequestedEvent) EventType() string {
	return EventTypePaymentDetailsRequested
}

// CheckPaymentConfirmationEvent asks the business layer to check whether an
// order's payment has confirmed, then call ServiceHandler.UpdateOrderStatus.
type CheckPaymentConfirmationEvent struct {
	RequestID          string
	CounterpartyNodeID string
	OrderID            string
}

func (e *CheckPaymentConfirmationEvent) EventType() string {
	return EventTypeCheckPaymentConfirmation
}

// RefundEvent signals that an order could not validly progress and any funds
// already received for it should be returned.
type RefundEvent struct {
	RequestID          string
	CounterpartyNodeID string
	OrderID            string
}

func (e *RefundEvent) EventType() string {
	return EventTypeRefund
}

// Ensure events implement Event interface
var _ events.Event = (*PaymentDetailsRequestedEvent)(nil)
var _ events.Event = (*CheckPaymentConfirmationEvent)(nil)
var _ events.Event = (*RefundEvent)(nil)
