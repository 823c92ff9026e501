package lsps1

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// EntropySource produces cryptographically secure random bytes. Injected at
// construction so embedders control where randomness comes from.
type EntropySource interface {
	GetSecureRandomBytes(buf []byte) error
}

// CryptoRandSource is the default EntropySource backed by crypto/rand.
type CryptoRandSource struct{}

func (CryptoRandSource) GetSecureRandomBytes(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}

// orderIDBytes is the entropy behind an order id: 128 bits, hex encoded.
const orderIDBytes = 16

func generateOrderID(entropy EntropySource) (string, error) {
	buf := make([]byte, orderIDBytes)
	if err := entropy.GetSecureRandomBytes(buf); err != nil {
		return "", fmt.Errorf("failed to draw order id entropy: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// orderStatus is the internal bookkeeping state of an order. It is distinct
// from the externally reported order_state label, which the business layer
// chooses freely; the two do not track each other.
type orderStatus int

const (
	orderStatusCreated orderStatus = iota
	orderStatusWaitingPayment
	orderStatusReady
)

func (s orderStatus) String() string {
	switch s {
	case orderStatusCreated:
		return "created"
	case orderStatusWaitingPayment:
		return "waiting_payment"
	case orderStatusReady:
		return "ready"
	default:
		return "unknown"
	}
}

// orderStateError reports an invalid internal state transition.
type orderStateError struct {
	orderID string
	from    orderStatus
}

func (e *orderStateError) Error() string {
	return fmt.Sprintf("order %s cannot enter payment wait from state %s", e.orderID, e.from)
}

// outboundOrder pairs the internal order status with the immutable
// configuration captured when payment details were attached.
type outboundOrder struct {
	status    orderStatus
	orderID   string
	order     OrderParams
	createdAt time.Time
	expiresAt time.Time
	payment   PaymentInfo
}

func newOutboundOrder(orderID string, order OrderParams, createdAt, expiresAt time.Time, payment PaymentInfo) *outboundOrder {
	return &outboundOrder{
		status:    orderStatusCreated,
		orderID:   orderID,
		order:     order,
		createdAt: createdAt,
		expiresAt: expiresAt,
		payment:   payment,
	}
}

// awaitingPayment moves the order into the payment wait. Only valid once,
// from the created state; the caller compensates on failure.
func (o *outboundOrder) awaitingPayment() error {
	if o.status != orderStatusCreated {
		return &orderStateError{orderID: o.orderID, from: o.status}
	}
	o.status = orderStatusWaitingPayment
	return nil
}
