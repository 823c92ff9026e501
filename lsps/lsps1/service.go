package lsps1

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/flokiorg/lokilsp/logger"
	"github.com/flokiorg/lokilsp/lsps/events"
	"github.com/flokiorg/lokilsp/lsps/lsps0"
	"github.com/flokiorg/lokilsp/lsps/msgqueue"
)

// Misuse errors, returned when a business callback references state that does
// not exist. They never travel over the wire.
var (
	ErrUnknownCounterparty = errors.New("no state for counterparty")
	ErrNoPendingRequest    = errors.New("no pending create_order request")
	ErrUnknownOrder        = errors.New("unknown order")
)

// ServiceConfig holds the LSP-side configuration for LSPS1. Website and
// SupportedOptions must be set before the handler can answer get_info or
// create_order requests.
type ServiceConfig struct {
	Token            *string
	Website          *string
	SupportedOptions *Options
}

// ServiceHandler handles LSPS1 service-side operations: it is the single
// entry point for client requests and exposes the two callbacks the business
// layer uses to complete deferred responses.
//
// Counterparty state lives behind two lock levels: mu guards which peers
// exist, each peerState's own mutex guards that peer's maps. Requests from
// distinct peers never contend.
type ServiceHandler struct {
	entropy      EntropySource
	msgQueue     *msgqueue.MessageQueue
	eventQueue   *events.EventQueue
	config       *ServiceConfig
	perPeerState map[string]*peerState
	mu           sync.RWMutex
}

// NewServiceHandler creates a new LSPS1 service handler.
func NewServiceHandler(entropy EntropySource, msgQueue *msgqueue.MessageQueue, eventQueue *events.EventQueue, config *ServiceConfig) *ServiceHandler {
	if entropy == nil {
		entropy = CryptoRandSource{}
	}
	return &ServiceHandler{
		entropy:      entropy,
		msgQueue:     msgQueue,
		eventQueue:   eventQueue,
		config:       config,
		perPeerState: make(map[string]*peerState),
	}
}

func (h *ServiceHandler) ensurePeerState(peerPubkey string) *peerState {
	h.mu.RLock()
	ps, ok := h.perPeerState[peerPubkey]
	h.mu.RUnlock()
	if ok {
		return ps
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if ps, ok := h.perPeerState[peerPubkey]; ok {
		return ps
	}
	ps = newPeerState()
	h.perPeerState[peerPubkey] = ps
	return ps
}

func (h *ServiceHandler) getPeerState(peerPubkey string) *peerState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.perPeerState[peerPubkey]
}

// HandleRequest processes a decoded LSPS1 request from a client. Responses
// are never expected here; the service only receives requests.
func (h *ServiceHandler) HandleRequest(peerPubkey string, req *lsps0.JsonRpcRequest) error {
	switch req.Method {
	case MethodGetInfo:
		return h.handleGetInfo(peerPubkey, req)
	case MethodCreateOrder:
		return h.handleCreateOrder(peerPubkey, req)
	case MethodGetOrder:
		return h.handleGetOrder(peerPubkey, req)
	default:
		h.enqueueResponse(peerPubkey,
			lsps0.NewErrorResponse(req.ID, lsps0.ErrCodeMethodNotFound, "Method not found", nil))
		return fmt.Errorf("unsupported lsps1 method %q from peer %s", req.Method, peerPubkey)
	}
}

// supportedOptions returns the advertised options or a configuration fault.
func (h *ServiceHandler) supportedOptions() (*Options, error) {
	if h.config.SupportedOptions == nil {
		return nil, errors.New("LSPS1 supported options not configured")
	}
	return h.config.SupportedOptions, nil
}

func (h *ServiceHandler) handleGetInfo(peerPubkey string, req *lsps0.JsonRpcRequest) error {
	opts, err := h.supportedOptions()
	if err != nil {
		return fmt.Errorf("cannot answer get_info: %w", err)
	}
	if h.config.Website == nil {
		return errors.New("cannot answer get_info: LSPS1 website not configured")
	}

	return h.enqueueResponse(peerPubkey, lsps0.NewResponse(req.ID, &GetInfoResponse{
		Website: *h.config.Website,
		Options: *opts,
	}))
}

func (h *ServiceHandler) handleCreateOrder(peerPubkey string, req *lsps0.JsonRpcRequest) error {
	opts, err := h.supportedOptions()
	if err != nil {
		return fmt.Errorf("cannot answer create_order: %w", err)
	}

	var params CreateOrderRequest
	if err := lsps0.DecodeParams(req.Params, &params); err != nil {
		h.enqueueResponse(peerPubkey,
			lsps0.NewErrorResponse(req.ID, lsps0.ErrCodeInvalidParams, "Invalid create_order params", nil))
		return fmt.Errorf("malformed create_order params from peer %s: %w", peerPubkey, err)
	}

	if !isValid(&params.Order, opts) {
		h.enqueueResponse(peerPubkey, lsps0.NewErrorResponse(
			req.ID,
			CreateOrderErrCodeOrderMismatch,
			"Order does not match options supported by LSP server",
			opts,
		))
		return fmt.Errorf("create_order from peer %s does not match supported options: %+v", peerPubkey, params.Order)
	}

	ps := h.ensurePeerState(peerPubkey)
	ps.mu.Lock()
	ps.pendingCreateOrders[req.ID] = &params
	ps.mu.Unlock()

	h.eventQueue.Enqueue(&PaymentDetailsRequestedEvent{
		RequestID:          req.ID,
		CounterpartyNodeID: peerPubkey,
		Order:              params.Order,
	})

	return nil
}

func (h *ServiceHandler) handleGetOrder(peerPubkey string, req *lsps0.JsonRpcRequest) error {
	var params GetOrderRequest
	if err := lsps0.DecodeParams(req.Params, &params); err != nil {
		h.enqueueResponse(peerPubkey,
			lsps0.NewErrorResponse(req.ID, lsps0.ErrCodeInvalidParams, "Invalid get_order params", nil))
		return fmt.Errorf("malformed get_order params from peer %s: %w", peerPubkey, err)
	}

	ps := h.getPeerState(peerPubkey)
	if ps == nil {
		return fmt.Errorf("received get_order request from unknown counterparty %s", peerPubkey)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	order, ok := ps.ordersByID[params.OrderID]
	if !ok {
		return fmt.Errorf("received get_order request from peer %s for unknown order id %s", peerPubkey, params.OrderID)
	}

	if err := order.awaitingPayment(); err != nil {
		// Compensate: the order is gone and the business layer must refund
		// whatever was already paid towards it.
		delete(ps.ordersByID, params.OrderID)
		h.eventQueue.Enqueue(&RefundEvent{
			RequestID:          req.ID,
			CounterpartyNodeID: peerPubkey,
			OrderID:            params.OrderID,
		})
		return err
	}

	ps.pendingGetOrders[req.ID] = &params

	h.eventQueue.Enqueue(&CheckPaymentConfirmationEvent{
		RequestID:          req.ID,
		CounterpartyNodeID: peerPubkey,
		OrderID:            params.OrderID,
	})

	return nil
}

// SendPaymentDetails attaches payment terms to a pending create_order
// request and answers it. Call it after consuming a
// PaymentDetailsRequestedEvent. Returns the id of the newly created order.
func (h *ServiceHandler) SendPaymentDetails(requestID, counterpartyNodeID string, payment PaymentInfo, createdAt, expiresAt time.Time) (string, error) {
	ps := h.getPeerState(counterpartyNodeID)
	if ps == nil {
		return "", fmt.Errorf("%w: %s", ErrUnknownCounterparty, counterpartyNodeID)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	params, ok := ps.pendingCreateOrders[requestID]
	if !ok {
		return "", fmt.Errorf("%w: request_id %s", ErrNoPendingRequest, requestID)
	}

	orderID, err := generateOrderID(h.entropy)
	if err != nil {
		return "", err
	}
	delete(ps.pendingCreateOrders, requestID)

	ps.ordersByID[orderID] = newOutboundOrder(orderID, params.Order, createdAt, expiresAt, payment)

	h.enqueueResponse(counterpartyNodeID, lsps0.NewResponse(requestID, &CreateOrderResponse{
		OrderID:    orderID,
		Order:      params.Order,
		OrderState: OrderStateCreated,
		CreatedAt:  createdAt,
		ExpiresAt:  expiresAt,
		Payment:    payment,
	}))

	return orderID, nil
}

// UpdateOrderStatus answers a pending get_order poll, echoing the order's
// immutable configuration plus the caller-supplied state label and channel
// info. Call it after consuming a CheckPaymentConfirmationEvent, and again
// whenever the reported status changes. The internal order status is left
// untouched; reported state and internal bookkeeping are independent.
func (h *ServiceHandler) UpdateOrderStatus(requestID, counterpartyNodeID, orderID, orderState string, channel *ChannelInfo) error {
	ps := h.getPeerState(counterpartyNodeID)
	if ps == nil {
		return fmt.Errorf("%w: %s", ErrUnknownCounterparty, counterpartyNodeID)
	}

	ps.mu.Lock()
	defer ps.mu.Unlock()

	order, ok := ps.ordersByID[orderID]
	if !ok {
		return fmt.Errorf("%w: order_id %s", ErrUnknownOrder, orderID)
	}

	delete(ps.pendingGetOrders, requestID)

	h.enqueueResponse(counterpartyNodeID, lsps0.NewResponse(requestID, &CreateOrderResponse{
		OrderID:    orderID,
		Order:      order.order,
		OrderState: orderState,
		CreatedAt:  order.createdAt,
		ExpiresAt:  order.expiresAt,
		Payment:    order.payment,
		Channel:    channel,
	}))

	return nil
}

func (h *ServiceHandler) enqueueResponse(peerPubkey string, resp *lsps0.JsonRpcResponse) error {
	data, err := lsps0.EncodeJsonRpc(resp)
	if err != nil {
		logger.Logger.Error().Err(err).
			Str("peer_pubkey", peerPubkey).
			Msg("Failed to encode LSPS1 response")
		return err
	}
	h.msgQueue.Enqueue(peerPubkey, data)
	return nil
}
