// Package manager wires the LSPS service handlers to the node transport:
// it pumps incoming custom messages into the protocol dispatchers and drains
// the outbound message queue back to peers.
package manager

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flokiorg/lokilsp/lnclient"
	"github.com/flokiorg/lokilsp/logger"
	"github.com/flokiorg/lokilsp/lsps/events"
	"github.com/flokiorg/lokilsp/lsps/lsps0"
	"github.com/flokiorg/lokilsp/lsps/lsps1"
	"github.com/flokiorg/lokilsp/lsps/msgqueue"
	"github.com/flokiorg/lokilsp/lsps/persist"
	"github.com/flokiorg/lokilsp/lsps/transport"
)

type ManagerConfig struct {
	LNClient           lnclient.LNClient
	LSPS1              *lsps1.ServiceConfig
	SupportedProtocols []int
	// OrderStore is optional; when set, accepted orders are archived.
	OrderStore *persist.OrderStore
}

// ServiceManager runs the service side of the LSPS protocols on top of an
// attached Lightning node.
type ServiceManager struct {
	cfg        *ManagerConfig
	transport  transport.Transport
	eventQueue *events.EventQueue
	msgQueue   *msgqueue.MessageQueue

	lsps0Service *lsps0.ServiceHandler
	lsps1Service *lsps1.ServiceHandler
}

func NewServiceManager(cfg *ManagerConfig) (*ServiceManager, error) {
	if cfg.LNClient == nil {
		return nil, fmt.Errorf("LNClient is required")
	}
	if cfg.LSPS1 == nil {
		return nil, fmt.Errorf("LSPS1 service config is required")
	}

	t := transport.NewLNDTransport(cfg.LNClient)
	eq := events.NewEventQueue()
	mq := msgqueue.NewMessageQueue()

	protocols := cfg.SupportedProtocols
	if protocols == nil {
		protocols = []int{0, 1}
	}

	m := &ServiceManager{
		cfg:        cfg,
		transport:  t,
		eventQueue: eq,
		msgQueue:   mq,
	}

	m.lsps0Service = lsps0.NewServiceHandler(mq, &lsps0.ServiceConfig{SupportedProtocols: protocols})
	m.lsps1Service = lsps1.NewServiceHandler(nil, mq, eq, cfg.LSPS1)

	return m, nil
}

func (m *ServiceManager) Start(ctx context.Context) error {
	msgs, errs, err := m.transport.SubscribeCustomMessages(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to custom messages: %w", err)
	}

	go m.processMessages(ctx, msgs, errs)
	go m.pumpOutbound(ctx)

	logger.Logger.Info().Msg("LSPS service manager started")
	return nil
}

func (m *ServiceManager) processMessages(ctx context.Context, msgs <-chan transport.CustomMessage, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-errs:
			if err != nil {
				logger.Logger.Error().Err(err).Msg("Error receiving custom message")
			}
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			m.dispatchMessage(msg)
		}
	}
}

// dispatchMessage decodes the JSON-RPC envelope once and routes the request
// to the owning protocol handler. The service only ever receives requests;
// response-shaped messages are rejected without touching any state.
func (m *ServiceManager) dispatchMessage(msg transport.CustomMessage) {
	if msg.Type != lsps0.LSPS_MESSAGE_TYPE_ID {
		return
	}

	req, err := lsps0.DecodeJsonRpcRequest(msg.Data)
	if err != nil {
		logger.Logger.Warn().Err(err).
			Str("peer_pubkey", msg.PeerPubkey).
			Msg("Dropping unparseable LSPS message")
		return
	}

	if req.Method == "" {
		logger.Logger.Warn().
			Str("peer_pubkey", msg.PeerPubkey).
			Msg("Service received an LSPS response message, rejecting")
		return
	}

	switch {
	case strings.HasPrefix(req.Method, "lsps0."):
		err = m.lsps0Service.HandleRequest(msg.PeerPubkey, req)
	case strings.HasPrefix(req.Method, "lsps1."):
		err = m.lsps1Service.HandleRequest(msg.PeerPubkey, req)
	default:
		data, encErr := lsps0.EncodeJsonRpc(
			lsps0.NewErrorResponse(req.ID, lsps0.ErrCodeMethodNotFound, "Method not found", nil))
		if encErr == nil {
			m.msgQueue.Enqueue(msg.PeerPubkey, data)
		}
		err = fmt.Errorf("unknown method %q", req.Method)
	}

	if err != nil {
		logger.Logger.Info().Err(err).
			Str("peer_pubkey", msg.PeerPubkey).
			Str("method", req.Method).
			Str("request_id", req.ID).
			Msg("LSPS request failed")
	}
}

func (m *ServiceManager) pumpOutbound(ctx context.Context) {
	for {
		msg, err := m.msgQueue.NextMessage(ctx)
		if err != nil {
			return
		}
		if err := m.transport.SendCustomMessage(ctx, msg.PeerPubkey, lsps0.LSPS_MESSAGE_TYPE_ID, msg.Data); err != nil {
			logger.Logger.Error().Err(err).
				Str("peer_pubkey", msg.PeerPubkey).
				Msg("Failed to send LSPS response")
		}
	}
}

// SendPaymentDetails forwards payment terms to the LSPS1 handler and
// archives the resulting order.
func (m *ServiceManager) SendPaymentDetails(requestID, counterpartyNodeID string, order lsps1.OrderParams, payment lsps1.PaymentInfo, createdAt, expiresAt time.Time) (string, error) {
	orderID, err := m.lsps1Service.SendPaymentDetails(requestID, counterpartyNodeID, payment, createdAt, expiresAt)
	if err != nil {
		return "", err
	}

	if m.cfg.OrderStore != nil {
		if err := m.cfg.OrderStore.SaveOrder(orderID, counterpartyNodeID, order, payment, createdAt, expiresAt); err != nil {
			logger.Logger.Error().Err(err).
				Str("order_id", orderID).
				Msg("Failed to archive LSPS1 order")
		}
	}

	return orderID, nil
}

// UpdateOrderStatus forwards a status report to the LSPS1 handler and
// mirrors it into the archive.
func (m *ServiceManager) UpdateOrderStatus(requestID, counterpartyNodeID, orderID, orderState string, channel *lsps1.ChannelInfo) error {
	if err := m.lsps1Service.UpdateOrderStatus(requestID, counterpartyNodeID, orderID, orderState, channel); err != nil {
		return err
	}

	if m.cfg.OrderStore != nil {
		if err := m.cfg.OrderStore.UpdateOrderState(orderID, orderState, channel); err != nil {
			logger.Logger.Error().Err(err).
				Str("order_id", orderID).
				Msg("Failed to update archived LSPS1 order")
		}
	}

	return nil
}

func (m *ServiceManager) EventQueue() *events.EventQueue {
	return m.eventQueue
}
