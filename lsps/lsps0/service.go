package lsps0

import (
	"github.com/flokiorg/lokilsp/logger"
	"github.com/flokiorg/lokilsp/lsps/msgqueue"
)

// ServiceHandler answers LSPS0 requests from clients (LSP perspective).
// Responses are staged on the outbound message queue; the manager drains
// them to the transport. The protocol list is fixed at construction.
type ServiceHandler struct {
	msgQueue           *msgqueue.MessageQueue
	supportedProtocols []int
}

// ServiceConfig holds configuration for the service handler
type ServiceConfig struct {
	SupportedProtocols []int
}

// NewServiceHandler creates a new LSPS0 service handler
func NewServiceHandler(msgQueue *msgqueue.MessageQueue, config *ServiceConfig) *ServiceHandler {
	if config == nil {
		config = &ServiceConfig{
			SupportedProtocols: []int{0, 1},
		}
	}

	return &ServiceHandler{
		msgQueue:           msgQueue,
		supportedProtocols: config.SupportedProtocols,
	}
}

// HandleRequest processes a decoded LSPS0 request from a client.
func (h *ServiceHandler) HandleRequest(peerPubkey string, req *JsonRpcRequest) error {
	switch req.Method {
	case MethodListProtocols:
		return h.handleListProtocols(peerPubkey, req)
	default:
		return h.enqueueResponse(peerPubkey,
			NewErrorResponse(req.ID, ErrCodeMethodNotFound, "Method not found", nil))
	}
}

func (h *ServiceHandler) handleListProtocols(peerPubkey string, req *JsonRpcRequest) error {
	logger.Logger.Debug().
		Str("peer_pubkey", peerPubkey).
		Str("request_id", req.ID).
		Msg("Answering list_protocols")

	return h.enqueueResponse(peerPubkey,
		NewResponse(req.ID, &ListProtocolsResponse{Protocols: h.supportedProtocols}))
}

func (h *ServiceHandler) enqueueResponse(peerPubkey string, resp *JsonRpcResponse) error {
	data, err := EncodeJsonRpc(resp)
	if err != nil {
		return err
	}
	h.msgQueue.Enqueue(peerPubkey, data)
	return nil
}
