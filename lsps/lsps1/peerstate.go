package lsps1

import "sync"

// peerState holds everything the service tracks for one counterparty:
// outbound orders by id and requests whose response is deferred until the
// business layer calls back. All fields are guarded by mu; the registry in
// ServiceHandler only hands out the pointer.
type peerState struct {
	mu sync.Mutex

	ordersByID          map[string]*outboundOrder
	pendingCreateOrders map[string]*CreateOrderRequest
	pendingGetOrders    map[string]*GetOrderRequest
}

func newPeerState() *peerState {
	return &peerState{
		ordersByID:          make(map[string]*outboundOrder),
		pendingCreateOrders: make(map[string]*CreateOrderRequest),
		pendingGetOrders:    make(map[string]*GetOrderRequest),
	}
}
