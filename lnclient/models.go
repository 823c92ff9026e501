// Package lnclient defines the capability surface the LSP daemon needs from
// the underlying Lightning node. The daemon never assumes a concrete backend;
// anything that can relay custom peer messages can serve.
package lnclient

import "context"

// CustomMessage is a raw peer-to-peer message received from or sent to a
// Lightning peer over the custom message range.
type CustomMessage struct {
	PeerPubkey string
	Type       uint32
	Data       []byte
}

// NodeInfo describes the node the daemon is attached to.
type NodeInfo struct {
	Alias       string
	Color       string
	Pubkey      string
	Network     string
	BlockHeight uint32
	BlockHash   string
}

// PeerDetails describes a peer of the underlying node.
type PeerDetails struct {
	NodeId      string
	Address     string
	IsPersisted bool
	IsConnected bool
}

type LNClient interface {
	SendCustomMessage(ctx context.Context, peerPubkey string, msgType uint32, data []byte) error
	SubscribeCustomMessages(ctx context.Context) (<-chan CustomMessage, <-chan error, error)
	GetInfo(ctx context.Context) (*NodeInfo, error)
	GetPubkey() string
	ListPeers(ctx context.Context) ([]PeerDetails, error)
	Shutdown() error
}
