// Package wrapper provides a thin typed wrapper around the FLND gRPC API.
package wrapper

import (
	"context"
	"crypto/x509"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/flokiorg/flnd/lnrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// LNDoptions holds the connection parameters for an FLND node.
type LNDoptions struct {
	Address     string
	CertHex     string
	MacaroonHex string
}

type LNDWrapper struct {
	conn   *grpc.ClientConn
	client lnrpc.LightningClient
}

// macaroonCredential attaches the admin macaroon to every RPC.
type macaroonCredential struct {
	macaroonHex string
	requireTLS  bool
}

func (c macaroonCredential) GetRequestMetadata(ctx context.Context, uri ...string) (map[string]string, error) {
	return map[string]string{"macaroon": c.macaroonHex}, nil
}

func (c macaroonCredential) RequireTransportSecurity() bool {
	return c.requireTLS
}

func NewLNDclient(opts LNDoptions) (*LNDWrapper, error) {
	if opts.Address == "" || opts.MacaroonHex == "" {
		return nil, errors.New("missing FLND address or macaroon")
	}

	var transportCreds credentials.TransportCredentials
	if opts.CertHex != "" {
		certBytes, err := hex.DecodeString(opts.CertHex)
		if err != nil {
			return nil, fmt.Errorf("failed to decode TLS cert hex: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(certBytes) {
			return nil, errors.New("failed to parse FLND TLS certificate")
		}
		transportCreds = credentials.NewClientTLSFromCert(pool, "")
	} else {
		transportCreds = insecure.NewCredentials()
	}

	conn, err := grpc.NewClient(opts.Address,
		grpc.WithTransportCredentials(transportCreds),
		grpc.WithPerRPCCredentials(macaroonCredential{
			macaroonHex: opts.MacaroonHex,
			requireTLS:  opts.CertHex != "",
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create FLND gRPC client: %w", err)
	}

	return &LNDWrapper{
		conn:   conn,
		client: lnrpc.NewLightningClient(conn),
	}, nil
}

func (wrapper *LNDWrapper) Close() error {
	return wrapper.conn.Close()
}

// GetInfo fetches node information.
func (wrapper *LNDWrapper) GetInfo(ctx context.Context, req *lnrpc.GetInfoRequest, options ...grpc.CallOption) (*lnrpc.GetInfoResponse, error) {
	return wrapper.client.GetInfo(ctx, req, options...)
}

// ListPeers lists the node's connected peers.
func (wrapper *LNDWrapper) ListPeers(ctx context.Context, req *lnrpc.ListPeersRequest, options ...grpc.CallOption) (*lnrpc.ListPeersResponse, error) {
	return wrapper.client.ListPeers(ctx, req, options...)
}

// SendCustomMessage sends a custom peer message.
func (wrapper *LNDWrapper) SendCustomMessage(ctx context.Context, req *lnrpc.SendCustomMessageRequest, options ...grpc.CallOption) (*lnrpc.SendCustomMessageResponse, error) {
	return wrapper.client.SendCustomMessage(ctx, req, options...)
}

// SubscribeCustomMessages subscribes to custom peer messages.
func (wrapper *LNDWrapper) SubscribeCustomMessages(ctx context.Context, req *lnrpc.SubscribeCustomMessagesRequest, options ...grpc.CallOption) (lnrpc.Lightning_SubscribeCustomMessagesClient, error) {
	return wrapper.client.SubscribeCustomMessages(ctx, req, options...)
}
