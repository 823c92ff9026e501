package lnd

import (
	"context"
	"errors"
	"time"

	"github.com/flokiorg/flnd/lnrpc"
	"github.com/rs/zerolog"

	"github.com/flokiorg/lokilsp/lnclient"
	"github.com/flokiorg/lokilsp/lnclient/lnd/wrapper"
	"github.com/flokiorg/lokilsp/logger"
)

// LNDService implements lnclient.LNClient against an FLND node.
type LNDService struct {
	client   *wrapper.LNDWrapper
	nodeInfo *lnclient.NodeInfo
	cancel   context.CancelFunc
	ctx      context.Context
	logger   zerolog.Logger
}

func NewLNDService(ctx context.Context, lndAddress, lndCertHex, lndMacaroonHex string) (lnclient.LNClient, error) {
	if lndAddress == "" || lndMacaroonHex == "" {
		return nil, errors.New("one or more required FLND configuration are missing")
	}

	lndClient, err := wrapper.NewLNDclient(wrapper.LNDoptions{
		Address:     lndAddress,
		CertHex:     lndCertHex,
		MacaroonHex: lndMacaroonHex,
	})
	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to create new FLND client")
		return nil, err
	}

	var nodeInfo *lnclient.NodeInfo
	maxRetries := 5
	for i := range maxRetries {
		nodeInfo, err = fetchNodeInfo(ctx, lndClient)
		if err == nil {
			break
		}
		logger.Logger.Error().Err(err).
			Int("iteration", i).
			Msg("Failed to connect to FLND, retrying in 2s")

		select {
		case <-time.After(2 * time.Second):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to connect to FLND on final attempt, not attempting further retries")
		return nil, err
	}

	lndCtx, cancel := context.WithCancel(ctx)

	lndService := &LNDService{
		client:   lndClient,
		nodeInfo: nodeInfo,
		cancel:   cancel,
		ctx:      lndCtx,
		logger:   logger.Logger.With().Str("backend", "FLND").Logger(),
	}

	logger.Logger.Info().Str("alias", nodeInfo.Alias).Msg("Connected to FLND")

	return lndService, nil
}

func fetchNodeInfo(ctx context.Context, client *wrapper.LNDWrapper) (*lnclient.NodeInfo, error) {
	resp, err := client.GetInfo(ctx, &lnrpc.GetInfoRequest{})
	if err != nil {
		return nil, err
	}
	network := resp.Chains[0].Network
	if network == "mainnet" {
		network = "bitcoin"
	}
	return &lnclient.NodeInfo{
		Alias:       resp.Alias,
		Color:       resp.Color,
		Pubkey:      resp.IdentityPubkey,
		Network:     network,
		BlockHeight: resp.BlockHeight,
		BlockHash:   resp.BlockHash,
	}, nil
}

func (svc *LNDService) GetInfo(ctx context.Context) (*lnclient.NodeInfo, error) {
	return svc.nodeInfo, nil
}

func (svc *LNDService) GetPubkey() string {
	return svc.nodeInfo.Pubkey
}

func (svc *LNDService) ListPeers(ctx context.Context) ([]lnclient.PeerDetails, error) {
	resp, err := svc.client.ListPeers(ctx, &lnrpc.ListPeersRequest{})
	if err != nil {
		return nil, err
	}
	peers := make([]lnclient.PeerDetails, 0, len(resp.Peers))
	for _, peer := range resp.Peers {
		peers = append(peers, lnclient.PeerDetails{
			NodeId:      peer.PubKey,
			Address:     peer.Address,
			IsPersisted: true,
			IsConnected: true,
		})
	}
	return peers, nil
}

func (svc *LNDService) Shutdown() error {
	svc.cancel()
	return svc.client.Close()
}
