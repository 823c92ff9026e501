// Package lsps1 implements the service side of the LSPS1 channel-purchase
// protocol: clients request pricing, submit channel orders, pay out of band
// and poll order status until the channel is provisioned.
package lsps1

import (
	"time"
)

const (
	MethodGetInfo     = "lsps1.get_info"
	MethodCreateOrder = "lsps1.create_order"
	MethodGetOrder    = "lsps1.get_order"
)

// CreateOrderErrCodeOrderMismatch is returned when a submitted order does
// not match the options advertised by the LSP.
const CreateOrderErrCodeOrderMismatch = 1000

// Externally reported order states.
const (
	OrderStateCreated   = "CREATED"
	OrderStateCompleted = "COMPLETED"
	OrderStateFailed    = "FAILED"
)

// GetInfoRequest requests supported options from the LSP
type GetInfoRequest struct{}

// Options represents the option ranges supported by the LSP
type Options struct {
	MinRequiredChannelConfirmations uint16 `json:"min_required_channel_confirmations"`
	MinFundingConfirmsWithinBlocks  uint16 `json:"min_funding_confirms_within_blocks"`
	SupportsZeroChannelReserve      bool   `json:"supports_zero_channel_reserve"`
	MaxChannelExpiryBlocks          uint32 `json:"max_channel_expiry_blocks"`
	MinInitialClientBalanceLoki     uint64 `json:"min_initial_client_balance_loki,string"`
	MaxInitialClientBalanceLoki     uint64 `json:"max_initial_client_balance_loki,string"`
	MinInitialLspBalanceLoki        uint64 `json:"min_initial_lsp_balance_loki,string"`
	MaxInitialLspBalanceLoki        uint64 `json:"max_initial_lsp_balance_loki,string"`
	MinChannelBalanceLoki           uint64 `json:"min_channel_balance_loki,string"`
	MaxChannelBalanceLoki           uint64 `json:"max_channel_balance_loki,string"`
}

// GetInfoResponse advertises the LSP's website and supported options
type GetInfoResponse struct {
	Website string `json:"website"`
	Options
}

// CreateOrderRequest requests to create a channel order
type CreateOrderRequest struct {
	Order                OrderParams `json:"order"`
	RefundOnchainAddress *string     `json:"refund_onchain_address,omitempty"`
}

// OrderParams represents channel order parameters, immutable once submitted
type OrderParams struct {
	LspBalanceLoki               uint64  `json:"lsp_balance_loki,string"`
	ClientBalanceLoki            uint64  `json:"client_balance_loki,string"`
	RequiredChannelConfirmations uint16  `json:"required_channel_confirmations"`
	FundingConfirmsWithinBlocks  uint16  `json:"funding_confirms_within_blocks"`
	ChannelExpiryBlocks          uint32  `json:"channel_expiry_blocks"`
	Token                        *string `json:"token,omitempty"`
	AnnounceChannel              bool    `json:"announce_channel"`
}

// CreateOrderResponse contains order details and payment info. The same
// shape answers get_order polls with an updated state and channel.
type CreateOrderResponse struct {
	OrderID    string       `json:"order_id"`
	Order      OrderParams  `json:"order"`
	OrderState string       `json:"order_state"`
	CreatedAt  time.Time    `json:"created_at"`
	ExpiresAt  time.Time    `json:"expires_at"`
	Payment    PaymentInfo  `json:"payment"`
	Channel    *ChannelInfo `json:"channel,omitempty"`
}

type PaymentInfo struct {
	Bolt11  *Bolt11PaymentInfo  `json:"bolt11,omitempty"`
	Onchain *OnchainPaymentInfo `json:"onchain,omitempty"`
}

type Bolt11PaymentInfo struct {
	State          string    `json:"state"`
	ExpiresAt      time.Time `json:"expires_at"`
	FeeTotalLoki   uint64    `json:"fee_total_loki,string"`
	OrderTotalLoki uint64    `json:"order_total_loki,string"`
	Invoice        string    `json:"invoice"`
}

type OnchainPaymentInfo struct {
	State                          string    `json:"state"`
	ExpiresAt                      time.Time `json:"expires_at"`
	FeeTotalLoki                   uint64    `json:"fee_total_loki,string"`
	OrderTotalLoki                 uint64    `json:"order_total_loki,string"`
	Address                        string    `json:"address"`
	MinOnchainPaymentConfirmations *uint16   `json:"min_onchain_payment_confirmations,omitempty"`
	MinFeeFor0Conf                 uint32    `json:"min_fee_for_0conf"`
	RefundOnchainAddress           *string   `json:"refund_onchain_address,omitempty"`
}

type ChannelInfo struct {
	FundedAt        time.Time `json:"funded_at"`
	FundingOutpoint string    `json:"funding_outpoint"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// GetOrderRequest requests details of an existing order
type GetOrderRequest struct {
	OrderID string `json:"order_id"`
}
