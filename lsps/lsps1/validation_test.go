package lsps1

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testOptions() *Options {
	return &Options{
		MinRequiredChannelConfirmations: 1,
		MinFundingConfirmsWithinBlocks:  6,
		MaxChannelExpiryBlocks:          12960,
		MinInitialClientBalanceLoki:     0,
		MaxInitialClientBalanceLoki:     100_000,
		MinInitialLspBalanceLoki:        10_000,
		MaxInitialLspBalanceLoki:        10_000_000,
		MinChannelBalanceLoki:           20_000,
		MaxChannelBalanceLoki:           10_000_000,
	}
}

func validOrder() OrderParams {
	return OrderParams{
		LspBalanceLoki:               100_000,
		ClientBalanceLoki:            10_000,
		RequiredChannelConfirmations: 1,
		FundingConfirmsWithinBlocks:  6,
		ChannelExpiryBlocks:          144,
		AnnounceChannel:              true,
	}
}

func TestIsValid(t *testing.T) {
	opts := testOptions()

	order := validOrder()
	assert.True(t, isValid(&order, opts))

	tests := []struct {
		name   string
		mutate func(*OrderParams)
	}{
		{"lsp balance below min", func(o *OrderParams) { o.LspBalanceLoki = 5_000 }},
		{"lsp balance above max", func(o *OrderParams) { o.LspBalanceLoki = 20_000_000 }},
		{"client balance above max", func(o *OrderParams) { o.ClientBalanceLoki = 200_000 }},
		{"channel balance below min", func(o *OrderParams) {
			o.LspBalanceLoki = 10_000
			o.ClientBalanceLoki = 0
		}},
		{"confirmations below min", func(o *OrderParams) { o.RequiredChannelConfirmations = 0 }},
		{"funding confirms below min", func(o *OrderParams) { o.FundingConfirmsWithinBlocks = 1 }},
		{"expiry above max", func(o *OrderParams) { o.ChannelExpiryBlocks = 100_000 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order := validOrder()
			tt.mutate(&order)
			assert.False(t, isValid(&order, opts))
		})
	}
}

func TestIsValid_BothBoundsInclusive(t *testing.T) {
	opts := testOptions()

	order := validOrder()
	order.LspBalanceLoki = opts.MinInitialLspBalanceLoki
	order.ClientBalanceLoki = opts.MinChannelBalanceLoki - opts.MinInitialLspBalanceLoki
	assert.True(t, isValid(&order, opts))

	order = validOrder()
	order.LspBalanceLoki = opts.MaxInitialLspBalanceLoki
	order.ClientBalanceLoki = 0
	assert.True(t, isValid(&order, opts))
}
