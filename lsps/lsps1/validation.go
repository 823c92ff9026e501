package lsps1

// isValid reports whether a requested order fits within the advertised
// option ranges. Pure check, no side effects.
func isValid(order *OrderParams, options *Options) bool {
	if order.LspBalanceLoki < options.MinInitialLspBalanceLoki ||
		order.LspBalanceLoki > options.MaxInitialLspBalanceLoki {
		return false
	}
	if order.ClientBalanceLoki < options.MinInitialClientBalanceLoki ||
		order.ClientBalanceLoki > options.MaxInitialClientBalanceLoki {
		return false
	}

	channelBalance := order.LspBalanceLoki + order.ClientBalanceLoki
	if channelBalance < options.MinChannelBalanceLoki ||
		channelBalance > options.MaxChannelBalanceLoki {
		return false
	}

	if order.RequiredChannelConfirmations < options.MinRequiredChannelConfirmations {
		return false
	}
	if order.FundingConfirmsWithinBlocks < options.MinFundingConfirmsWithinBlocks {
		return false
	}
	if order.ChannelExpiryBlocks > options.MaxChannelExpiryBlocks {
		return false
	}

	return true
}
