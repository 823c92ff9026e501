package persist

import (
	"time"

	"gorm.io/datatypes"
)

// LSPS1Order is the archive row written for every order the service accepts.
// Bookkeeping only: the in-memory handler state stays authoritative and no
// state is recovered from here on restart.
type LSPS1Order struct {
	OrderID         string         `gorm:"primaryKey" json:"order_id"`
	PeerPubkey      string         `gorm:"index" json:"peer_pubkey"`
	State           string         `json:"state"` // CREATED, COMPLETED, FAILED
	Params          datatypes.JSON `json:"params"`
	PaymentInvoice  string         `json:"payment_invoice"`
	FeeTotal        uint64         `json:"fee_total"`
	OrderTotal      uint64         `json:"order_total"`
	ChannelOutpoint string         `json:"channel_outpoint"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	ExpiresAt       time.Time      `json:"expires_at"`
}

// TableName overrides the table name to 'lsps1_orders'
func (LSPS1Order) TableName() string {
	return "lsps1_orders"
}
