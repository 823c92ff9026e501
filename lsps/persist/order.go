package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/flokiorg/lokilsp/lsps/lsps1"
)

// OrderStore archives LSPS1 orders to the database.
type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

// SaveOrder records a freshly created order.
func (s *OrderStore) SaveOrder(orderID, peerPubkey string, order lsps1.OrderParams, payment lsps1.PaymentInfo, createdAt, expiresAt time.Time) error {
	params, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("failed to marshal order params: %w", err)
	}

	row := &LSPS1Order{
		OrderID:    orderID,
		PeerPubkey: peerPubkey,
		State:      lsps1.OrderStateCreated,
		Params:     params,
		CreatedAt:  createdAt,
		ExpiresAt:  expiresAt,
	}
	if payment.Bolt11 != nil {
		row.PaymentInvoice = payment.Bolt11.Invoice
		row.FeeTotal = payment.Bolt11.FeeTotalLoki
		row.OrderTotal = payment.Bolt11.OrderTotalLoki
	}

	return s.db.Create(row).Error
}

// UpdateOrderState updates the reported state (and funded channel, once
// known) of an archived order.
func (s *OrderStore) UpdateOrderState(orderID, state string, channel *lsps1.ChannelInfo) error {
	updates := map[string]interface{}{"state": state}
	if channel != nil {
		updates["channel_outpoint"] = channel.FundingOutpoint
	}

	result := s.db.Model(&LSPS1Order{}).Where("order_id = ?", orderID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no archived order with id %s", orderID)
	}
	return nil
}

// ListOrders returns archived orders, newest first.
func (s *OrderStore) ListOrders(limit int) ([]LSPS1Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var orders []LSPS1Order
	err := s.db.Order("created_at desc").Limit(limit).Find(&orders).Error
	return orders, err
}

// GetOrder returns a single archived order.
func (s *OrderStore) GetOrder(orderID string) (*LSPS1Order, error) {
	var order LSPS1Order
	if err := s.db.First(&order, "order_id = ?", orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}
