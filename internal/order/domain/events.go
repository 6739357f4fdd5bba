package domain

import "time"

const OrderPlacedEventType = "order.placed"

// OrderPlacedEvent 订单落库后的集成事件（经 Outbox 与订单同事务写出）
type OrderPlacedEvent struct {
	OrderID     string    `json:"order_id"`
	UserID      string    `json:"user_id"`
	TotalAmount string    `json:"total_amount"`
	ItemCount   int       `json:"item_count"`
	Timestamp   time.Time `json:"timestamp"`
}
