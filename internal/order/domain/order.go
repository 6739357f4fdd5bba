// Package domain 包含订单聚合的领域模型。
// 订单在结账瞬间物化，此后头部与条目均不可变；
// 条目复制购物车条目的价格快照，后续目录调价不影响历史订单。
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound   = errors.New("order not found")
	ErrAddressNotFound = errors.New("address not found")
)

// OrderStatus 订单状态
type OrderStatus string

const (
	// OrderStatusAccepted 结账成功后的初始状态；状态流转不在本服务范围内。
	OrderStatusAccepted OrderStatus = "ACCEPTED"
)

// Order 订单聚合根
type Order struct {
	ID          uint            `json:"id"`
	OrderID     string          `json:"order_id"`
	UserID      string          `json:"user_id"`
	OrderDate   time.Time       `json:"order_date"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Status      OrderStatus     `json:"status"`
	Payment     *Payment        `json:"payment,omitempty"`
	Address     *Address        `json:"address,omitempty"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
}

// OrderItem 结账时刻购物车条目的不可变快照
type OrderItem struct {
	ID                  uint            `json:"id"`
	OrderID             string          `json:"order_id"`
	ProductID           uint            `json:"product_id"`
	Quantity            int             `json:"quantity"`
	Discount            decimal.Decimal `json:"discount"`
	OrderedProductPrice decimal.Decimal `json:"ordered_product_price"`
}

// Payment 与订单一对一的支付记录。
// 网关握手（ready/approve/cancel）在上游完成，这里只保存确认结果。
type Payment struct {
	ID                uint   `json:"id"`
	PaymentID         string `json:"payment_id"`
	Method            string `json:"method"`
	PgName            string `json:"pg_name"`
	PgPaymentID       string `json:"pg_payment_id"`
	PgStatus          string `json:"pg_status"`
	PgResponseMessage string `json:"pg_response_message"`
}

// Address 收货地址，结账只读取不修改。
type Address struct {
	ID           uint   `json:"id"`
	Street       string `json:"street"`
	BuildingName string `json:"building_name"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Pincode      string `json:"pincode"`
}
