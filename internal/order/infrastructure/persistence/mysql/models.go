package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"gorm.io/gorm"
)

// OrderModel 订单头数据库模型，映射 orders 表。
type OrderModel struct {
	gorm.Model
	OrderID     string    `gorm:"column:order_id;type:varchar(32);uniqueIndex;not null"`
	UserID      string    `gorm:"column:user_id;type:varchar(36);index;not null"`
	OrderDate   time.Time `gorm:"column:order_date;type:date;index;not null"`
	TotalAmount string    `gorm:"column:total_amount;type:decimal(14,2);not null"`
	Status      string    `gorm:"column:status;type:varchar(20);not null"`
	AddressID   uint      `gorm:"column:address_id;not null"`
	PaymentID   string    `gorm:"column:payment_id;type:varchar(32);not null"`
}

func (OrderModel) TableName() string { return "orders" }

// OrderItemModel 订单条目数据库模型，映射 order_items 表。
type OrderItemModel struct {
	gorm.Model
	OrderID             string `gorm:"column:order_id;type:varchar(32);index;not null"`
	ProductID           uint   `gorm:"column:product_id;index;not null"`
	Quantity            int    `gorm:"column:quantity;not null"`
	Discount            string `gorm:"column:discount;type:decimal(5,2);not null;default:0"`
	OrderedProductPrice string `gorm:"column:ordered_product_price;type:decimal(12,2);not null"`
}

func (OrderItemModel) TableName() string { return "order_items" }

// PaymentModel 支付记录数据库模型，映射 payments 表。
type PaymentModel struct {
	gorm.Model
	PaymentID         string `gorm:"column:payment_id;type:varchar(32);uniqueIndex;not null"`
	Method            string `gorm:"column:method;type:varchar(50);not null"`
	PgName            string `gorm:"column:pg_name;type:varchar(50)"`
	PgPaymentID       string `gorm:"column:pg_payment_id;type:varchar(100)"`
	PgStatus          string `gorm:"column:pg_status;type:varchar(30)"`
	PgResponseMessage string `gorm:"column:pg_response_message;type:varchar(255)"`
}

func (PaymentModel) TableName() string { return "payments" }

// AddressModel 地址数据库模型，映射 addresses 表。
type AddressModel struct {
	gorm.Model
	Street       string `gorm:"column:street;type:varchar(255);not null"`
	BuildingName string `gorm:"column:building_name;type:varchar(255)"`
	City         string `gorm:"column:city;type:varchar(100);not null"`
	State        string `gorm:"column:state;type:varchar(100)"`
	Country      string `gorm:"column:country;type:varchar(100);not null"`
	Pincode      string `gorm:"column:pincode;type:varchar(20)"`
}

func (AddressModel) TableName() string { return "addresses" }

func toOrderModel(o *domain.Order) *OrderModel {
	m := &OrderModel{
		OrderID:     o.OrderID,
		UserID:      o.UserID,
		OrderDate:   o.OrderDate,
		TotalAmount: o.TotalAmount.StringFixed(2),
		Status:      string(o.Status),
		AddressID:   addressID(o),
	}
	m.ID = o.ID
	if o.Payment != nil {
		m.PaymentID = o.Payment.PaymentID
	}
	return m
}

func addressID(o *domain.Order) uint {
	if o.Address == nil {
		return 0
	}
	return o.Address.ID
}

func toOrderDomain(m *OrderModel) *domain.Order {
	total, _ := decimal.NewFromString(m.TotalAmount)
	return &domain.Order{
		ID:          m.ID,
		OrderID:     m.OrderID,
		UserID:      m.UserID,
		OrderDate:   m.OrderDate,
		TotalAmount: total,
		Status:      domain.OrderStatus(m.Status),
		CreatedAt:   m.CreatedAt,
	}
}

func toItemModels(items []domain.OrderItem) []OrderItemModel {
	models := make([]OrderItemModel, 0, len(items))
	for _, item := range items {
		models = append(models, OrderItemModel{
			OrderID:             item.OrderID,
			ProductID:           item.ProductID,
			Quantity:            item.Quantity,
			Discount:            item.Discount.StringFixed(2),
			OrderedProductPrice: item.OrderedProductPrice.StringFixed(2),
		})
	}
	return models
}

func toItemDomain(m *OrderItemModel) domain.OrderItem {
	discount, _ := decimal.NewFromString(m.Discount)
	price, _ := decimal.NewFromString(m.OrderedProductPrice)
	return domain.OrderItem{
		ID:                  m.ID,
		OrderID:             m.OrderID,
		ProductID:           m.ProductID,
		Quantity:            m.Quantity,
		Discount:            discount,
		OrderedProductPrice: price,
	}
}

func toPaymentDomain(m *PaymentModel) *domain.Payment {
	return &domain.Payment{
		ID:                m.ID,
		PaymentID:         m.PaymentID,
		Method:            m.Method,
		PgName:            m.PgName,
		PgPaymentID:       m.PgPaymentID,
		PgStatus:          m.PgStatus,
		PgResponseMessage: m.PgResponseMessage,
	}
}

func toAddressDomain(m *AddressModel) *domain.Address {
	return &domain.Address{
		ID:           m.ID,
		Street:       m.Street,
		BuildingName: m.BuildingName,
		City:         m.City,
		State:        m.State,
		Country:      m.Country,
		Pincode:      m.Pincode,
	}
}
