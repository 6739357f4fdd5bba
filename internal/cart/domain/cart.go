package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrCartNotFound     = errors.New("cart not found")
	ErrCartEmpty        = errors.New("cart is empty")
	ErrItemNotInCart    = errors.New("product not in cart")
	ErrExceedsStock     = errors.New("requested quantity exceeds available stock")
	ErrNegativeQuantity = errors.New("resulting quantity cannot be negative")
)

type Cart struct {
	gorm.Model
	UserID     string          `gorm:"column:user_id;type:varchar(36);uniqueIndex;not null"`
	TotalPrice decimal.Decimal `gorm:"column:total_price;type:decimal(14,2);not null;default:0"`
	Items      []CartItem      `gorm:"foreignKey:CartID"`
}

func (Cart) TableName() string { return "carts" }

// CartItem 持有加入购物车时刻的价格快照（ProductPrice/Discount），
// 之后商品调价不影响已在购物车中的条目。
type CartItem struct {
	gorm.Model
	CartID       uint            `gorm:"column:cart_id;index;not null"`
	ProductID    uint            `gorm:"column:product_id;index;not null"`
	Quantity     int             `gorm:"column:quantity;not null"`
	Discount     decimal.Decimal `gorm:"column:discount;type:decimal(5,2);not null;default:0"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:decimal(12,2);not null"`
}

func (CartItem) TableName() string { return "cart_items" }

func (c *Cart) FindItem(productID uint) *CartItem {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// AddItem 以给定的价格快照追加条目；条目已存在时只增加数量。
func (c *Cart) AddItem(productID uint, qty int, price, discount decimal.Decimal) {
	if item := c.FindItem(productID); item != nil {
		item.Quantity += qty
	} else {
		c.Items = append(c.Items, CartItem{
			ProductID:    productID,
			Quantity:     qty,
			Discount:     discount,
			ProductPrice: price,
		})
	}
	c.Recalculate()
}

func (c *Cart) RemoveItem(productID uint) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	c.Recalculate()
}

// Recalculate 以条目快照价重算 TotalPrice。
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.ProductPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	c.TotalPrice = total
}
