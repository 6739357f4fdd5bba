package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

type Product struct {
	gorm.Model
	Name         string          `gorm:"column:name;type:varchar(255);not null"`
	Image        string          `gorm:"column:image;type:varchar(255)"`
	Description  string          `gorm:"column:description;type:text"`
	Quantity     int             `gorm:"column:quantity;not null;default:0"`
	Price        decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Discount     decimal.Decimal `gorm:"column:discount;type:decimal(5,2);not null;default:0"`
	SpecialPrice decimal.Decimal `gorm:"column:special_price;type:decimal(12,2);not null"`
	Category     string          `gorm:"column:category;type:varchar(100);index"`
}

func (Product) TableName() string { return "products" }

// InStock 判断库存是否能满足给定数量
func (p *Product) InStock(qty int) bool {
	return p.Quantity >= qty
}
