package domain

import "context"

// ProductRepository 商品仓储接口
type ProductRepository interface {
	Save(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, category string, offset, limit int) ([]*Product, int64, error)
	// DecrementStock 原子扣减库存：仅当剩余库存足够时才执行，
	// 否则返回 ErrInsufficientStock。
	DecrementStock(ctx context.Context, id uint, qty int) error
}
