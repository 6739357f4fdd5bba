package domain

import "context"

// CartRepository 购物车仓储接口
type CartRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	// RemoveItem 删除购物车中的单个条目
	RemoveItem(ctx context.Context, cartID, productID uint) error
	// ClearItems 删除购物车全部条目并把总价归零
	ClearItems(ctx context.Context, cartID uint) error
}
