package mysql

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/pkg/contextx"
	"gorm.io/gorm"
)

type cartRepository struct{ db *gorm.DB }

func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *cartRepository) GetByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.getDB(ctx).WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	err := r.getDB(ctx).WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Save(cart).Error
	if err != nil {
		return fmt.Errorf("failed to save cart: %w", err)
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, productID uint) error {
	err := r.getDB(ctx).WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&domain.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) ClearItems(ctx context.Context, cartID uint) error {
	db := r.getDB(ctx).WithContext(ctx)
	if err := db.Where("cart_id = ?", cartID).Delete(&domain.CartItem{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart items: %w", err)
	}
	err := db.Model(&domain.Cart{}).Where("id = ?", cartID).
		Update("total_price", decimal.Zero).Error
	if err != nil {
		return fmt.Errorf("failed to reset cart total: %w", err)
	}
	return nil
}
