package application

import (
	"context"
	"errors"
	"fmt"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"
)

// CartApplicationService 购物车应用服务。
// 加购时从商品目录取当前售价做快照，之后目录调价不影响购物车。
type CartApplicationService struct {
	carts    cartdomain.CartRepository
	products catalogdomain.ProductRepository
}

func NewCartApplicationService(carts cartdomain.CartRepository, products catalogdomain.ProductRepository) *CartApplicationService {
	return &CartApplicationService{carts: carts, products: products}
}

func (s *CartApplicationService) GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &cartdomain.Cart{UserID: userID}, nil
	}
	return cart, err
}

// AddProduct 把商品加入购物车。
// 条目已存在时数量 +1；新条目使用请求数量（最小为 1）。
func (s *CartApplicationService) AddProduct(ctx context.Context, userID string, productID uint, qty int) (*cartdomain.Cart, error) {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Quantity == 0 {
		return nil, fmt.Errorf("%s is not available: %w", product.Name, cartdomain.ErrExceedsStock)
	}

	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cart = &cartdomain.Cart{UserID: userID}
	}

	if item := cart.FindItem(productID); item != nil {
		if !product.InStock(item.Quantity + 1) {
			return nil, fmt.Errorf("only %d of %s in stock: %w", product.Quantity, product.Name, cartdomain.ErrExceedsStock)
		}
		cart.AddItem(productID, 1, item.ProductPrice, item.Discount)
	} else {
		if qty < 1 {
			qty = 1
		}
		if !product.InStock(qty) {
			return nil, fmt.Errorf("only %d of %s in stock: %w", product.Quantity, product.Name, cartdomain.ErrExceedsStock)
		}
		cart.AddItem(productID, qty, product.SpecialPrice, product.Discount)
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		logging.Error(ctx, "cart.add_product failed", "user_id", userID, "product_id", productID, "error", err)
		return nil, err
	}
	return cart, nil
}

// UpdateQuantity 按增量调整条目数量；结果为 0 时移除条目，为负时拒绝。
func (s *CartApplicationService) UpdateQuantity(ctx context.Context, userID string, productID uint, delta int) (*cartdomain.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cartdomain.ErrCartNotFound
		}
		return nil, err
	}

	item := cart.FindItem(productID)
	if item == nil {
		return nil, cartdomain.ErrItemNotInCart
	}

	newQty := item.Quantity + delta
	if newQty < 0 {
		return nil, fmt.Errorf("cannot remove %d of %d in cart: %w", -delta, item.Quantity, cartdomain.ErrNegativeQuantity)
	}
	if newQty == 0 {
		return s.RemoveProduct(ctx, userID, productID)
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.InStock(newQty) {
		return nil, fmt.Errorf("only %d of %s in stock: %w", product.Quantity, product.Name, cartdomain.ErrExceedsStock)
	}

	item.Quantity = newQty
	cart.Recalculate()
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *CartApplicationService) RemoveProduct(ctx context.Context, userID string, productID uint) (*cartdomain.Cart, error) {
	cart, err := s.carts.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, cartdomain.ErrCartNotFound
		}
		return nil, err
	}
	if cart.FindItem(productID) == nil {
		return nil, cartdomain.ErrItemNotInCart
	}
	if err := s.carts.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	cart.RemoveItem(productID)
	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}
