package application

import (
	"time"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
)

// assembleOrder 由购物车快照、地址与支付记录组装订单头。
// 纯转换，不落库；TotalAmount 取结账瞬间的购物车总价。
func assembleOrder(orderID string, cart *cartdomain.Cart, address *domain.Address, payment *domain.Payment, now time.Time) *domain.Order {
	return &domain.Order{
		OrderID:     orderID,
		UserID:      cart.UserID,
		OrderDate:   now,
		TotalAmount: cart.TotalPrice,
		Status:      domain.OrderStatusAccepted,
		Payment:     payment,
		Address:     address,
	}
}

// assembleItems 把每个购物车条目转成订单条目快照：
// 复制（而非引用）数量、折扣与加购时的价格。
func assembleItems(orderID string, cart *cartdomain.Cart) []domain.OrderItem {
	items := make([]domain.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		items = append(items, domain.OrderItem{
			OrderID:             orderID,
			ProductID:           ci.ProductID,
			Quantity:            ci.Quantity,
			Discount:            ci.Discount,
			OrderedProductPrice: ci.ProductPrice,
		})
	}
	return items
}
