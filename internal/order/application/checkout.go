package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	pointsapp "github.com/wyfcoding/ecommerce/internal/points/application"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/idgen"
	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"
)

// PlaceOrderCommand 结账命令。支付网关握手已在上游完成，
// 这里收到的是经过校验的确认记录。
type PlaceOrderCommand struct {
	UserID            string
	AddressID         uint
	PaymentMethod     string
	PgName            string
	PgPaymentID       string
	PgStatus          string
	PgResponseMessage string
	PointsToUse       int64
}

// StockAdjuster 库存扣减接口（由商品目录仓储实现）
type StockAdjuster interface {
	DecrementStock(ctx context.Context, id uint, qty int) error
}

// PointsSettler 积分结算接口
type PointsSettler interface {
	Preview(ctx context.Context, userID string, cartTotal, requestedUse int64) (pointsapp.PreviewResult, error)
	SettleAfterOrder(ctx context.Context, userID string, cartTotal, requestedUse int64, orderID string) error
}

// CheckoutCommandService 结账工作流。
// 购物车、库存、支付记录、积分账本在一个数据库事务内一起变更：
// 任何一步失败都会回滚本次调用的全部写入。
type CheckoutCommandService struct {
	carts     cartdomain.CartRepository
	orders    domain.OrderRepository
	payments  domain.PaymentRepository
	addresses domain.AddressRepository
	stock     StockAdjuster
	points    PointsSettler
	publisher domain.EventPublisher
}

func NewCheckoutCommandService(
	carts cartdomain.CartRepository,
	orders domain.OrderRepository,
	payments domain.PaymentRepository,
	addresses domain.AddressRepository,
	stock StockAdjuster,
	points PointsSettler,
	publisher domain.EventPublisher,
) *CheckoutCommandService {
	return &CheckoutCommandService{
		carts:     carts,
		orders:    orders,
		payments:  payments,
		addresses: addresses,
		stock:     stock,
		points:    points,
		publisher: publisher,
	}
}

// PlaceOrder 把当前购物车转成订单。
// 步骤严格按序执行；空购物车在任何库存或账本变更之前就会使事务失败。
func (s *CheckoutCommandService) PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*domain.Order, error) {
	var placed *domain.Order

	err := s.orders.WithTx(ctx, func(txCtx context.Context) error {
		cart, err := s.carts.GetByUserID(txCtx, cmd.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return cartdomain.ErrCartNotFound
			}
			return err
		}

		cartTotal := cart.TotalPrice.Round(0).IntPart()

		// 试算仅供参考，权威拆分在结算时重新计算
		if _, err := s.points.Preview(txCtx, cmd.UserID, cartTotal, cmd.PointsToUse); err != nil {
			return err
		}

		address, err := s.addresses.GetByID(txCtx, cmd.AddressID)
		if err != nil {
			return err
		}

		payment := &domain.Payment{
			PaymentID:         fmt.Sprintf("PAY-%d", idgen.GenID()),
			Method:            cmd.PaymentMethod,
			PgName:            cmd.PgName,
			PgPaymentID:       cmd.PgPaymentID,
			PgStatus:          cmd.PgStatus,
			PgResponseMessage: cmd.PgResponseMessage,
		}
		if err := s.payments.Save(txCtx, payment); err != nil {
			return err
		}

		orderID := fmt.Sprintf("ORD-%d", idgen.GenID())
		order := assembleOrder(orderID, cart, address, payment, time.Now())
		if err := s.orders.Save(txCtx, order); err != nil {
			return err
		}

		if len(cart.Items) == 0 {
			return cartdomain.ErrCartEmpty
		}

		items := assembleItems(orderID, cart)
		if err := s.orders.SaveItems(txCtx, items); err != nil {
			return err
		}
		order.Items = items

		if err := s.points.SettleAfterOrder(txCtx, cmd.UserID, cartTotal, cmd.PointsToUse, orderID); err != nil {
			return err
		}

		for _, item := range cart.Items {
			if err := s.stock.DecrementStock(txCtx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			if err := s.carts.RemoveItem(txCtx, cart.ID, item.ProductID); err != nil {
				return err
			}
		}
		if err := s.carts.ClearItems(txCtx, cart.ID); err != nil {
			return err
		}

		event := domain.OrderPlacedEvent{
			OrderID:     orderID,
			UserID:      cmd.UserID,
			TotalAmount: order.TotalAmount.StringFixed(2),
			ItemCount:   len(items),
			Timestamp:   time.Now(),
		}
		if err := s.publisher.PublishInTx(ctx, contextx.GetTx(txCtx), domain.OrderPlacedEventType, orderID, event); err != nil {
			return err
		}

		placed = order
		return nil
	})

	if err != nil {
		logging.Error(ctx, "checkout.place_order failed", "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	return placed, nil
}
