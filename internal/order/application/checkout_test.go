package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	pointsapp "github.com/wyfcoding/ecommerce/internal/points/application"
	pointsdomain "github.com/wyfcoding/ecommerce/internal/points/domain"
	"gorm.io/gorm"
)

type fakeCartRepo struct {
	cart         *cartdomain.Cart
	removedItems []uint
	cleared      bool
}

func (f *fakeCartRepo) GetByUserID(_ context.Context, userID string) (*cartdomain.Cart, error) {
	if f.cart == nil || f.cart.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return f.cart, nil
}

func (f *fakeCartRepo) Save(_ context.Context, _ *cartdomain.Cart) error { return nil }

func (f *fakeCartRepo) RemoveItem(_ context.Context, _, productID uint) error {
	f.removedItems = append(f.removedItems, productID)
	return nil
}

func (f *fakeCartRepo) ClearItems(_ context.Context, _ uint) error {
	f.cleared = true
	return nil
}

type fakeOrderRepo struct {
	saved      *domain.Order
	savedItems []domain.OrderItem
}

func (f *fakeOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (f *fakeOrderRepo) Save(_ context.Context, order *domain.Order) error {
	f.saved = order
	return nil
}

func (f *fakeOrderRepo) SaveItems(_ context.Context, items []domain.OrderItem) error {
	f.savedItems = items
	return nil
}

func (f *fakeOrderRepo) Get(_ context.Context, _ string) (*domain.Order, error) {
	return f.saved, nil
}

func (f *fakeOrderRepo) PageIDs(_ context.Context, _ domain.HistoryFilter, _ domain.PageRequest) ([]string, error) {
	return nil, nil
}

func (f *fakeOrderRepo) CountByFilter(_ context.Context, _ domain.HistoryFilter) (int64, error) {
	return 0, nil
}

func (f *fakeOrderRepo) FindByIDs(_ context.Context, _ []string, _ []domain.SortOrder) ([]*domain.Order, error) {
	return nil, nil
}

type fakePaymentRepo struct {
	saved *domain.Payment
}

func (f *fakePaymentRepo) Save(_ context.Context, payment *domain.Payment) error {
	f.saved = payment
	return nil
}

type fakeAddressRepo struct {
	address *domain.Address
}

func (f *fakeAddressRepo) GetByID(_ context.Context, id uint) (*domain.Address, error) {
	if f.address == nil || f.address.ID != id {
		return nil, domain.ErrAddressNotFound
	}
	return f.address, nil
}

func (f *fakeAddressRepo) Save(_ context.Context, _ *domain.Address) error { return nil }

type fakeStock struct {
	levels     map[uint]int
	decrements map[uint]int
}

func (f *fakeStock) DecrementStock(_ context.Context, id uint, qty int) error {
	have, ok := f.levels[id]
	if !ok {
		return catalogdomain.ErrProductNotFound
	}
	if have < qty {
		return catalogdomain.ErrInsufficientStock
	}
	f.levels[id] = have - qty
	if f.decrements == nil {
		f.decrements = map[uint]int{}
	}
	f.decrements[id] += qty
	return nil
}

type fakeLedger struct {
	entries []*pointsdomain.PointTransaction
}

func (f *fakeLedger) Append(_ context.Context, tx *pointsdomain.PointTransaction) error {
	f.entries = append(f.entries, tx)
	return nil
}

func (f *fakeLedger) SumByType(_ context.Context, userID string, typ pointsdomain.TransactionType) (int64, error) {
	var sum int64
	for _, e := range f.entries {
		if e.UserID == userID && e.Type == typ {
			sum += e.Amount
		}
	}
	return sum, nil
}

type fakePublisher struct {
	topic string
	key   string
	event any
}

func (f *fakePublisher) Publish(_ context.Context, topic, key string, event any) error {
	f.topic, f.key, f.event = topic, key, event
	return nil
}

func (f *fakePublisher) PublishInTx(_ context.Context, _ any, topic, key string, event any) error {
	f.topic, f.key, f.event = topic, key, event
	return nil
}

type checkoutFixture struct {
	carts     *fakeCartRepo
	orders    *fakeOrderRepo
	payments  *fakePaymentRepo
	addresses *fakeAddressRepo
	stock     *fakeStock
	ledger    *fakeLedger
	publisher *fakePublisher
	svc       *CheckoutCommandService
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		carts:     &fakeCartRepo{},
		orders:    &fakeOrderRepo{},
		payments:  &fakePaymentRepo{},
		addresses: &fakeAddressRepo{address: &domain.Address{ID: 7, Street: "5 Main St", City: "Pune", Country: "IN"}},
		stock:     &fakeStock{levels: map[uint]int{}},
		ledger:    &fakeLedger{},
		publisher: &fakePublisher{},
	}
	f.svc = NewCheckoutCommandService(
		f.carts, f.orders, f.payments, f.addresses,
		f.stock, pointsapp.NewPointsService(f.ledger), f.publisher,
	)
	return f
}

func (f *checkoutFixture) withCart(userID string, total int64, items ...cartdomain.CartItem) {
	f.carts.cart = &cartdomain.Cart{
		UserID:     userID,
		TotalPrice: decimal.NewFromInt(total),
		Items:      items,
	}
	f.carts.cart.ID = 1
}

func (f *checkoutFixture) seedPoints(userID string, balance int64) {
	f.ledger.entries = append(f.ledger.entries, &pointsdomain.PointTransaction{
		UserID: userID,
		Type:   pointsdomain.TypeEarn,
		Amount: balance,
	})
}

func baseCommand() PlaceOrderCommand {
	return PlaceOrderCommand{
		UserID:        "u1",
		AddressID:     7,
		PaymentMethod: "card",
		PgName:        "stripe",
		PgPaymentID:   "pi_123",
		PgStatus:      "succeeded",
		PointsToUse:   1500,
	}
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path settles everything in one pass", func(t *testing.T) {
		f := newCheckoutFixture()
		f.withCart("u1", 10000,
			cartdomain.CartItem{ProductID: 11, Quantity: 2, ProductPrice: decimal.NewFromInt(3000)},
			cartdomain.CartItem{ProductID: 12, Quantity: 1, ProductPrice: decimal.NewFromInt(4000)},
		)
		f.seedPoints("u1", 2000)
		f.stock.levels = map[uint]int{11: 5, 12: 3}

		order, err := f.svc.PlaceOrder(ctx, baseCommand())
		require.NoError(t, err)
		require.NotNil(t, order)

		assert.Equal(t, domain.OrderStatusAccepted, order.Status)
		assert.Equal(t, "u1", order.UserID)
		assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(10000)))
		assert.NotEmpty(t, order.OrderID)
		require.Len(t, order.Items, 2)
		assert.Equal(t, order.OrderID, order.Items[0].OrderID)

		// 支付记录先于订单落库
		require.NotNil(t, f.payments.saved)
		assert.Equal(t, "card", f.payments.saved.Method)
		assert.Equal(t, "pi_123", f.payments.saved.PgPaymentID)

		// 账本：USE 1500 和 EARN 425，都挂在订单号上
		require.Len(t, f.ledger.entries, 3)
		assert.Equal(t, pointsdomain.TypeUse, f.ledger.entries[1].Type)
		assert.Equal(t, int64(1500), f.ledger.entries[1].Amount)
		assert.Equal(t, order.OrderID, f.ledger.entries[1].OrderID)
		assert.Equal(t, pointsdomain.TypeEarn, f.ledger.entries[2].Type)
		assert.Equal(t, int64(425), f.ledger.entries[2].Amount)

		// 库存按条目数量扣减
		assert.Equal(t, map[uint]int{11: 2, 12: 1}, f.stock.decrements)

		// 购物车逐项删除后清空
		assert.ElementsMatch(t, []uint{11, 12}, f.carts.removedItems)
		assert.True(t, f.carts.cleared)

		// 事件随事务发出
		assert.Equal(t, domain.OrderPlacedEventType, f.publisher.topic)
		assert.Equal(t, order.OrderID, f.publisher.key)
		event, ok := f.publisher.event.(domain.OrderPlacedEvent)
		require.True(t, ok)
		assert.Equal(t, "10000.00", event.TotalAmount)
		assert.Equal(t, 2, event.ItemCount)
	})

	t.Run("missing cart", func(t *testing.T) {
		f := newCheckoutFixture()

		_, err := f.svc.PlaceOrder(ctx, baseCommand())
		assert.ErrorIs(t, err, cartdomain.ErrCartNotFound)
	})

	t.Run("empty cart fails before ledger or stock", func(t *testing.T) {
		f := newCheckoutFixture()
		f.withCart("u1", 0)
		f.seedPoints("u1", 2000)

		_, err := f.svc.PlaceOrder(ctx, baseCommand())
		assert.ErrorIs(t, err, cartdomain.ErrCartEmpty)
		assert.Len(t, f.ledger.entries, 1) // 只有种子余额
		assert.Empty(t, f.stock.decrements)
		assert.False(t, f.carts.cleared)
	})

	t.Run("missing address", func(t *testing.T) {
		f := newCheckoutFixture()
		f.withCart("u1", 500, cartdomain.CartItem{ProductID: 11, Quantity: 1, ProductPrice: decimal.NewFromInt(500)})

		cmd := baseCommand()
		cmd.AddressID = 99

		_, err := f.svc.PlaceOrder(ctx, cmd)
		assert.ErrorIs(t, err, domain.ErrAddressNotFound)
		assert.Nil(t, f.orders.saved)
	})

	t.Run("insufficient stock aborts the workflow", func(t *testing.T) {
		f := newCheckoutFixture()
		f.withCart("u1", 10000,
			cartdomain.CartItem{ProductID: 11, Quantity: 2, ProductPrice: decimal.NewFromInt(5000)},
		)
		f.stock.levels = map[uint]int{11: 1}

		_, err := f.svc.PlaceOrder(ctx, baseCommand())
		assert.ErrorIs(t, err, catalogdomain.ErrInsufficientStock)
		assert.False(t, f.carts.cleared)
	})

	t.Run("unknown product aborts the workflow", func(t *testing.T) {
		f := newCheckoutFixture()
		f.withCart("u1", 500, cartdomain.CartItem{ProductID: 404, Quantity: 1, ProductPrice: decimal.NewFromInt(500)})

		_, err := f.svc.PlaceOrder(ctx, baseCommand())
		assert.ErrorIs(t, err, catalogdomain.ErrProductNotFound)
	})
}
