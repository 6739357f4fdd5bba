// Package mysql 提供订单仓储的 GORM 实现。
// 历史查询采用三段式：先分页取 order_id，再按同一过滤条件计数，
// 最后用 id 集合做明细 LEFT JOIN 并在内存中折叠回聚合，
// 避免一对多 JOIN 的行倍增破坏页大小与总数。
package mysql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"
)

// 排序字段白名单：未列出的字段一律退回默认排序，
// 既防注入，也保证分页顺序可预测。
var sortColumns = map[string]string{
	"orderDate":   "order_date",
	"orderId":     "order_id",
	"totalAmount": "total_amount",
	"orderStatus": "status",
}

type orderRepository struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) domain.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

func (r *orderRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

func (r *orderRepository) Save(ctx context.Context, order *domain.Order) error {
	model := toOrderModel(order)
	if err := r.getDB(ctx).WithContext(ctx).Create(model).Error; err != nil {
		logging.Error(ctx, "order_repository.save failed", "order_id", order.OrderID, "error", err)
		return fmt.Errorf("failed to save order: %w", err)
	}
	order.ID = model.ID
	order.CreatedAt = model.CreatedAt
	return nil
}

func (r *orderRepository) SaveItems(ctx context.Context, items []domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	models := toItemModels(items)
	if err := r.getDB(ctx).WithContext(ctx).Create(&models).Error; err != nil {
		return fmt.Errorf("failed to save order items: %w", err)
	}
	for i := range items {
		items[i].ID = models[i].ID
	}
	return nil
}

func (r *orderRepository) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	db := r.getDB(ctx).WithContext(ctx)

	var header OrderModel
	if err := db.Where("order_id = ?", orderID).First(&header).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	order := toOrderDomain(&header)

	var itemModels []OrderItemModel
	if err := db.Where("order_id = ?", orderID).Find(&itemModels).Error; err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	order.Items = make([]domain.OrderItem, 0, len(itemModels))
	for i := range itemModels {
		order.Items = append(order.Items, toItemDomain(&itemModels[i]))
	}

	var payment PaymentModel
	if err := db.Where("payment_id = ?", header.PaymentID).First(&payment).Error; err == nil {
		order.Payment = toPaymentDomain(&payment)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}

	var address AddressModel
	if err := db.First(&address, header.AddressID).Error; err == nil {
		order.Address = toAddressDomain(&address)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}

	return order, nil
}

// PageIDs 第一阶段：只选 order_id，排序、偏移、页大小都在这里生效。
func (r *orderRepository) PageIDs(ctx context.Context, filter domain.HistoryFilter, page domain.PageRequest) ([]string, error) {
	q := r.getDB(ctx).WithContext(ctx).Model(&OrderModel{})
	q = applyHistoryFilter(q, filter, "")

	var ids []string
	err := q.Order(sortClause(page.Sort, "")).
		Limit(page.Size).
		Offset(page.Page * page.Size).
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to page order ids: %w", err)
	}
	return ids, nil
}

func (r *orderRepository) CountByFilter(ctx context.Context, filter domain.HistoryFilter) (int64, error) {
	q := r.getDB(ctx).WithContext(ctx).Model(&OrderModel{})
	q = applyHistoryFilter(q, filter, "")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return total, nil
}

// orderDetailRow 明细 JOIN 的扁平行。条目、支付、地址侧
// 都可能为 NULL（无条目订单必须照样出现），因此用指针接列。
type orderDetailRow struct {
	OrderID     string          `gorm:"column:order_id"`
	UserID      string          `gorm:"column:user_id"`
	OrderDate   time.Time       `gorm:"column:order_date"`
	TotalAmount decimal.Decimal `gorm:"column:total_amount"`
	Status      string          `gorm:"column:status"`

	ItemID        *uint               `gorm:"column:item_id"`
	ItemProductID *uint               `gorm:"column:item_product_id"`
	ItemQuantity  *int                `gorm:"column:item_quantity"`
	ItemDiscount  decimal.NullDecimal `gorm:"column:item_discount"`
	ItemPrice     decimal.NullDecimal `gorm:"column:item_price"`

	PaymentID   *string `gorm:"column:payment_id"`
	PayMethod   *string `gorm:"column:pay_method"`
	PgName      *string `gorm:"column:pg_name"`
	PgPaymentID *string `gorm:"column:pg_payment_id"`
	PgStatus    *string `gorm:"column:pg_status"`
	PgMessage   *string `gorm:"column:pg_response_message"`

	AddrID       *uint   `gorm:"column:addr_id"`
	Street       *string `gorm:"column:street"`
	BuildingName *string `gorm:"column:building_name"`
	City         *string `gorm:"column:city"`
	State        *string `gorm:"column:state"`
	Country      *string `gorm:"column:country"`
	Pincode      *string `gorm:"column:pincode"`
}

// FindByIDs 第二/三阶段：限定在 id 集合内 JOIN 明细，
// 折叠后按 ids 的顺序返回（JOIN 结果的行序不可信）。
func (r *orderRepository) FindByIDs(ctx context.Context, ids []string, sort []domain.SortOrder) ([]*domain.Order, error) {
	if len(ids) == 0 {
		return []*domain.Order{}, nil
	}

	var rows []orderDetailRow
	err := r.getDB(ctx).WithContext(ctx).
		Table("orders AS o").
		Select(`o.order_id, o.user_id, o.order_date, o.total_amount, o.status,
			oi.id AS item_id, oi.product_id AS item_product_id, oi.quantity AS item_quantity,
			oi.discount AS item_discount, oi.ordered_product_price AS item_price,
			p.payment_id, p.method AS pay_method, p.pg_name, p.pg_payment_id, p.pg_status, p.pg_response_message,
			a.id AS addr_id, a.street, a.building_name, a.city, a.state, a.country, a.pincode`).
		Joins("LEFT JOIN order_items AS oi ON oi.order_id = o.order_id AND oi.deleted_at IS NULL").
		Joins("LEFT JOIN payments AS p ON p.payment_id = o.payment_id").
		Joins("LEFT JOIN addresses AS a ON a.id = o.address_id").
		Where("o.order_id IN ?", ids).
		Where("o.deleted_at IS NULL").
		Order(sortClause(sort, "o.")).
		Scan(&rows).Error
	if err != nil {
		logging.Error(ctx, "order_repository.find_by_ids failed", "error", err)
		return nil, fmt.Errorf("failed to load order details: %w", err)
	}

	return foldRows(ids, rows), nil
}

// foldRows 把扁平 JOIN 行折叠为每个 order_id 一个聚合，
// 非空条目行追加到对应订单，最后按 ids 的顺序重排。
func foldRows(ids []string, rows []orderDetailRow) []*domain.Order {
	byID := make(map[string]*domain.Order, len(ids))

	for i := range rows {
		row := &rows[i]
		order, ok := byID[row.OrderID]
		if !ok {
			order = &domain.Order{
				OrderID:     row.OrderID,
				UserID:      row.UserID,
				OrderDate:   row.OrderDate,
				TotalAmount: row.TotalAmount,
				Status:      domain.OrderStatus(row.Status),
				Items:       []domain.OrderItem{},
			}
			if row.PaymentID != nil {
				order.Payment = &domain.Payment{
					PaymentID:         *row.PaymentID,
					Method:            strVal(row.PayMethod),
					PgName:            strVal(row.PgName),
					PgPaymentID:       strVal(row.PgPaymentID),
					PgStatus:          strVal(row.PgStatus),
					PgResponseMessage: strVal(row.PgMessage),
				}
			}
			if row.AddrID != nil {
				order.Address = &domain.Address{
					ID:           *row.AddrID,
					Street:       strVal(row.Street),
					BuildingName: strVal(row.BuildingName),
					City:         strVal(row.City),
					State:        strVal(row.State),
					Country:      strVal(row.Country),
					Pincode:      strVal(row.Pincode),
				}
			}
			byID[row.OrderID] = order
		}

		if row.ItemID != nil {
			item := domain.OrderItem{
				ID:        *row.ItemID,
				OrderID:   row.OrderID,
				ProductID: uintVal(row.ItemProductID),
				Quantity:  intVal(row.ItemQuantity),
			}
			if row.ItemDiscount.Valid {
				item.Discount = row.ItemDiscount.Decimal
			}
			if row.ItemPrice.Valid {
				item.OrderedProductPrice = row.ItemPrice.Decimal
			}
			order.Items = append(order.Items, item)
		}
	}

	result := make([]*domain.Order, 0, len(ids))
	for _, id := range ids {
		if order, ok := byID[id]; ok {
			result = append(result, order)
		}
	}
	return result
}

// sortClause 把排序条件映射到白名单内的列；
// order_id 永远作为最后的稳定平分键。
func sortClause(sort []domain.SortOrder, prefix string) string {
	if len(sort) == 0 {
		return fmt.Sprintf("%sorder_date DESC, %sorder_id DESC", prefix, prefix)
	}

	var parts []string
	last := ""
	for _, s := range sort {
		column, ok := sortColumns[s.Field]
		if !ok {
			column = "order_date"
		}
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s%s %s", prefix, column, dir))
		last = column
	}
	// order_id 本身已唯一，排在末位时无需再追加平分键
	if last != "order_id" {
		parts = append(parts, fmt.Sprintf("%sorder_id DESC", prefix))
	}
	return strings.Join(parts, ", ")
}

func applyHistoryFilter(q *gorm.DB, f domain.HistoryFilter, prefix string) *gorm.DB {
	q = q.Where(prefix+"user_id = ?", f.UserID)
	switch {
	case f.StartDate != nil && f.EndDate != nil:
		q = q.Where(prefix+"order_date BETWEEN ? AND ?", *f.StartDate, *f.EndDate)
	case f.StartDate != nil:
		q = q.Where(prefix+"order_date >= ?", *f.StartDate)
	case f.EndDate != nil:
		q = q.Where(prefix+"order_date <= ?", *f.EndDate)
	}
	return q
}

func strVal(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func uintVal(p *uint) uint {
	if p == nil {
		return 0
	}
	return *p
}

func intVal(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
