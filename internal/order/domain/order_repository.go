package domain

import (
	"context"
	"time"
)

// HistoryFilter 订单历史查询过滤条件。日期窗口可选，两端包含。
type HistoryFilter struct {
	UserID    string
	StartDate *time.Time
	EndDate   *time.Time
}

// SortOrder 单个排序条件。Field 在仓储实现中按白名单映射到列，
// 未识别的字段退回默认排序。
type SortOrder struct {
	Field string
	Desc  bool
}

// PageRequest 分页请求（页码从 0 开始）。
type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}

// OrderRepository 订单仓储接口。
// 历史查询拆成三步以避免一对多 JOIN 的行倍增污染分页：
// 先取本页 order_id，再按同一过滤条件单独计数，最后用 id 集合做明细 JOIN 并折叠。
type OrderRepository interface {
	// WithTx 在单个数据库事务中执行 fn，事务句柄经 ctx 向下传递。
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// Save 持久化订单头
	Save(ctx context.Context, order *Order) error
	// SaveItems 持久化订单条目
	SaveItems(ctx context.Context, items []OrderItem) error
	// Get 加载完整聚合（头、条目、支付、地址）
	Get(ctx context.Context, orderID string) (*Order, error)
	// PageIDs 第一阶段：只取本页的 order_id，排序与分页在此完成
	PageIDs(ctx context.Context, filter HistoryFilter, page PageRequest) ([]string, error)
	// CountByFilter 同一过滤条件下的订单总数（与 JOIN 无关）
	CountByFilter(ctx context.Context, filter HistoryFilter) (int64, error)
	// FindByIDs 第二/三阶段：按 id 集合 JOIN 明细并折叠为聚合，
	// 返回顺序与 ids 一致
	FindByIDs(ctx context.Context, ids []string, sort []SortOrder) ([]*Order, error)
}

// OrderReadRepository 订单读缓存接口
type OrderReadRepository interface {
	Get(ctx context.Context, orderID string) (*Order, error)
	Save(ctx context.Context, order *Order) error
}

// OrderSearchRepository 订单搜索仓储接口
type OrderSearchRepository interface {
	Index(ctx context.Context, order *Order) error
	Search(ctx context.Context, query map[string]any, limit int) ([]*Order, error)
}

// PaymentRepository 支付记录仓储接口
type PaymentRepository interface {
	Save(ctx context.Context, payment *Payment) error
}

// AddressRepository 地址仓储接口
type AddressRepository interface {
	GetByID(ctx context.Context, id uint) (*Address, error)
	Save(ctx context.Context, address *Address) error
}
