package application

import (
	"context"
	"time"

	"github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/pkg/logging"
)

// HistoryQuery 订单历史查询参数。
// 未给出明确日期但给了 Months 时，窗口取 [今天−Months个月, 今天]。
type HistoryQuery struct {
	UserID    string
	Page      int
	Size      int
	Sort      []domain.SortOrder
	StartDate *time.Time
	EndDate   *time.Time
	Months    int
}

// OrderQueryService 订单查询服务。
type OrderQueryService struct {
	repo       domain.OrderRepository
	readRepo   domain.OrderReadRepository
	searchRepo domain.OrderSearchRepository
}

func NewOrderQueryService(repo domain.OrderRepository, readRepo domain.OrderReadRepository, searchRepo domain.OrderSearchRepository) *OrderQueryService {
	return &OrderQueryService{repo: repo, readRepo: readRepo, searchRepo: searchRepo}
}

// GetOrder 单个订单读取，命中读缓存时不回源。
func (s *OrderQueryService) GetOrder(ctx context.Context, orderID string) (*OrderDTO, error) {
	if s.readRepo != nil {
		if cached, err := s.readRepo.Get(ctx, orderID); err == nil && cached != nil {
			return ToOrderDTO(cached), nil
		}
	}
	order, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.readRepo != nil {
		if err := s.readRepo.Save(ctx, order); err != nil {
			logging.Warn(ctx, "order read cache save failed", "order_id", orderID, "error", err)
		}
	}
	return ToOrderDTO(order), nil
}

// SearchOrders 后台检索，走 Elasticsearch 投影而非主库。
func (s *OrderQueryService) SearchOrders(ctx context.Context, query map[string]any, limit int) ([]*OrderDTO, error) {
	if s.searchRepo == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	orders, err := s.searchRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	return toOrderDTOs(orders), nil
}

// ListUserOrders 分页返回完整订单聚合。
// 分页基于去重后的订单数，与明细 JOIN 的行数无关。
func (s *OrderQueryService) ListUserOrders(ctx context.Context, q HistoryQuery) (*PageResult, error) {
	if q.Size <= 0 {
		q.Size = 10
	}
	if q.Page < 0 {
		q.Page = 0
	}

	start, end := q.StartDate, q.EndDate
	if start == nil && end == nil && q.Months > 0 {
		now := time.Now()
		e := now
		st := now.AddDate(0, -q.Months, 0)
		start, end = &st, &e
	}

	filter := domain.HistoryFilter{UserID: q.UserID, StartDate: start, EndDate: end}
	page := domain.PageRequest{Page: q.Page, Size: q.Size, Sort: q.Sort}

	ids, err := s.repo.PageIDs(ctx, filter, page)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return &PageResult{
			Content:    []*OrderDTO{},
			PageNumber: q.Page,
			PageSize:   q.Size,
			LastPage:   true,
		}, nil
	}

	total, err := s.repo.CountByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.FindByIDs(ctx, ids, q.Sort)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(q.Size) - 1) / int64(q.Size))
	return &PageResult{
		Content:       toOrderDTOs(orders),
		PageNumber:    q.Page,
		PageSize:      q.Size,
		TotalElements: total,
		TotalPages:    totalPages,
		LastPage:      q.Page >= totalPages-1,
	}, nil
}
