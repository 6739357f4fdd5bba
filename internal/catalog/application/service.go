package application

import (
	"context"

	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

// CatalogQueryService 商品查询服务（目录维护不在本服务范围内，只读）。
type CatalogQueryService struct {
	repo domain.ProductRepository
}

func NewCatalogQueryService(repo domain.ProductRepository) *CatalogQueryService {
	return &CatalogQueryService{repo: repo}
}

func (s *CatalogQueryService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CatalogQueryService) ListProducts(ctx context.Context, category string, offset, limit int) ([]*domain.Product, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, category, offset, limit)
}
