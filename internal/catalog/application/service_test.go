package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wyfcoding/ecommerce/internal/catalog/domain"
)

type fakeProductRepo struct {
	products   map[uint]*domain.Product
	lastOffset int
	lastLimit  int
}

func (f *fakeProductRepo) Save(_ context.Context, _ *domain.Product) error { return nil }

func (f *fakeProductRepo) GetByID(_ context.Context, id uint) (*domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (f *fakeProductRepo) List(_ context.Context, _ string, offset, limit int) ([]*domain.Product, int64, error) {
	f.lastOffset = offset
	f.lastLimit = limit
	return nil, 0, nil
}

func (f *fakeProductRepo) DecrementStock(_ context.Context, _ uint, _ int) error { return nil }

func TestGetProduct(t *testing.T) {
	repo := &fakeProductRepo{products: map[uint]*domain.Product{}}
	p := &domain.Product{Name: "widget", Quantity: 3}
	p.ID = 5
	repo.products[5] = p
	svc := NewCatalogQueryService(repo)

	got, err := svc.GetProduct(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "widget", got.Name)

	_, err = svc.GetProduct(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListProductsLimitClamp(t *testing.T) {
	repo := &fakeProductRepo{}
	svc := NewCatalogQueryService(repo)
	ctx := context.Background()

	for _, limit := range []int{0, -3, 500} {
		_, _, err := svc.ListProducts(ctx, "", 0, limit)
		require.NoError(t, err)
		assert.Equal(t, 20, repo.lastLimit)
	}

	_, _, err := svc.ListProducts(ctx, "toys", 40, 50)
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastLimit)
	assert.Equal(t, 40, repo.lastOffset)
}
