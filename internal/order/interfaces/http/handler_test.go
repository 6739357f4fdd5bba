package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderapp "github.com/wyfcoding/ecommerce/internal/order/application"
	orderdomain "github.com/wyfcoding/ecommerce/internal/order/domain"
)

type stubOrderRepo struct {
	lastFilter orderdomain.HistoryFilter
	pageCalled bool
}

func (s *stubOrderRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *stubOrderRepo) Save(_ context.Context, _ *orderdomain.Order) error { return nil }

func (s *stubOrderRepo) SaveItems(_ context.Context, _ []orderdomain.OrderItem) error { return nil }

func (s *stubOrderRepo) Get(_ context.Context, _ string) (*orderdomain.Order, error) {
	return nil, orderdomain.ErrOrderNotFound
}

func (s *stubOrderRepo) PageIDs(_ context.Context, filter orderdomain.HistoryFilter, _ orderdomain.PageRequest) ([]string, error) {
	s.pageCalled = true
	s.lastFilter = filter
	return nil, nil
}

func (s *stubOrderRepo) CountByFilter(_ context.Context, _ orderdomain.HistoryFilter) (int64, error) {
	return 0, nil
}

func (s *stubOrderRepo) FindByIDs(_ context.Context, _ []string, _ []orderdomain.SortOrder) ([]*orderdomain.Order, error) {
	return nil, nil
}

type stubSearchRepo struct {
	lastQuery map[string]any
	lastLimit int
}

func (s *stubSearchRepo) Index(_ context.Context, _ *orderdomain.Order) error { return nil }

func (s *stubSearchRepo) Search(_ context.Context, query map[string]any, limit int) ([]*orderdomain.Order, error) {
	s.lastQuery = query
	s.lastLimit = limit
	return nil, nil
}

func newTestRouter(repo *stubOrderRepo, search *stubSearchRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	query := orderapp.NewOrderQueryService(repo, nil, search)
	NewOrderHandler(nil, query).RegisterRoutes(r.Group(""))
	return r
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("X-User-ID", "u1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListOrdersMonthsParam(t *testing.T) {
	t.Run("malformed months rejected", func(t *testing.T) {
		repo := &stubOrderRepo{}
		r := newTestRouter(repo, nil)

		w := doGet(t, r, "/api/order/users/orders?months=abc")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, repo.pageCalled)
	})

	t.Run("negative months rejected", func(t *testing.T) {
		repo := &stubOrderRepo{}
		r := newTestRouter(repo, nil)

		w := doGet(t, r, "/api/order/users/orders?months=-3")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, repo.pageCalled)
	})

	t.Run("valid months derives a window", func(t *testing.T) {
		repo := &stubOrderRepo{}
		r := newTestRouter(repo, nil)

		w := doGet(t, r, "/api/order/users/orders?months=6")
		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, repo.pageCalled)
		assert.NotNil(t, repo.lastFilter.StartDate)
		assert.NotNil(t, repo.lastFilter.EndDate)
	})

	t.Run("absent months means no window", func(t *testing.T) {
		repo := &stubOrderRepo{}
		r := newTestRouter(repo, nil)

		w := doGet(t, r, "/api/order/users/orders")
		assert.Equal(t, http.StatusOK, w.Code)
		require.True(t, repo.pageCalled)
		assert.Nil(t, repo.lastFilter.StartDate)
	})
}

func TestSearchOrdersRoute(t *testing.T) {
	repo := &stubOrderRepo{}
	search := &stubSearchRepo{}
	r := newTestRouter(repo, search)

	w := doGet(t, r, "/api/order/admin/orders/search?userId=u1&status=ACCEPTED&limit=5")
	assert.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 5, search.lastLimit)
	require.NotNil(t, search.lastQuery)
	boolQuery, ok := search.lastQuery["bool"].(map[string]any)
	require.True(t, ok)
	filters, ok := boolQuery["filter"].([]map[string]any)
	require.True(t, ok)
	assert.Len(t, filters, 2)
}

func TestBuildSearchQuery(t *testing.T) {
	t.Run("no filters falls back to match all", func(t *testing.T) {
		query := buildSearchQuery("", "")
		assert.Contains(t, query, "match_all")
	})

	t.Run("user filter only", func(t *testing.T) {
		query := buildSearchQuery("u1", "")
		boolQuery := query["bool"].(map[string]any)
		filters := boolQuery["filter"].([]map[string]any)
		require.Len(t, filters, 1)
		assert.Equal(t, map[string]any{"user_id": "u1"}, filters[0]["term"])
	})

	t.Run("status filter appended after user", func(t *testing.T) {
		query := buildSearchQuery("u1", "ACCEPTED")
		boolQuery := query["bool"].(map[string]any)
		filters := boolQuery["filter"].([]map[string]any)
		require.Len(t, filters, 2)
		assert.Equal(t, map[string]any{"status": "ACCEPTED"}, filters[1]["term"])
	})
}
