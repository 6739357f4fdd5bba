package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	orderapp "github.com/wyfcoding/ecommerce/internal/order/application"
	orderdomain "github.com/wyfcoding/ecommerce/internal/order/domain"
	"github.com/wyfcoding/pkg/response"
)

const dateLayout = "2006-01-02"

type OrderHandler struct {
	checkout *orderapp.CheckoutCommandService
	query    *orderapp.OrderQueryService
}

func NewOrderHandler(checkout *orderapp.CheckoutCommandService, query *orderapp.OrderQueryService) *OrderHandler {
	return &OrderHandler{checkout: checkout, query: query}
}

func (h *OrderHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/order/users")
	{
		api.POST("/payments/:paymentMethod", h.PlaceOrder)
		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:orderId", h.GetOrder)
	}
	admin := router.Group("/api/order/admin")
	{
		admin.GET("/orders/search", h.SearchOrders)
	}
}

func callerID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

type placeOrderRequest struct {
	AddressID         uint   `json:"address_id" binding:"required"`
	PgName            string `json:"pg_name"`
	PgPaymentID       string `json:"pg_payment_id"`
	PgStatus          string `json:"pg_status"`
	PgResponseMessage string `json:"pg_response_message"`
	PointsToUse       int64  `json:"points_to_use" binding:"min=0"`
}

func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	userID := callerID(c)
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user id is required", "")
		return
	}

	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	order, err := h.checkout.PlaceOrder(c.Request.Context(), orderapp.PlaceOrderCommand{
		UserID:            userID,
		AddressID:         req.AddressID,
		PaymentMethod:     c.Param("paymentMethod"),
		PgName:            req.PgName,
		PgPaymentID:       req.PgPaymentID,
		PgStatus:          req.PgStatus,
		PgResponseMessage: req.PgResponseMessage,
		PointsToUse:       req.PointsToUse,
	})
	if err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, orderapp.ToOrderDTO(order))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	dto, err := h.query.GetOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, dto)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID := callerID(c)
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user id is required", "")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "0"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))

	months := 0
	if raw := c.Query("months"); raw != "" {
		m, err := strconv.Atoi(raw)
		if err != nil || m < 0 {
			response.ErrorWithStatus(c, http.StatusBadRequest, "invalid months", "expected a non-negative integer")
			return
		}
		months = m
	}

	q := orderapp.HistoryQuery{
		UserID: userID,
		Page:   page,
		Size:   size,
		Sort:   parseSort(c.QueryArray("sort")),
		Months: months,
	}
	if start, err := parseDate(c.Query("startDate")); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid startDate", "expected format 2006-01-02")
		return
	} else {
		q.StartDate = start
	}
	if end, err := parseDate(c.Query("endDate")); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid endDate", "expected format 2006-01-02")
		return
	} else {
		q.EndDate = end
	}

	result, err := h.query.ListUserOrders(c.Request.Context(), q)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	response.Success(c, result)
}

// SearchOrders 后台订单检索，查询打到 Elasticsearch 投影。
func (h *OrderHandler) SearchOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	dtos, err := h.query.SearchOrders(c.Request.Context(), buildSearchQuery(c.Query("userId"), c.Query("status")), limit)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"orders": dtos})
}

// buildSearchQuery 把可选的精确过滤条件拼成 ES 查询，无条件时全量匹配。
func buildSearchQuery(userID, status string) map[string]any {
	var filters []map[string]any
	if userID != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"user_id": userID}})
	}
	if status != "" {
		filters = append(filters, map[string]any{"term": map[string]any{"status": status}})
	}
	if len(filters) == 0 {
		return map[string]any{"match_all": map[string]any{}}
	}
	return map[string]any{"bool": map[string]any{"filter": filters}}
}

// parseSort 解析 "field,dir" 形式的排序参数，方向缺省为升序。
func parseSort(raw []string) []orderdomain.SortOrder {
	var sorts []orderdomain.SortOrder
	for _, item := range raw {
		field, dir, _ := strings.Cut(item, ",")
		if field == "" {
			continue
		}
		sorts = append(sorts, orderdomain.SortOrder{
			Field: field,
			Desc:  strings.EqualFold(dir, "desc"),
		})
	}
	return sorts
}

func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func writeOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartdomain.ErrCartNotFound),
		errors.Is(err, orderdomain.ErrAddressNotFound),
		errors.Is(err, orderdomain.ErrOrderNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, cartdomain.ErrCartEmpty),
		errors.Is(err, catalogdomain.ErrInsufficientStock),
		errors.Is(err, catalogdomain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	default:
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}
