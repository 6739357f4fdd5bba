package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	cartapp "github.com/wyfcoding/ecommerce/internal/cart/application"
	cartdomain "github.com/wyfcoding/ecommerce/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/ecommerce/internal/catalog/domain"
	"github.com/wyfcoding/pkg/response"
)

type CartHandler struct {
	app *cartapp.CartApplicationService
}

func NewCartHandler(app *cartapp.CartApplicationService) *CartHandler {
	return &CartHandler{app: app}
}

func (h *CartHandler) RegisterRoutes(router *gin.RouterGroup) {
	api := router.Group("/api/carts")
	{
		api.GET("", h.GetCart)
		api.POST("/products/:productId/quantity/:quantity", h.AddProduct)
		api.PUT("/products/:productId/quantity/:delta", h.UpdateQuantity)
		api.DELETE("/products/:productId", h.RemoveProduct)
	}
}

// 调用方身份由上游网关解析后经请求头传入。
func callerID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}

func (h *CartHandler) GetCart(c *gin.Context) {
	userID := callerID(c)
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user id is required", "")
		return
	}
	cart, err := h.app.GetCart(c.Request.Context(), userID)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) AddProduct(c *gin.Context) {
	userID := callerID(c)
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}
	qty, _ := strconv.Atoi(c.Param("quantity"))

	cart, err := h.app.AddProduct(c.Request.Context(), userID, uint(productID), qty)
	if err != nil {
		writeCartError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	userID := callerID(c)
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}
	delta, err := strconv.Atoi(c.Param("delta"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid quantity delta", "")
		return
	}

	cart, err := h.app.UpdateQuantity(c.Request.Context(), userID, uint(productID), delta)
	if err != nil {
		writeCartError(c, err)
		return
	}
	response.Success(c, cart)
}

func (h *CartHandler) RemoveProduct(c *gin.Context) {
	userID := callerID(c)
	productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid product id", "")
		return
	}
	cart, err := h.app.RemoveProduct(c.Request.Context(), userID, uint(productID))
	if err != nil {
		writeCartError(c, err)
		return
	}
	response.Success(c, cart)
}

func writeCartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cartdomain.ErrCartNotFound), errors.Is(err, catalogdomain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, cartdomain.ErrItemNotInCart),
		errors.Is(err, cartdomain.ErrExceedsStock),
		errors.Is(err, cartdomain.ErrNegativeQuantity):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	default:
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
	}
}
