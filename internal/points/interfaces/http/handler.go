package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/ecommerce/internal/points/application"
	"github.com/wyfcoding/pkg/response"
)

type PointsHandler struct {
	svc *application.PointsService
}

func NewPointsHandler(svc *application.PointsService) *PointsHandler {
	return &PointsHandler{svc: svc}
}

func (h *PointsHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/api/points/balance", h.Balance)
	router.POST("/api/orders/preview", h.Preview)
}

type previewRequest struct {
	CartTotal   int64 `json:"cart_total" binding:"min=0"`
	PointsToUse int64 `json:"points_to_use" binding:"min=0"`
}

func (h *PointsHandler) Balance(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user id is required", "")
		return
	}
	balance, err := h.svc.GetBalance(c.Request.Context(), userID)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, gin.H{"balance": balance})
}

func (h *PointsHandler) Preview(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		response.ErrorWithStatus(c, http.StatusBadRequest, "user id is required", "")
		return
	}
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request data", err.Error())
		return
	}
	split, err := h.svc.Preview(c.Request.Context(), userID, req.CartTotal, req.PointsToUse)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusInternalServerError, err.Error(), "")
		return
	}
	response.Success(c, split)
}
