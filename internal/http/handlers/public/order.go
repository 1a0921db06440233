package public

import (
	"strings"

	handlershared "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/shared"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	Customization models.JSON `json:"customization"`
}

// CreateOrder 以购物车下单
func (h *Handler) CreateOrder(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBadRequest(c, err)
			return
		}
	}
	order, err := h.OrderService.CreateFromCart(service.CreateOrderInput{
		AccountID:     account.ID,
		Customization: req.Customization,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 我的订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PageQuery(c)
	orders, total, err := h.OrderService.ListByAccount(account.ID, strings.TrimSpace(c.Query("status")), page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 我的订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetByAccountOrderNo(account.ID, c.Param("order_no"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}
