package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/shared"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 更新订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// GetAdminOrders 获取订单列表
func (h *Handler) GetAdminOrders(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	filter := repository.OrderListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		OrderNo:  strings.TrimSpace(c.Query("order_no")),
	}
	if raw := strings.TrimSpace(c.Query("account_id")); raw != "" {
		accountID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		filter.AccountID = uint(accountID)
	}

	orders, total, err := h.OrderService.ListAdmin(filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetAdminOrder 获取订单详情
func (h *Handler) GetAdminOrder(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetForAdmin(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, order)
}

// UpdateAdminOrderStatus 更新订单状态
func (h *Handler) UpdateAdminOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, strings.TrimSpace(req.Status))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_order_status_updated", "order_id", id, "status", order.Status)
	response.Success(c, order)
}
