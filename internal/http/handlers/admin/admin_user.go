package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/shared"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateUserRoleRequest 修改账号角色请求
type UpdateUserRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateUserActiveRequest 启用/停用账号请求
type UpdateUserActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// GetAdminUsers 获取账号列表
func (h *Handler) GetAdminUsers(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	input := service.ListAccountsInput{
		Keyword:  strings.TrimSpace(c.Query("keyword")),
		Role:     strings.TrimSpace(c.Query("role")),
		Page:     page,
		PageSize: pageSize,
	}
	if raw := strings.TrimSpace(c.Query("active")); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		input.Active = &active
	}

	accounts, total, err := h.AccountAdminService.List(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, accounts, response.BuildPagination(page, pageSize, total))
}

// UpdateAdminUserRole 修改账号角色
func (h *Handler) UpdateAdminUserRole(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := h.AccountAdminService.SetRole(c.Request.Context(), id, req.Role)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_account_role_updated", "account_id", id, "role", view.Role)
	response.Success(c, view)
}

// UpdateAdminUserActive 启用/停用账号
func (h *Handler) UpdateAdminUserActive(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req UpdateUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := h.AccountAdminService.SetActive(c.Request.Context(), id, *req.Active)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("admin_account_active_updated", "account_id", id, "active", view.Active)
	response.Success(c, view)
}
