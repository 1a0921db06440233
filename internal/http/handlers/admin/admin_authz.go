package admin

import (
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := strings.TrimSpace(c.Query("role"))
	if role == "" {
		response.BadRequest(c, "role is required")
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	requestLog(c).Infow("authz_policy_granted", "role", req.Role, "object", req.Object, "action", req.Action)
	response.Success(c, gin.H{"granted": true})
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	requestLog(c).Infow("authz_policy_revoked", "role", req.Role, "object", req.Object, "action", req.Action)
	response.Success(c, gin.H{"revoked": true})
}

// ReloadAuthzPolicy 从存储重新加载策略，用于直接改库后的同步
func (h *Handler) ReloadAuthzPolicy(c *gin.Context) {
	if err := h.AuthzService.ReloadPolicy(); err != nil {
		respondServiceError(c, err)
		return
	}
	requestLog(c).Infow("authz_policy_reloaded")
	response.Success(c, gin.H{"reloaded": true})
}
