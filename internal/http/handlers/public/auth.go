package public

import (
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// SendCodeRequest 发送验证码请求
type SendCodeRequest struct {
	Email   string `json:"email" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// SendCode 发送邮箱验证码
func (h *Handler) SendCode(c *gin.Context) {
	var req SendCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.AccountService.SendVerificationCode(c.Request.Context(), req.Email, req.Purpose); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"sent": true})
}

// VerifyCodeRequest 验证验证码请求
type VerifyCodeRequest struct {
	Email   string `json:"email" binding:"required"`
	Code    string `json:"code" binding:"required"`
	Purpose string `json:"purpose" binding:"required"`
}

// VerifyCode 验证验证码
func (h *Handler) VerifyCode(c *gin.Context) {
	var req VerifyCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.AccountService.VerifyCode(c.Request.Context(), req.Email, req.Code, req.Purpose); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"verified": true})
}

// RegisterRequest 注册请求，字段缺失交由服务层统一判定
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Code     string `json:"code"`
}

// Register 会员注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	account, err := h.AccountService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Code:     req.Code,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"user": account})
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 邮箱密码登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := h.AccountService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSession(c, result)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ResetPassword 重置密码
func (h *Handler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.AccountService.ResetPassword(c.Request.Context(), req.Email, req.Code, req.NewPassword); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"reset": true})
}

// ExternalSignInRequest 外部身份登录请求
type ExternalSignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// ExternalSignIn 外部身份登录
func (h *Handler) ExternalSignIn(c *gin.Context) {
	var req ExternalSignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	result, err := h.AccountService.SignInExternal(c.Request.Context(), req.IDToken)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondSession(c, result)
}

// BootstrapAdminRequest 认领首个管理员请求
type BootstrapAdminRequest struct {
	Email string `json:"email" binding:"required"`
}

// BootstrapAdmin 系统内无管理员时提升指定账号
func (h *Handler) BootstrapAdmin(c *gin.Context) {
	var req BootstrapAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	account, err := h.AuthorizationGate.ClaimFirstAdmin(c.Request.Context(), req.Email)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"user": account})
}

func respondSession(c *gin.Context, result *service.SessionResult) {
	response.Success(c, gin.H{
		"user":       result.Account,
		"token":      result.Token,
		"expires_at": result.ExpiresAt.Format(time.RFC3339),
	})
}
