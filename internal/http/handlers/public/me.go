package public

import (
	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateProfileRequest 资料修改请求
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

// GetMe 获取当前账号资料
func (h *Handler) GetMe(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	response.Success(c, service.NewAccountView(account))
}

// UpdateMe 修改当前账号资料
func (h *Handler) UpdateMe(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := h.AccountService.UpdateProfile(c.Request.Context(), account.Email, service.UpdateProfileInput{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}
