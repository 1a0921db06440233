package public

import (
	handlershared "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/shared"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// CartItemRequest 购物车项请求，quantity <= 0 表示移除
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity"`
}

// GetCart 获取购物车
func (h *Handler) GetCart(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	view, err := h.CartService.ListByAccount(account.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, view)
}

// UpsertCartItem 添加或更新购物车项
func (h *Handler) UpsertCartItem(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.CartService.UpsertItem(service.UpsertCartItemInput{
		AccountID: account.ID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"updated": true})
}

// DeleteCartItem 删除购物车项
func (h *Handler) DeleteCartItem(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.CartService.RemoveItem(account.ID, productID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
