package public

import (
	handlershared "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/shared"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"

	"github.com/gin-gonic/gin"
)

// WishlistRequest 心愿单请求
type WishlistRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// GetWishlist 获取心愿单
func (h *Handler) GetWishlist(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	products, err := h.WishlistService.List(account.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, products)
}

// AddWishlistItem 加入心愿单
func (h *Handler) AddWishlistItem(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	var req WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if err := h.WishlistService.Add(account.ID, req.ProductID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"added": true})
}

// DeleteWishlistItem 移出心愿单
func (h *Handler) DeleteWishlistItem(c *gin.Context) {
	account, ok := currentAccount(c)
	if !ok {
		return
	}
	productID, ok := handlershared.ParseUintParam(c, "product_id")
	if !ok {
		return
	}
	if err := h.WishlistService.Remove(account.ID, productID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deleted": true})
}
