package admin

import (
	"strconv"
	"strings"

	handlershared "github.com/Memoriestore01/Memoriestore-sub001/internal/http/handlers/shared"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/http/response"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// ProductRequest 商品创建/更新请求
type ProductRequest struct {
	CategoryID    uint         `json:"category_id"`
	Slug          string       `json:"slug" binding:"required"`
	Name          string       `json:"name" binding:"required"`
	Description   string       `json:"description"`
	PreviewURL    string       `json:"preview_url"`
	CoverImageURL string       `json:"cover_image_url"`
	Tags          []string     `json:"tags"`
	Price         models.Money `json:"price"`
	IsActive      *bool        `json:"is_active"`
	SortOrder     int          `json:"sort_order"`
}

func (r ProductRequest) toInput() service.ProductInput {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return service.ProductInput{
		CategoryID:    r.CategoryID,
		Slug:          r.Slug,
		Name:          r.Name,
		Description:   r.Description,
		PreviewURL:    r.PreviewURL,
		CoverImageURL: r.CoverImageURL,
		Tags:          r.Tags,
		Price:         r.Price,
		IsActive:      active,
		SortOrder:     r.SortOrder,
	}
}

// GetAdminProducts 商品列表（含下架）
func (h *Handler) GetAdminProducts(c *gin.Context) {
	page, pageSize := handlershared.PageQuery(c)
	var categoryID uint
	if raw := strings.TrimSpace(c.Query("category_id")); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		categoryID = uint(parsed)
	}

	products, total, err := h.ProductService.ListAdmin(strings.TrimSpace(c.Query("search")), categoryID, page, pageSize)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// CreateProduct 创建商品
func (h *Handler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := h.ProductService.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// UpdateProduct 更新商品
func (h *Handler) UpdateProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := h.ProductService.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, product)
}

// DeactivateProduct 下架商品
func (h *Handler) DeactivateProduct(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.ProductService.Deactivate(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"deactivated": true})
}
