package cache

import (
	"context"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/constants"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
)

const defaultCatalogTTL = 5 * time.Minute

// CatalogPage 公开商品列表首页快照
type CatalogPage struct {
	Items    []models.Product `json:"items"`
	Total    int64            `json:"total"`
	PageSize int              `json:"page_size"`
}

// CatalogCache 公开商品列表首页缓存
type CatalogCache struct {
	ttl time.Duration
}

// NewCatalogCache 创建商品列表缓存
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogCache{ttl: ttl}
}

// GetFirstPage 读取首页快照
func (c *CatalogCache) GetFirstPage(ctx context.Context, pageSize int) (*CatalogPage, bool, error) {
	var page CatalogPage
	hit, err := GetJSON(ctx, constants.CacheKeyCatalogFirstPage, &page)
	if err != nil || !hit {
		return nil, false, err
	}
	if page.PageSize != pageSize {
		return nil, false, nil
	}
	return &page, true, nil
}

// SetFirstPage 写入首页快照
func (c *CatalogCache) SetFirstPage(ctx context.Context, page *CatalogPage) error {
	if page == nil {
		return nil
	}
	return SetJSON(ctx, constants.CacheKeyCatalogFirstPage, page, c.ttl)
}

// Invalidate 商品或分类变更后清空快照
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return Del(ctx, constants.CacheKeyCatalogFirstPage)
}
