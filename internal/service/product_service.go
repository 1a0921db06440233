package service

import (
	"context"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/cache"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/constants"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
)

// ProductService 商品目录服务
type ProductService struct {
	repo       repository.ProductRepository
	categories repository.CategoryRepository
	catalog    *cache.CatalogCache
}

// NewProductService 创建商品服务
func NewProductService(repo repository.ProductRepository, categories repository.CategoryRepository, catalog *cache.CatalogCache) *ProductService {
	return &ProductService{repo: repo, categories: categories, catalog: catalog}
}

// ProductInput 创建/更新商品输入
type ProductInput struct {
	CategoryID    uint
	Slug          string
	Name          string
	Description   string
	PreviewURL    string
	CoverImageURL string
	Tags          []string
	Price         models.Money
	IsActive      bool
	SortOrder     int
}

// PublicListQuery 公开商品查询
type PublicListQuery struct {
	Search       string
	CategorySlug string
	Page         int
	PageSize     int
}

// ListPublic 公开商品列表；无筛选的第一页走缓存
func (s *ProductService) ListPublic(ctx context.Context, query PublicListQuery) ([]models.Product, int64, error) {
	page, pageSize := normalizePagination(query.Page, query.PageSize)
	cacheable := s.catalog != nil && page == 1 &&
		strings.TrimSpace(query.Search) == "" && strings.TrimSpace(query.CategorySlug) == ""

	if cacheable {
		snapshot, hit, err := s.catalog.GetFirstPage(ctx, pageSize)
		if err != nil {
			logger.Warnw("catalog_cache_read_failed", "error", err)
		} else if hit {
			return snapshot.Items, snapshot.Total, nil
		}
	}

	products, total, err := s.repo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       query.Search,
		CategorySlug: query.CategorySlug,
		OnlyActive:   true,
		WithCategory: true,
	})
	if err != nil {
		return nil, 0, err
	}

	if cacheable {
		if err := s.catalog.SetFirstPage(ctx, &cache.CatalogPage{Items: products, Total: total, PageSize: pageSize}); err != nil {
			logger.Warnw("catalog_cache_write_failed", "error", err)
		}
	}
	return products, total, nil
}

// GetPublicBySlug 获取上架商品详情
func (s *ProductService) GetPublicBySlug(slug string) (*models.Product, error) {
	product, err := s.repo.GetBySlug(strings.TrimSpace(slug), true)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ListAdmin 管理端商品列表（含下架）
func (s *ProductService) ListAdmin(search string, categoryID uint, page, pageSize int) ([]models.Product, int64, error) {
	page, pageSize = normalizePagination(page, pageSize)
	return s.repo.List(repository.ProductListFilter{
		Page:         page,
		PageSize:     pageSize,
		Search:       search,
		CategoryID:   categoryID,
		WithCategory: true,
	})
}

// Create 创建商品
func (s *ProductService) Create(input ProductInput) (*models.Product, error) {
	input, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.CountBySlug(input.Slug, 0)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	product := &models.Product{}
	applyProductInput(product, input)
	if err := s.repo.Create(product); err != nil {
		return nil, err
	}
	s.invalidate()
	return product, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, input ProductInput) (*models.Product, error) {
	input, err := s.normalizeInput(input)
	if err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}
	count, err := s.repo.CountBySlug(input.Slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	applyProductInput(product, input)
	product.Category = nil
	if err := s.repo.Update(product); err != nil {
		return nil, err
	}
	s.invalidate()
	return product, nil
}

// Deactivate 下架商品（商品不做物理删除，历史订单仍引用）
func (s *ProductService) Deactivate(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}
	if !product.IsActive {
		return nil
	}
	product.IsActive = false
	product.Category = nil
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *ProductService) normalizeInput(input ProductInput) (ProductInput, error) {
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	if input.Slug == "" || input.Name == "" {
		return input, validationf("slug and name are required")
	}
	if input.Price.IsNegative() {
		return input, validationf("price cannot be negative")
	}
	if input.CategoryID == 0 {
		return input, validationf("category_id is required")
	}
	category, err := s.categories.GetByID(input.CategoryID)
	if err != nil {
		return input, err
	}
	if category == nil {
		return input, ErrCategoryNotFound
	}
	tags := make([]string, 0, len(input.Tags))
	for _, tag := range input.Tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	input.Tags = tags
	return input, nil
}

func applyProductInput(product *models.Product, input ProductInput) {
	product.CategoryID = input.CategoryID
	product.Slug = input.Slug
	product.Name = input.Name
	product.Description = input.Description
	product.PreviewURL = strings.TrimSpace(input.PreviewURL)
	product.CoverImageURL = strings.TrimSpace(input.CoverImageURL)
	product.Tags = models.StringArray(input.Tags)
	product.Price = models.NewMoneyFromDecimal(input.Price.Decimal)
	product.IsActive = input.IsActive
	product.SortOrder = input.SortOrder
}

func (s *ProductService) invalidate() {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(context.Background()); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}
