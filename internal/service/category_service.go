package service

import (
	"context"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/cache"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
)

// CategoryService 分类业务服务
type CategoryService struct {
	repo    repository.CategoryRepository
	catalog *cache.CatalogCache
}

// NewCategoryService 创建分类服务
func NewCategoryService(repo repository.CategoryRepository, catalog *cache.CatalogCache) *CategoryService {
	return &CategoryService{repo: repo, catalog: catalog}
}

// CategoryInput 创建/更新分类输入
type CategoryInput struct {
	Slug      string
	Name      string
	Icon      string
	SortOrder int
}

// List 获取分类列表
func (s *CategoryService) List() ([]models.Category, error) {
	return s.repo.List()
}

// Create 创建分类
func (s *CategoryService) Create(input CategoryInput) (*models.Category, error) {
	input, err := normalizeCategoryInput(input)
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

	category := models.Category{
		Slug:      input.Slug,
		Name:      input.Name,
		Icon:      input.Icon,
		SortOrder: input.SortOrder,
	}
	if err := s.repo.Create(&category); err != nil {
		return nil, err
	}
	s.invalidate()
	return &category, nil
}

// Update 更新分类
func (s *CategoryService) Update(id uint, input CategoryInput) (*models.Category, error) {
	input, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}
	category, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrCategoryNotFound
	}
	count, err := s.repo.CountBySlug(input.Slug, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrSlugExists
	}

	category.Slug = input.Slug
	category.Name = input.Name
	category.Icon = input.Icon
	category.SortOrder = input.SortOrder
	if err := s.repo.Update(category); err != nil {
		return nil, err
	}
	s.invalidate()
	return category, nil
}

// Delete 删除分类，仍有关联商品时拒绝
func (s *CategoryService) Delete(id uint) error {
	category, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if category == nil {
		return ErrCategoryNotFound
	}
	count, err := s.repo.CountProducts(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *CategoryService) invalidate() {
	if s.catalog == nil {
		return
	}
	if err := s.catalog.Invalidate(context.Background()); err != nil {
		logger.Warnw("catalog_cache_invalidate_failed", "error", err)
	}
}

func normalizeCategoryInput(input CategoryInput) (CategoryInput, error) {
	input.Slug = strings.ToLower(strings.TrimSpace(input.Slug))
	input.Name = strings.TrimSpace(input.Name)
	input.Icon = strings.TrimSpace(input.Icon)
	if input.Slug == "" || input.Name == "" {
		return input, validationf("slug and name are required")
	}
	return input, nil
}
