package service

import (
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
)

// WishlistService 心愿单服务
type WishlistService struct {
	repo        repository.WishlistRepository
	productRepo repository.ProductRepository
}

// NewWishlistService 创建心愿单服务
func NewWishlistService(repo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{repo: repo, productRepo: productRepo}
}

// List 获取心愿单中仍在售的商品
func (s *WishlistService) List(accountID uint) ([]models.Product, error) {
	if accountID == 0 {
		return nil, ErrUnauthorized
	}
	items, err := s.repo.ListByAccount(accountID)
	if err != nil {
		return nil, err
	}
	products := make([]models.Product, 0, len(items))
	for _, item := range items {
		if item.Product == nil || !item.Product.IsActive {
			continue
		}
		products = append(products, *item.Product)
	}
	return products, nil
}

// Add 加入心愿单，重复加入无副作用
func (s *WishlistService) Add(accountID, productID uint) error {
	if accountID == 0 {
		return ErrUnauthorized
	}
	if productID == 0 {
		return validationf("product_id is required")
	}
	if _, err := loadActiveProduct(s.productRepo, productID); err != nil {
		return err
	}
	return s.repo.Add(&models.WishlistItem{AccountID: accountID, ProductID: productID})
}

// Remove 移出心愿单
func (s *WishlistService) Remove(accountID, productID uint) error {
	if accountID == 0 {
		return ErrUnauthorized
	}
	return s.repo.Remove(accountID, productID)
}
