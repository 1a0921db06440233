package service

import (
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
)

// CartItemDetail 购物车项详情（用于响应）
type CartItemDetail struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice models.Money    `json:"unit_price"`
	Subtotal  models.Money    `json:"subtotal"`
	Product   *models.Product `json:"product"`
}

// CartView 购物车汇总
type CartView struct {
	Items []CartItemDetail `json:"items"`
	Total models.Money     `json:"total"`
}

// UpsertCartItemInput 购物车更新输入
type UpsertCartItemInput struct {
	AccountID uint
	ProductID uint
	Quantity  int
}

// CartService 购物车服务
type CartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService 创建购物车服务
func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// ListByAccount 获取账号购物车，已下架商品会被顺带移出
func (s *CartService) ListByAccount(accountID uint) (*CartView, error) {
	if accountID == 0 {
		return nil, ErrUnauthorized
	}
	items, err := s.cartRepo.ListByAccount(accountID)
	if err != nil {
		return nil, err
	}
	view := &CartView{Items: make([]CartItemDetail, 0, len(items))}
	for _, item := range items {
		product := item.Product
		if product == nil || !product.IsActive {
			_ = s.cartRepo.DeleteByAccountAndProduct(accountID, item.ProductID)
			continue
		}
		subtotal := product.Price.Times(item.Quantity)
		view.Items = append(view.Items, CartItemDetail{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
			Subtotal:  subtotal,
			Product:   product,
		})
		view.Total = view.Total.Plus(subtotal)
	}
	return view, nil
}

// UpsertItem 添加或更新购物车项，数量小于等于 0 时移除
func (s *CartService) UpsertItem(input UpsertCartItemInput) error {
	if input.AccountID == 0 {
		return ErrUnauthorized
	}
	if input.ProductID == 0 {
		return validationf("product_id is required")
	}
	if input.Quantity <= 0 {
		return s.cartRepo.DeleteByAccountAndProduct(input.AccountID, input.ProductID)
	}
	if _, err := loadActiveProduct(s.productRepo, input.ProductID); err != nil {
		return err
	}

	now := time.Now()
	return s.cartRepo.Upsert(&models.CartItem{
		AccountID: input.AccountID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// RemoveItem 删除购物车项
func (s *CartService) RemoveItem(accountID, productID uint) error {
	if accountID == 0 {
		return ErrUnauthorized
	}
	if productID == 0 {
		return validationf("product_id is required")
	}
	return s.cartRepo.DeleteByAccountAndProduct(accountID, productID)
}

func loadActiveProduct(repo repository.ProductRepository, productID uint) (*models.Product, error) {
	product, err := repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || !product.IsActive {
		return nil, ErrProductNotFound
	}
	return product, nil
}
