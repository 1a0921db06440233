package service

import (
	"testing"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/cache"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
)

type commerceFixture struct {
	*authFixture
	categories *CategoryService
	products   *ProductService
	cart       *CartService
	wishlist   *WishlistService
	orders     *OrderService
	orderRepo  *repository.GormOrderRepository
	admins     *AccountAdminService
}

func newCommerceFixture(t *testing.T) *commerceFixture {
	t.Helper()
	auth := newAuthFixture(t)
	catalog := cache.NewCatalogCache(0)
	categoryRepo := repository.NewCategoryRepository(auth.db)
	productRepo := repository.NewProductRepository(auth.db)
	cartRepo := repository.NewCartRepository(auth.db)
	orderRepo := repository.NewOrderRepository(auth.db)
	return &commerceFixture{
		authFixture: auth,
		categories:  NewCategoryService(categoryRepo, catalog),
		products:    NewProductService(productRepo, categoryRepo, catalog),
		cart:        NewCartService(cartRepo, productRepo),
		wishlist:    NewWishlistService(repository.NewWishlistRepository(auth.db), productRepo),
		orders:      NewOrderService(orderRepo, cartRepo, nil),
		orderRepo:   orderRepo,
		admins:      NewAccountAdminService(auth.accounts),
	}
}

func (f *commerceFixture) category(t *testing.T, slug string) *models.Category {
	t.Helper()
	category, err := f.categories.Create(CategoryInput{Slug: slug, Name: slug})
	if err != nil {
		t.Fatalf("create category failed: %v", err)
	}
	return category
}

func (f *commerceFixture) product(t *testing.T, categoryID uint, slug, price string, active bool) *models.Product {
	t.Helper()
	amount, err := models.ParseMoney(price)
	if err != nil {
		t.Fatalf("parse price failed: %v", err)
	}
	product, err := f.products.Create(ProductInput{
		CategoryID: categoryID,
		Slug:       slug,
		Name:       "Invitation " + slug,
		Price:      amount,
		IsActive:   active,
		Tags:       []string{"wedding", " "},
	})
	if err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}
