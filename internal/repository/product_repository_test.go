package repository

import (
	"testing"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedCatalog(t *testing.T, db *gorm.DB) (*GormProductRepository, []models.Category) {
	t.Helper()
	categories := []models.Category{
		{Slug: "wedding", Name: "Wedding"},
		{Slug: "birthday", Name: "Birthday"},
	}
	if err := db.Create(&categories).Error; err != nil {
		t.Fatalf("create categories failed: %v", err)
	}
	repo := NewProductRepository(db)
	products := []models.Product{
		{CategoryID: categories[0].ID, Slug: "golden-hour", Name: "Golden Hour", Description: "sunset 100% romance", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(49)), IsActive: true, SortOrder: 2},
		{CategoryID: categories[0].ID, Slug: "floral-arch", Name: "Floral Arch", Description: "flowers", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(59)), IsActive: true, SortOrder: 1},
		{CategoryID: categories[1].ID, Slug: "confetti", Name: "Confetti_Pop", Description: "party", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(19)), IsActive: true},
		{CategoryID: categories[1].ID, Slug: "retired", Name: "Retired", Description: "old", Price: models.NewMoneyFromDecimal(decimal.NewFromInt(9)), IsActive: false},
	}
	for i := range products {
		if err := repo.Create(&products[i]); err != nil {
			t.Fatalf("create product failed: %v", err)
		}
	}
	return repo, categories
}

func TestProductListFilters(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo, _ := seedCatalog(t, db)

	rows, total, err := repo.List(ProductListFilter{OnlyActive: true, Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list active failed: %v", err)
	}
	if total != 3 || len(rows) != 3 {
		t.Fatalf("active products want 3 got total=%d len=%d", total, len(rows))
	}
	if rows[0].Slug != "golden-hour" || rows[2].Slug != "confetti" {
		t.Fatalf("products should be ordered by sort_order desc, got %s..%s", rows[0].Slug, rows[2].Slug)
	}

	rows, total, err = repo.List(ProductListFilter{OnlyActive: true, CategorySlug: "wedding", WithCategory: true})
	if err != nil {
		t.Fatalf("list by category failed: %v", err)
	}
	if total != 2 || rows[0].Category == nil || rows[0].Category.Slug != "wedding" {
		t.Fatalf("category filter unexpected: total=%d rows=%+v", total, rows)
	}

	rows, total, err = repo.List(ProductListFilter{Search: "GOLDEN"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if total != 1 || rows[0].Slug != "golden-hour" {
		t.Fatalf("case-insensitive search unexpected: total=%d", total)
	}

	// 通配符按字面匹配
	_, total, err = repo.List(ProductListFilter{Search: "100%"})
	if err != nil {
		t.Fatalf("percent search failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("literal percent search want 1 got %d", total)
	}
	_, total, err = repo.List(ProductListFilter{Search: "_"})
	if err != nil {
		t.Fatalf("underscore search failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("literal underscore search want 1 got %d", total)
	}

	rows, total, err = repo.List(ProductListFilter{Page: 2, PageSize: 3})
	if err != nil {
		t.Fatalf("paged list failed: %v", err)
	}
	if total != 4 || len(rows) != 1 {
		t.Fatalf("second page want 1 of 4 got len=%d total=%d", len(rows), total)
	}
}

func TestProductGetBySlugRespectsActive(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo, _ := seedCatalog(t, db)

	product, err := repo.GetBySlug("retired", true)
	if err != nil {
		t.Fatalf("get inactive failed: %v", err)
	}
	if product != nil {
		t.Fatalf("inactive product should be hidden")
	}
	product, err = repo.GetBySlug("retired", false)
	if err != nil || product == nil {
		t.Fatalf("admin lookup should see inactive product, err=%v", err)
	}

	count, err := repo.CountBySlug("golden-hour", 0)
	if err != nil || count != 1 {
		t.Fatalf("count by slug want 1 got %d err=%v", count, err)
	}
	golden, _ := repo.GetBySlug("golden-hour", true)
	count, err = repo.CountBySlug("golden-hour", golden.ID)
	if err != nil || count != 0 {
		t.Fatalf("count excluding self want 0 got %d err=%v", count, err)
	}
}
