package main

import (
	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"github.com/shopspring/decimal"
)

type sampleProduct struct {
	category    string
	slug        string
	name        string
	description string
	price       string
	tags        []string
}

var sampleProducts = []sampleProduct{
	{category: "wedding", slug: "golden-hour-wedding", name: "Golden Hour", description: "Warm sunset tones with a slow reveal of names and date.", price: "49.00", tags: []string{"romantic", "sunset"}},
	{category: "wedding", slug: "floral-arch-wedding", name: "Floral Arch", description: "Animated florals framing a classic invitation card.", price: "59.00", tags: []string{"floral", "classic"}},
	{category: "birthday", slug: "confetti-pop-birthday", name: "Confetti Pop", description: "Bright confetti burst with a countdown.", price: "19.90", tags: []string{"kids", "colorful"}},
	{category: "baby-shower", slug: "little-stars-shower", name: "Little Stars", description: "Soft night sky with twinkling stars.", price: "24.50", tags: []string{"soft", "night"}},
	{category: "housewarming", slug: "open-door-housewarming", name: "Open Door", description: "A front door opens onto your party details.", price: "29.00", tags: []string{"home"}},
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, false, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}
	if err := models.SeedDefaultCategories(models.DB); err != nil {
		stdLog.Fatalf("Failed to seed categories: %v", err)
	}

	var categories []models.Category
	if err := models.DB.Find(&categories).Error; err != nil {
		stdLog.Fatalf("Failed to load categories: %v", err)
	}
	categoryIDs := make(map[string]uint, len(categories))
	for _, category := range categories {
		categoryIDs[category.Slug] = category.ID
	}

	for i, item := range sampleProducts {
		categoryID, ok := categoryIDs[item.category]
		if !ok {
			stdLog.Printf("Category not found for %s: %s", item.slug, item.category)
			continue
		}
		var count int64
		if err := models.DB.Model(&models.Product{}).Where("slug = ?", item.slug).Count(&count).Error; err != nil {
			stdLog.Printf("Failed to check product %s: %v", item.slug, err)
			continue
		}
		if count > 0 {
			stdLog.Printf("Product already exists: %s", item.slug)
			continue
		}
		product := models.Product{
			CategoryID:  categoryID,
			Slug:        item.slug,
			Name:        item.name,
			Description: item.description,
			Tags:        models.StringArray(item.tags),
			Price:       models.NewMoneyFromDecimal(decimal.RequireFromString(item.price)),
			IsActive:    true,
			SortOrder:   len(sampleProducts) - i,
		}
		if err := models.DB.Create(&product).Error; err != nil {
			stdLog.Printf("Failed to create product %s: %v", item.slug, err)
			continue
		}
		stdLog.Printf("Created product: %s", item.slug)
	}

	stdLog.Printf("Seed completed")
}
