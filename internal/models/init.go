package models

import (
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"

	"gorm.io/gorm"
)

var defaultCategories = []Category{
	{Slug: "wedding", Name: "Wedding Invitations", SortOrder: 40},
	{Slug: "birthday", Name: "Birthday Invitations", SortOrder: 30},
	{Slug: "baby-shower", Name: "Baby Shower", SortOrder: 20},
	{Slug: "housewarming", Name: "Housewarming", SortOrder: 10},
}

// SeedDefaultCategories 首次启动时写入默认分类，已存在的 slug 跳过
func SeedDefaultCategories(db *gorm.DB) error {
	for _, category := range defaultCategories {
		var count int64
		if err := db.Model(&Category{}).Where("slug = ?", category.Slug).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		item := category
		if err := db.Create(&item).Error; err != nil {
			return err
		}
		logger.Infow("default_category_seeded", "slug", item.Slug)
	}
	return nil
}
