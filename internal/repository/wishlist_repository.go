package repository

import (
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WishlistRepository 心愿单数据访问接口
type WishlistRepository interface {
	ListByAccount(accountID uint) ([]models.WishlistItem, error)
	Add(item *models.WishlistItem) error
	Remove(accountID, productID uint) error
}

// GormWishlistRepository GORM 实现
type GormWishlistRepository struct {
	db *gorm.DB
}

// NewWishlistRepository 创建心愿单仓库
func NewWishlistRepository(db *gorm.DB) *GormWishlistRepository {
	return &GormWishlistRepository{db: db}
}

// ListByAccount 获取心愿单（含商品）
func (r *GormWishlistRepository) ListByAccount(accountID uint) ([]models.WishlistItem, error) {
	var items []models.WishlistItem
	if err := r.db.Preload("Product").Where("account_id = ?", accountID).Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Add 幂等添加，已存在时忽略
func (r *GormWishlistRepository) Add(item *models.WishlistItem) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "account_id"}, {Name: "product_id"}},
		DoNothing: true,
	}).Create(item).Error
}

// Remove 移除心愿单项
func (r *GormWishlistRepository) Remove(accountID, productID uint) error {
	return r.db.Where("account_id = ? AND product_id = ?", accountID, productID).Delete(&models.WishlistItem{}).Error
}
