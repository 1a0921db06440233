package repository

import (
	"errors"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"gorm.io/gorm"
)

// CartRepository 购物车数据访问接口
type CartRepository interface {
	ListByAccount(accountID uint) ([]models.CartItem, error)
	Upsert(item *models.CartItem) error
	DeleteByAccountAndProduct(accountID, productID uint) error
	ClearByAccount(accountID uint) error
	WithTx(tx *gorm.DB) CartRepository
}

// GormCartRepository GORM 实现
type GormCartRepository struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(db *gorm.DB) *GormCartRepository {
	return &GormCartRepository{db: db}
}

// WithTx 绑定事务
func (r *GormCartRepository) WithTx(tx *gorm.DB) CartRepository {
	if tx == nil {
		return r
	}
	return &GormCartRepository{db: tx}
}

// ListByAccount 获取购物车项（含商品）
func (r *GormCartRepository) ListByAccount(accountID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.db.Preload("Product").Where("account_id = ?", accountID).Order("updated_at DESC, id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert 添加或更新购物车项
func (r *GormCartRepository) Upsert(item *models.CartItem) error {
	if item == nil {
		return nil
	}
	var existing models.CartItem
	err := r.db.Where("account_id = ? AND product_id = ?", item.AccountID, item.ProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(item).Error
	}
	if err != nil {
		return err
	}
	item.ID = existing.ID
	return r.db.Model(&existing).Updates(map[string]interface{}{
		"quantity":   item.Quantity,
		"updated_at": time.Now(),
	}).Error
}

// DeleteByAccountAndProduct 删除购物车项
func (r *GormCartRepository) DeleteByAccountAndProduct(accountID, productID uint) error {
	return r.db.Where("account_id = ? AND product_id = ?", accountID, productID).Delete(&models.CartItem{}).Error
}

// ClearByAccount 清空购物车
func (r *GormCartRepository) ClearByAccount(accountID uint) error {
	return r.db.Where("account_id = ?", accountID).Delete(&models.CartItem{}).Error
}
