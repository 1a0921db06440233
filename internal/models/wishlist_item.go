package models

import "time"

// WishlistItem 心愿单项
type WishlistItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	AccountID uint      `gorm:"not null;uniqueIndex:idx_wishlist_account_product" json:"account_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_wishlist_account_product" json:"product_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 指定表名
func (WishlistItem) TableName() string {
	return "wishlist_items"
}
