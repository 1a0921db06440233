package models

import "time"

// Category 商品分类
type Category struct {
	ID        uint      `gorm:"primarykey" json:"id"`                               // 主键
	Slug      string    `gorm:"type:varchar(120);uniqueIndex;not null" json:"slug"` // 唯一标识
	Name      string    `gorm:"type:varchar(120);not null" json:"name"`             // 名称
	Icon      string    `gorm:"type:varchar(500)" json:"icon"`                      // 图标地址
	SortOrder int       `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt time.Time `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                         // 更新时间
}

// TableName 指定表名
func (Category) TableName() string {
	return "categories"
}
