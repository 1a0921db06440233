package models

import "time"

// Product 视频邀请函商品
type Product struct {
	ID            uint        `gorm:"primarykey" json:"id"`                               // 主键
	CategoryID    uint        `gorm:"not null;index" json:"category_id"`                  // 分类ID
	Slug          string      `gorm:"type:varchar(160);uniqueIndex;not null" json:"slug"` // 唯一标识
	Name          string      `gorm:"type:varchar(200);not null" json:"name"`             // 名称
	Description   string      `gorm:"type:text" json:"description"`                       // 描述
	PreviewURL    string      `gorm:"type:varchar(500)" json:"preview_url"`               // 预览视频地址
	CoverImageURL string      `gorm:"type:varchar(500)" json:"cover_image_url"`           // 封面图地址
	Tags          StringArray `gorm:"type:json" json:"tags"`                              // 标签
	Price         Money       `gorm:"type:decimal(20,2);not null;default:0" json:"price"` // 价格
	IsActive      bool        `gorm:"not null;index" json:"is_active"`                    // 是否上架
	SortOrder     int         `gorm:"default:0;index" json:"sort_order"`                  // 排序权重
	CreatedAt     time.Time   `gorm:"index" json:"created_at"`                            // 创建时间
	UpdatedAt     time.Time   `json:"updated_at"`                                         // 更新时间

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}
