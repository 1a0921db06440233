package models

import "time"

// Order 订单表
type Order struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo       string     `gorm:"type:varchar(40);uniqueIndex;not null" json:"order_no"`     // 订单编号
	AccountID     uint       `gorm:"index;not null" json:"account_id"`                          // 下单账号
	Status        string     `gorm:"type:varchar(20);index;not null" json:"status"`             // 订单状态
	Currency      string     `gorm:"type:varchar(8);not null" json:"currency"`                  // 币种
	TotalAmount   Money      `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单金额
	Customization JSON       `gorm:"type:json" json:"customization"`                            // 定制信息（新人姓名、日期、寄语）
	CompletedAt   *time.Time `gorm:"index" json:"completed_at"`                                 // 完成时间
	CanceledAt    *time.Time `gorm:"index" json:"canceled_at"`                                  // 取消时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time  `gorm:"index" json:"updated_at"`                                   // 更新时间

	Items   []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`     // 订单项
	Account *Account    `gorm:"foreignKey:AccountID" json:"account,omitempty"` // 下单账号
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
