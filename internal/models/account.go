package models

import (
	"strings"
	"time"
)

// PendingPhonePrefix 外部身份登录账号的占位手机号前缀
const PendingPhonePrefix = "pending:"

// Account 账号表
type Account struct {
	ID            uint       `gorm:"primarykey" json:"id"`                                      // 主键
	Name          string     `gorm:"type:varchar(120);not null" json:"name"`                    // 姓名
	Email         string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`       // 邮箱
	Phone         string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"phone"`        // 手机号（外部身份账号为占位值）
	PasswordHash  *string    `gorm:"type:varchar(255)" json:"-"`                                // 密码哈希（外部身份账号为空）
	Provider      string     `gorm:"type:varchar(32);not null;default:'local'" json:"provider"` // 注册来源
	EmailVerified bool       `gorm:"not null;default:false" json:"email_verified"`              // 邮箱是否已验证
	PhoneVerified bool       `gorm:"not null;default:false" json:"phone_verified"`              // 手机号是否已验证
	Role          Role       `gorm:"type:varchar(20);not null;index" json:"role"`               // 角色
	Active        bool       `gorm:"not null;default:true" json:"active"`                       // 是否启用
	LastLoginAt   *time.Time `json:"last_login_at"`                                             // 最后登录时间
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt     time.Time  `json:"updated_at"`                                                // 更新时间
}

// TableName 指定表名
func (Account) TableName() string {
	return "accounts"
}

// HasPendingPhone 是否仍为占位手机号
func (a *Account) HasPendingPhone() bool {
	return a != nil && IsPendingPhone(a.Phone)
}

// IsPendingPhone 判断手机号是否为占位值
func IsPendingPhone(phone string) bool {
	return strings.HasPrefix(phone, PendingPhonePrefix)
}
