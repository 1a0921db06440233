package models

import "time"

// VerificationCode 一次性验证码记录，按 (contact, purpose) 定位
type VerificationCode struct {
	ID        uint      `gorm:"primarykey" json:"id"`                                                   // 主键
	Contact   string    `gorm:"type:varchar(255);not null;index:idx_verification_scope" json:"contact"` // 接收邮箱
	Purpose   string    `gorm:"type:varchar(32);not null;index:idx_verification_scope" json:"purpose"`  // 用途（registration/password_reset）
	Code      string    `gorm:"type:varchar(16);not null" json:"-"`                                     // 验证码
	ExpiresAt time.Time `gorm:"index" json:"expires_at"`                                                // 过期时间
	Verified  bool      `gorm:"not null;default:false" json:"verified"`                                 // 是否已验证
	CreatedAt time.Time `json:"created_at"`                                                             // 签发时间
}

// TableName 指定表名
func (VerificationCode) TableName() string {
	return "verification_codes"
}
