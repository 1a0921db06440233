package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"gorm.io/gorm"
)

// VerificationCodeRepository 一次性验证码数据访问接口
type VerificationCodeRepository interface {
	ReplaceScope(ctx context.Context, record *models.VerificationCode) error
	FindLatestActive(ctx context.Context, contact, purpose string, now time.Time) (*models.VerificationCode, error)
	MarkVerified(ctx context.Context, id uint) (int64, error)
	DeleteVerified(ctx context.Context, id uint) (int64, error)
	DeleteByID(ctx context.Context, id uint) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
	WithTx(tx *gorm.DB) VerificationCodeRepository
}

// GormVerificationCodeRepository GORM 实现
type GormVerificationCodeRepository struct {
	db *gorm.DB
}

// NewVerificationCodeRepository 创建验证码仓库
func NewVerificationCodeRepository(db *gorm.DB) *GormVerificationCodeRepository {
	return &GormVerificationCodeRepository{db: db}
}

// WithTx 绑定事务
func (r *GormVerificationCodeRepository) WithTx(tx *gorm.DB) VerificationCodeRepository {
	if tx == nil {
		return r
	}
	return &GormVerificationCodeRepository{db: tx}
}

// ReplaceScope 删除同一 (contact, purpose) 下的全部记录后写入新记录
func (r *GormVerificationCodeRepository) ReplaceScope(ctx context.Context, record *models.VerificationCode) error {
	if record == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("contact = ? AND purpose = ?", record.Contact, record.Purpose).
			Delete(&models.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(record).Error
	})
}

// FindLatestActive 获取作用域内最新且未过期的记录
func (r *GormVerificationCodeRepository) FindLatestActive(ctx context.Context, contact, purpose string, now time.Time) (*models.VerificationCode, error) {
	var record models.VerificationCode
	err := r.db.WithContext(ctx).
		Where("contact = ? AND purpose = ? AND expires_at > ?", contact, purpose, now).
		Order("id DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

// MarkVerified 未验证 -> 已验证，返回影响行数
func (r *GormVerificationCodeRepository) MarkVerified(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.VerificationCode{}).
		Where("id = ? AND verified = ?", id, false).
		Update("verified", true)
	return result.RowsAffected, result.Error
}

// DeleteVerified 仅删除已验证的记录，返回影响行数
func (r *GormVerificationCodeRepository) DeleteVerified(ctx context.Context, id uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND verified = ?", id, true).
		Delete(&models.VerificationCode{})
	return result.RowsAffected, result.Error
}

// DeleteByID 删除记录
func (r *GormVerificationCodeRepository) DeleteByID(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.VerificationCode{}, id).Error
}

// DeleteExpired 清理已过期记录
func (r *GormVerificationCodeRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.VerificationCode{})
	return result.RowsAffected, result.Error
}
