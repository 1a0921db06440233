package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"gorm.io/gorm"
)

// AccountRepository 账号数据访问接口
type AccountRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error)
	ExistsByPhoneExcluding(ctx context.Context, phone string, excludeID uint) (bool, error)
	Create(ctx context.Context, account *models.Account) error
	UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) (int64, error)
	List(ctx context.Context, filter AccountListFilter) ([]models.Account, int64, error)
	PromoteFirstAdministrator(ctx context.Context, email string) (int64, error)
	CountByRole(ctx context.Context, role models.Role) (int64, error)
	DemoteKeepingAdministrator(ctx context.Context, id uint, role models.Role) (int64, error)
	Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) AccountRepository
}

// GormAccountRepository GORM 实现
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository 创建账号仓库
func NewAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// WithTx 绑定事务
func (r *GormAccountRepository) WithTx(tx *gorm.DB) AccountRepository {
	if tx == nil {
		return r
	}
	return &GormAccountRepository{db: tx}
}

// Transaction 执行事务
func (r *GormAccountRepository) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if fn == nil {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(fn)
}

// GetByEmail 根据邮箱获取账号，不存在返回 nil
func (r *GormAccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetByID 根据 ID 获取账号
func (r *GormAccountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := r.db.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// ExistsByEmailOrPhone 单条析取查询判断邮箱或手机号是否已被占用
func (r *GormAccountRepository) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("email = ? OR phone = ?", email, phone).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByPhoneExcluding 判断手机号是否被其他账号占用
func (r *GormAccountRepository) ExistsByPhoneExcluding(ctx context.Context, phone string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("phone = ? AND id <> ?", phone, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create 创建账号
func (r *GormAccountRepository) Create(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

// UpdateFields 按 ID 更新指定字段
func (r *GormAccountRepository) UpdateFields(ctx context.Context, id uint, updates map[string]interface{}) (int64, error) {
	if len(updates) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.Account{}).Where("id = ?", id).Updates(updates)
	return result.RowsAffected, result.Error
}

// List 账号列表
func (r *GormAccountRepository) List(ctx context.Context, filter AccountListFilter) ([]models.Account, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Account{})

	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		condition, args := buildLikeCondition(r.db, keyword, "email", "name", "phone")
		query = query.Where(condition, args...)
	}
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var accounts []models.Account
	if err := query.Order("id DESC").Find(&accounts).Error; err != nil {
		return nil, 0, err
	}
	return accounts, total, nil
}

// PromoteFirstAdministrator 仅当不存在任何管理员时提升指定账号，单条条件更新避免并发双写
func (r *GormAccountRepository) PromoteFirstAdministrator(ctx context.Context, email string) (int64, error) {
	db := r.db.WithContext(ctx)
	adminExists := db.Session(&gorm.Session{NewDB: true}).
		Model(&models.Account{}).
		Select("1").
		Where("role = ?", models.RoleAdministrator)

	result := db.Model(&models.Account{}).
		Where("email = ?", email).
		Where("NOT EXISTS (?)", adminExists).
		Update("role", models.RoleAdministrator)
	return result.RowsAffected, result.Error
}

// DemoteKeepingAdministrator 把账号改为非管理员角色，若其为最后一名管理员则不更新
func (r *GormAccountRepository) DemoteKeepingAdministrator(ctx context.Context, id uint, role models.Role) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", id).
		Where("(role <> ? OR EXISTS (SELECT 1 FROM accounts AS other WHERE other.role = ? AND other.id <> ?))",
			models.RoleAdministrator, models.RoleAdministrator, id).
		Update("role", role)
	return result.RowsAffected, result.Error
}

// CountByRole 统计角色人数
func (r *GormAccountRepository) CountByRole(ctx context.Context, role models.Role) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Account{}).Where("role = ?", role).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
