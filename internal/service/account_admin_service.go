package service

import (
	"context"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
)

// AccountAdminService 管理端账号维护
type AccountAdminService struct {
	accounts repository.AccountRepository
}

// NewAccountAdminService 创建管理端账号服务
func NewAccountAdminService(accounts repository.AccountRepository) *AccountAdminService {
	return &AccountAdminService{accounts: accounts}
}

// ListAccountsInput 账号列表查询
type ListAccountsInput struct {
	Keyword  string
	Role     string
	Active   *bool
	Page     int
	PageSize int
}

// List 分页查询账号
func (s *AccountAdminService) List(ctx context.Context, input ListAccountsInput) ([]AccountView, int64, error) {
	page, pageSize := normalizePagination(input.Page, input.PageSize)
	filter := repository.AccountListFilter{
		Page:     page,
		PageSize: pageSize,
		Keyword:  strings.TrimSpace(input.Keyword),
		Active:   input.Active,
	}
	if raw := strings.TrimSpace(input.Role); raw != "" {
		role, err := models.ParseRole(raw)
		if err != nil {
			return nil, 0, ErrInvalidRole
		}
		filter.Role = &role
	}

	accounts, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	views := make([]AccountView, 0, len(accounts))
	for i := range accounts {
		views = append(views, *NewAccountView(&accounts[i]))
	}
	return views, total, nil
}

// SetRole 设置账号角色
func (s *AccountAdminService) SetRole(ctx context.Context, id uint, rawRole string) (*AccountView, error) {
	role, err := models.ParseRole(rawRole)
	if err != nil {
		return nil, ErrInvalidRole
	}
	if role.IsAdministrator() {
		return s.update(ctx, id, map[string]interface{}{"role": role})
	}
	if id == 0 {
		return nil, ErrAccountNotFound
	}

	affected, err := s.accounts.DemoteKeepingAdministrator(ctx, id, role)
	if err != nil {
		return nil, err
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	if affected == 0 {
		// 保留至少一名管理员，否则首个管理员认领会重新开放
		return nil, ErrLastAdministrator
	}
	logger.Infow("account_updated_by_admin", "account_id", id, "fields", []string{"role"})
	return NewAccountView(account), nil
}

// SetActive 启用或停用账号
func (s *AccountAdminService) SetActive(ctx context.Context, id uint, active bool) (*AccountView, error) {
	return s.update(ctx, id, map[string]interface{}{"active": active})
}

func (s *AccountAdminService) update(ctx context.Context, id uint, updates map[string]interface{}) (*AccountView, error) {
	if id == 0 {
		return nil, ErrAccountNotFound
	}
	affected, err := s.accounts.UpdateFields(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAccountNotFound
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	logger.Infow("account_updated_by_admin", "account_id", id, "fields", updatesKeys(updates))
	return NewAccountView(account), nil
}

func updatesKeys(updates map[string]interface{}) []string {
	keys := make([]string, 0, len(updates))
	for key := range updates {
		keys = append(keys, key)
	}
	return keys
}
