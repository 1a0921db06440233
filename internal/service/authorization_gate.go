package service

import (
	"context"
	"strings"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"
)

// AuthorizationGate 特权请求的准入判定，每次调用都重新读取账号，不做缓存
type AuthorizationGate struct {
	accounts repository.AccountRepository
}

// NewAuthorizationGate 创建准入判定
func NewAuthorizationGate(accounts repository.AccountRepository) *AuthorizationGate {
	return &AuthorizationGate{accounts: accounts}
}

// RequireMember 要求存在会话身份
func (g *AuthorizationGate) RequireMember(sessionEmail string) error {
	if strings.TrimSpace(sessionEmail) == "" {
		return ErrUnauthorized
	}
	return nil
}

// RequireAccount 要求会话对应一个有效账号，已不存在或已停用的账号视为未登录
func (g *AuthorizationGate) RequireAccount(ctx context.Context, sessionEmail string) (*models.Account, error) {
	if err := g.RequireMember(sessionEmail); err != nil {
		return nil, err
	}
	account, err := g.accounts.GetByEmail(ctx, normalizeEmail(sessionEmail))
	if err != nil {
		return nil, err
	}
	if account == nil || !account.Active {
		return nil, ErrUnauthorized
	}
	return account, nil
}

// RequireAdmin 要求会话账号为管理员
func (g *AuthorizationGate) RequireAdmin(ctx context.Context, sessionEmail string) (*models.Account, error) {
	account, err := g.RequireAccount(ctx, sessionEmail)
	if err != nil {
		return nil, err
	}
	if !account.Role.IsAdministrator() {
		return nil, ErrForbidden
	}
	return account, nil
}

// ClaimFirstAdmin 仅在系统内没有任何管理员时，把指定账号提升为管理员
func (g *AuthorizationGate) ClaimFirstAdmin(ctx context.Context, email string) (*AccountView, error) {
	email = normalizeEmail(email)
	if email == "" || !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	affected, err := g.accounts.PromoteFirstAdministrator(ctx, email)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		admins, err := g.accounts.CountByRole(ctx, models.RoleAdministrator)
		if err != nil {
			return nil, err
		}
		if admins > 0 {
			return nil, ErrAdministratorExists
		}
		return nil, ErrAccountNotFound
	}

	account, err := g.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	logger.Warnw("first_administrator_claimed", "email", email)
	return NewAccountView(account), nil
}
