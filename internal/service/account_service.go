package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/constants"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const defaultBcryptCost = 12

// AccountView 账号对外投影（不含密码哈希）
type AccountView struct {
	ID            uint        `json:"id"`
	Name          string      `json:"name"`
	Email         string      `json:"email"`
	Phone         string      `json:"phone"`
	Provider      string      `json:"provider"`
	EmailVerified bool        `json:"email_verified"`
	PhoneVerified bool        `json:"phone_verified"`
	PhonePending  bool        `json:"phone_pending"`
	Role          models.Role `json:"role"`
	Active        bool        `json:"active"`
	LastLoginAt   *time.Time  `json:"last_login_at"`
	CreatedAt     time.Time   `json:"created_at"`
}

// NewAccountView 生成账号投影
func NewAccountView(account *models.Account) *AccountView {
	if account == nil {
		return nil
	}
	view := &AccountView{
		ID:            account.ID,
		Name:          account.Name,
		Email:         account.Email,
		Phone:         account.Phone,
		Provider:      account.Provider,
		EmailVerified: account.EmailVerified,
		PhoneVerified: account.PhoneVerified,
		PhonePending:  account.HasPendingPhone(),
		Role:          account.Role,
		Active:        account.Active,
		LastLoginAt:   account.LastLoginAt,
		CreatedAt:     account.CreatedAt,
	}
	if view.PhonePending {
		view.Phone = ""
	}
	return view
}

// RegisterInput 注册参数
type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Code     string
}

// SessionResult 登录结果
type SessionResult struct {
	Account   *AccountView
	Token     string
	ExpiresAt time.Time
}

// UpdateProfileInput 资料修改参数，nil 表示不修改
type UpdateProfileInput struct {
	Name  *string
	Phone *string
}

// AccountService 账号凭证存储：注册、登录、找回密码、外部身份登录、资料维护
type AccountService struct {
	accounts   repository.AccountRepository
	ledger     *CodeLedger
	tokens     *TokenService
	external   *ExternalIdentityVerifier
	policy     config.PasswordPolicyConfig
	bcryptCost int
	now        func() time.Time
}

// NewAccountService 创建账号服务
func NewAccountService(
	cfg config.SecurityConfig,
	accounts repository.AccountRepository,
	ledger *CodeLedger,
	tokens *TokenService,
	external *ExternalIdentityVerifier,
) *AccountService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = defaultBcryptCost
	}
	return &AccountService{
		accounts:   accounts,
		ledger:     ledger,
		tokens:     tokens,
		external:   external,
		policy:     cfg.PasswordPolicy,
		bcryptCost: cost,
		now:        time.Now,
	}
}

// Register 校验字段、唯一性与已验证的注册验证码后创建账号
//
// 失败顺序固定：字段缺失 -> 手机号格式 -> 邮箱格式与密码策略 -> 邮箱/手机号唯一 -> 验证码核销 -> 写入。
// 核销之前不会产生任何写操作。
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (*AccountView, error) {
	name := strings.TrimSpace(input.Name)
	email := normalizeEmail(input.Email)
	phone := strings.TrimSpace(input.Phone)
	code := strings.TrimSpace(input.Code)

	if isBlank(name, email, phone, input.Password, code) {
		return nil, ErrMissingFields
	}
	if !IsValidPhone(phone) {
		return nil, ErrInvalidPhone
	}
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}
	if err := validatePassword(s.policy, input.Password); err != nil {
		return nil, err
	}

	exists, err := s.accounts.ExistsByEmailOrPhone(ctx, email, phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAccountExists
	}

	var created *models.Account
	err = s.accounts.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.ledger.ConsumeTx(ctx, tx, email, code, constants.VerifyPurposeRegistration); err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
		if err != nil {
			return err
		}
		hashed := string(hash)
		account := &models.Account{
			Name:          name,
			Email:         email,
			Phone:         phone,
			PasswordHash:  &hashed,
			Provider:      constants.AccountProviderLocal,
			EmailVerified: true,
			Role:          models.RoleMember,
			Active:        true,
		}
		if err := s.accounts.WithTx(tx).Create(ctx, account); err != nil {
			if isUniqueViolation(err) {
				return ErrAccountExists
			}
			return err
		}
		created = account
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("account_registered", "account_id", created.ID, "email", created.Email)
	return NewAccountView(created), nil
}

// Login 邮箱密码登录
func (s *AccountService) Login(ctx context.Context, email, password string) (*SessionResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if account == nil || account.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !account.Active {
		return nil, ErrAccountDisabled
	}
	return s.startSession(ctx, account)
}

// SendVerificationCode 按用途签发验证码：注册要求邮箱未被占用，重置要求账号存在
func (s *AccountService) SendVerificationCode(ctx context.Context, email, purpose string) error {
	email = normalizeEmail(email)
	purpose = strings.ToLower(strings.TrimSpace(purpose))
	switch purpose {
	case constants.VerifyPurposeRegistration:
		if !isValidEmail(email) {
			return ErrInvalidEmail
		}
		existing, err := s.accounts.GetByEmail(ctx, email)
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAccountExists
		}
		_, err = s.ledger.Issue(ctx, email, purpose)
		return err
	case constants.VerifyPurposePasswordReset:
		return s.SendPasswordResetCode(ctx, email)
	default:
		return ErrInvalidPurpose
	}
}

// VerifyCode 验证验证码持有
func (s *AccountService) VerifyCode(ctx context.Context, email, code, purpose string) error {
	return s.ledger.Verify(ctx, email, code, strings.ToLower(strings.TrimSpace(purpose)))
}

// SendPasswordResetCode 为已存在的账号签发重置验证码
func (s *AccountService) SendPasswordResetCode(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}
	_, err = s.ledger.Issue(ctx, email, constants.VerifyPurposePasswordReset)
	return err
}

// ResetPassword 核销重置验证码并更新密码
func (s *AccountService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	email = normalizeEmail(email)
	if isBlank(email, code, newPassword) {
		return validationf("email, code and new password are required")
	}
	if err := validatePassword(s.policy, newPassword); err != nil {
		return err
	}
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrAccountNotFound
	}

	return s.accounts.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.ledger.ConsumeTx(ctx, tx, email, code, constants.VerifyPurposePasswordReset); err != nil {
			return err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
		if err != nil {
			return err
		}
		_, err = s.accounts.WithTx(tx).UpdateFields(ctx, account.ID, map[string]interface{}{
			"password_hash": string(hash),
		})
		return err
	})
}

// SignInExternal 外部身份登录，首次登录时以占位手机号创建账号
func (s *AccountService) SignInExternal(ctx context.Context, idToken string) (*SessionResult, error) {
	identity, err := s.external.Verify(idToken)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.GetByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		name := identity.Name
		if name == "" {
			name = strings.SplitN(identity.Email, "@", 2)[0]
		}
		account = &models.Account{
			Name:          name,
			Email:         identity.Email,
			Phone:         models.PendingPhonePrefix + uuid.NewString(),
			Provider:      identity.Provider,
			EmailVerified: true,
			PhoneVerified: false,
			Role:          models.RoleMember,
			Active:        true,
		}
		if err := s.accounts.Create(ctx, account); err != nil {
			if !isUniqueViolation(err) {
				return nil, err
			}
			// 并发首次登录，回读已创建的账号
			account, err = s.accounts.GetByEmail(ctx, identity.Email)
			if err != nil {
				return nil, err
			}
			if account == nil {
				return nil, ErrAccountExists
			}
		} else {
			logger.Infow("account_created_from_external_identity", "account_id", account.ID, "provider", identity.Provider)
		}
	}
	if !account.Active {
		return nil, ErrAccountDisabled
	}
	return s.startSession(ctx, account)
}

// GetProfile 按会话邮箱获取资料
func (s *AccountService) GetProfile(ctx context.Context, email string) (*AccountView, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}
	return NewAccountView(account), nil
}

// UpdateProfile 修改姓名或手机号；手机号变更会重置手机号验证状态
func (s *AccountService) UpdateProfile(ctx context.Context, email string, input UpdateProfileInput) (*AccountView, error) {
	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, validationf("name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if !IsValidPhone(phone) {
			return nil, ErrInvalidPhone
		}
		if phone != account.Phone {
			taken, err := s.accounts.ExistsByPhoneExcluding(ctx, phone, account.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, ErrPhoneTaken
			}
			updates["phone"] = phone
			updates["phone_verified"] = false
		}
	}
	if len(updates) > 0 {
		if _, err := s.accounts.UpdateFields(ctx, account.ID, updates); err != nil {
			if isUniqueViolation(err) {
				return nil, ErrPhoneTaken
			}
			return nil, err
		}
	}

	refreshed, err := s.accounts.GetByID(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	return NewAccountView(refreshed), nil
}

func (s *AccountService) startSession(ctx context.Context, account *models.Account) (*SessionResult, error) {
	token, expiresAt, err := s.tokens.Issue(account)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if _, err := s.accounts.UpdateFields(ctx, account.ID, map[string]interface{}{"last_login_at": now}); err != nil {
		logger.Warnw("account_last_login_update_failed", "account_id", account.ID, "error", err)
	} else {
		account.LastLoginAt = &now
	}
	return &SessionResult{
		Account:   NewAccountView(account),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint") ||
		strings.Contains(message, "duplicate key") ||
		strings.Contains(message, "unique failed")
}
