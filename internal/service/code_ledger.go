package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/constants"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/logger"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"

	"gorm.io/gorm"
)

const (
	codeMin           = 100000
	codeSpan          = 900000
	defaultCodeExpiry = 10 * time.Minute
)

// CodeSender 验证码投递
type CodeSender interface {
	SendVerificationCode(ctx context.Context, to, code, purpose string) error
}

// CodeLedger 一次性验证码台账：签发、验证、核销
//
// 每个 (contact, purpose) 作用域的状态流转：
// absent -> issued -> verified -> consumed(删除)，重新签发会回到 issued。
// 过期不做主动删除，查询时按 expires_at 过滤，过期记录等同于不存在。
type CodeLedger struct {
	repo   repository.VerificationCodeRepository
	sender CodeSender
	ttl    time.Duration
	now    func() time.Time
}

// NewCodeLedger 创建验证码台账
func NewCodeLedger(repo repository.VerificationCodeRepository, sender CodeSender, ttl time.Duration) *CodeLedger {
	if ttl <= 0 {
		ttl = defaultCodeExpiry
	}
	return &CodeLedger{
		repo:   repo,
		sender: sender,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue 生成并投递新验证码，同一作用域下旧验证码随之失效
func (l *CodeLedger) Issue(ctx context.Context, contact, purpose string) (*models.VerificationCode, error) {
	contact = normalizeEmail(contact)
	if err := validateContactAndPurpose(contact, purpose); err != nil {
		return nil, err
	}

	code, err := generateNumericCode()
	if err != nil {
		return nil, err
	}
	issuedAt := l.now()
	record := &models.VerificationCode{
		Contact:   contact,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: issuedAt.Add(l.ttl),
		Verified:  false,
		CreatedAt: issuedAt,
	}
	if err := l.repo.ReplaceScope(ctx, record); err != nil {
		return nil, err
	}

	if err := l.sender.SendVerificationCode(ctx, contact, code, purpose); err != nil {
		// 用户收不到的验证码不应继续有效
		if rollbackErr := l.repo.DeleteByID(ctx, record.ID); rollbackErr != nil {
			logger.Errorw("verification_code_rollback_failed",
				"contact", contact,
				"purpose", purpose,
				"error", rollbackErr,
			)
		}
		logger.Warnw("verification_code_delivery_failed", "contact", contact, "purpose", purpose, "error", err)
		return nil, deliveryError(err)
	}

	logger.Infow("verification_code_issued", "contact", contact, "purpose", purpose, "expires_at", record.ExpiresAt)
	return record, nil
}

// Verify 证明持有验证码，成功后 verified 置为 true（单向）
func (l *CodeLedger) Verify(ctx context.Context, contact, code, purpose string) error {
	contact = normalizeEmail(contact)
	code = strings.TrimSpace(code)
	if err := validateContactAndPurpose(contact, purpose); err != nil {
		return err
	}

	record, err := l.repo.FindLatestActive(ctx, contact, purpose, l.now())
	if err != nil {
		return err
	}
	if record == nil || record.Verified || !codesEqual(record.Code, code) {
		return ErrInvalidOrExpired
	}

	affected, err := l.repo.MarkVerified(ctx, record.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidOrExpired
	}
	return nil
}

// Consume 核销已验证且未过期的验证码并删除记录
func (l *CodeLedger) Consume(ctx context.Context, contact, code, purpose string) error {
	return l.consumeWith(ctx, l.repo, contact, code, purpose)
}

// ConsumeTx 在外部事务中核销验证码
func (l *CodeLedger) ConsumeTx(ctx context.Context, tx *gorm.DB, contact, code, purpose string) error {
	return l.consumeWith(ctx, l.repo.WithTx(tx), contact, code, purpose)
}

func (l *CodeLedger) consumeWith(ctx context.Context, repo repository.VerificationCodeRepository, contact, code, purpose string) error {
	contact = normalizeEmail(contact)
	code = strings.TrimSpace(code)
	if err := validateContactAndPurpose(contact, purpose); err != nil {
		return err
	}

	record, err := repo.FindLatestActive(ctx, contact, purpose, l.now())
	if err != nil {
		return err
	}
	if record == nil || !codesEqual(record.Code, code) {
		return ErrInvalidOrExpired
	}
	if !record.Verified {
		return ErrNotVerified
	}

	affected, err := repo.DeleteVerified(ctx, record.ID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrInvalidOrExpired
	}
	return nil
}

// Sweep 清理已过期记录，返回删除条数
func (l *CodeLedger) Sweep(ctx context.Context) (int64, error) {
	return l.repo.DeleteExpired(ctx, l.now())
}

func validateContactAndPurpose(contact, purpose string) error {
	if contact == "" || !isValidEmail(contact) {
		return ErrInvalidEmail
	}
	switch purpose {
	case constants.VerifyPurposeRegistration, constants.VerifyPurposePasswordReset:
		return nil
	default:
		return ErrInvalidPurpose
	}
}

// generateNumericCode 在 [100000, 999999] 上均匀生成 6 位数字
func generateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("generate verification code: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}

func codesEqual(stored, given string) bool {
	if given == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(given)) == 1
}
