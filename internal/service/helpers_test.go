package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []sentMail
}

func (m *fakeMailer) Send(_ context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func (m *fakeMailer) last() (sentMail, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMail{}, false
	}
	return m.sent[len(m.sent)-1], true
}

// recordingSender 直接记录验证码，避免从邮件正文里解析
type recordingSender struct {
	err   error
	codes map[string]string
}

func newRecordingSender() *recordingSender {
	return &recordingSender{codes: map[string]string{}}
}

func (s *recordingSender) SendVerificationCode(_ context.Context, to, code, purpose string) error {
	if s.err != nil {
		return s.err
	}
	s.codes[to+"|"+purpose] = code
	return nil
}

func (s *recordingSender) code(to, purpose string) string {
	return s.codes[to+"|"+purpose]
}

var errSMTPDown = errors.New("dial tcp: connection refused")

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

type authFixture struct {
	db       *gorm.DB
	accounts *repository.GormAccountRepository
	codes    *repository.GormVerificationCodeRepository
	sender   *recordingSender
	ledger   *CodeLedger
	tokens   *TokenService
	service  *AccountService
	gate     *AuthorizationGate
	clock    time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := openTestDB(t)
	f := &authFixture{
		db:       db,
		accounts: repository.NewAccountRepository(db),
		codes:    repository.NewVerificationCodeRepository(db),
		sender:   newRecordingSender(),
		clock:    time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	f.ledger = NewCodeLedger(f.codes, f.sender, 10*time.Minute)
	f.ledger.now = func() time.Time { return f.clock }
	f.tokens = NewTokenService(config.JWTConfig{SecretKey: "test-secret", Issuer: "memoriestore-test", ExpireHours: 1})
	external := NewExternalIdentityVerifier(config.ExternalAuthConfig{
		Enabled:  true,
		Provider: "google",
		Issuer:   "https://idp.test",
		Secret:   "idp-secret",
	})
	f.service = NewAccountService(config.SecurityConfig{
		BcryptCost:     bcrypt.MinCost,
		PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6},
	}, f.accounts, f.ledger, f.tokens, external)
	f.gate = NewAuthorizationGate(f.accounts)
	return f
}

func (f *authFixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

// verifiedCode 签发并验证一个验证码，返回明文
func (f *authFixture) verifiedCode(t *testing.T, email, purpose string) string {
	t.Helper()
	ctx := context.Background()
	if _, err := f.ledger.Issue(ctx, email, purpose); err != nil {
		t.Fatalf("issue code failed: %v", err)
	}
	code := f.sender.code(email, purpose)
	if err := f.ledger.Verify(ctx, email, code, purpose); err != nil {
		t.Fatalf("verify code failed: %v", err)
	}
	return code
}

func (f *authFixture) register(t *testing.T, name, email, phone, password string) *AccountView {
	t.Helper()
	code := f.verifiedCode(t, email, "registration")
	view, err := f.service.Register(context.Background(), RegisterInput{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password,
		Code:     code,
	})
	if err != nil {
		t.Fatalf("register %s failed: %v", email, err)
	}
	return view
}

func (f *authFixture) countCodes(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&models.VerificationCode{}).Count(&count).Error; err != nil {
		t.Fatalf("count codes failed: %v", err)
	}
	return count
}

func (f *authFixture) countAccounts(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&models.Account{}).Count(&count).Error; err != nil {
		t.Fatalf("count accounts failed: %v", err)
	}
	return count
}
