package router

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/config"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
	"github.com/Memoriestore01/Memoriestore-sub001/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const routerTestPassword = "secret123"

type routerTestEnv struct {
	cfg       *config.Config
	db        *gorm.DB
	container *provider.Container
	seq       int
}

func newRouterTestEnv(t *testing.T) *routerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		JWT:    config.JWTConfig{SecretKey: "router-test-secret", Issuer: "memoriestore-test", ExpireHours: 1},
		Security: config.SecurityConfig{
			BcryptCost:     bcrypt.MinCost,
			PasswordPolicy: config.PasswordPolicyConfig{MinLength: 6},
		},
		Verification: config.VerificationConfig{CodeExpireMinutes: 10},
	}
	container, err := provider.NewContainer(cfg, db)
	if err != nil {
		t.Fatalf("new container failed: %v", err)
	}
	t.Cleanup(container.Close)
	return &routerTestEnv{cfg: cfg, db: db, container: container}
}

func (e *routerTestEnv) createAccount(t *testing.T, email string, role models.Role) *models.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(routerTestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password failed: %v", err)
	}
	hashed := string(hash)
	e.seq++
	account := &models.Account{
		Name:          "Test " + email,
		Email:         email,
		Phone:         fmt.Sprintf("555%07d", e.seq),
		PasswordHash:  &hashed,
		Provider:      "local",
		EmailVerified: true,
		Role:          role,
		Active:        true,
	}
	if err := e.db.Create(account).Error; err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	return account
}

func (e *routerTestEnv) token(t *testing.T, account *models.Account) string {
	t.Helper()
	token, _, err := e.container.TokenService.Issue(account)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	return token
}
