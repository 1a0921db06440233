package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
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
	return db
}

func createTestAccount(t *testing.T, db *gorm.DB, email, phone string, role models.Role) *models.Account {
	t.Helper()
	account := &models.Account{
		Name:     "Test",
		Email:    email,
		Phone:    phone,
		Provider: "local",
		Role:     role,
		Active:   true,
	}
	if err := db.Create(account).Error; err != nil {
		t.Fatalf("create account failed: %v", err)
	}
	return account
}
