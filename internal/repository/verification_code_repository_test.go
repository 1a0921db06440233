package repository

import (
	"context"
	"testing"
	"time"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
)

func TestVerificationCodeReplaceScopeKeepsLatestOnly(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewVerificationCodeRepository(db)
	ctx := context.Background()
	now := time.Now()

	first := &models.VerificationCode{Contact: "ana@example.com", Purpose: "registration", Code: "111111", ExpiresAt: now.Add(time.Minute), CreatedAt: now}
	if err := repo.ReplaceScope(ctx, first); err != nil {
		t.Fatalf("issue first failed: %v", err)
	}
	other := &models.VerificationCode{Contact: "ana@example.com", Purpose: "password_reset", Code: "333333", ExpiresAt: now.Add(time.Minute), CreatedAt: now}
	if err := repo.ReplaceScope(ctx, other); err != nil {
		t.Fatalf("issue other purpose failed: %v", err)
	}
	second := &models.VerificationCode{Contact: "ana@example.com", Purpose: "registration", Code: "222222", ExpiresAt: now.Add(time.Minute), CreatedAt: now}
	if err := repo.ReplaceScope(ctx, second); err != nil {
		t.Fatalf("issue second failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.VerificationCode{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("one record per scope expected, got %d", count)
	}
	latest, err := repo.FindLatestActive(ctx, "ana@example.com", "registration", now)
	if err != nil || latest == nil || latest.Code != "222222" {
		t.Fatalf("latest code want 222222 got %+v err=%v", latest, err)
	}
}

func TestVerificationCodeExpiryAndStateGuards(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewVerificationCodeRepository(db)
	ctx := context.Background()
	now := time.Now()

	record := &models.VerificationCode{Contact: "ana@example.com", Purpose: "registration", Code: "123456", ExpiresAt: now.Add(time.Minute), CreatedAt: now}
	if err := repo.ReplaceScope(ctx, record); err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	expired, err := repo.FindLatestActive(ctx, "ana@example.com", "registration", now.Add(2*time.Minute))
	if err != nil || expired != nil {
		t.Fatalf("expired record should be invisible, got %+v err=%v", expired, err)
	}

	affected, err := repo.DeleteVerified(ctx, record.ID)
	if err != nil || affected != 0 {
		t.Fatalf("unverified record must not be consumed, affected=%d err=%v", affected, err)
	}
	affected, err = repo.MarkVerified(ctx, record.ID)
	if err != nil || affected != 1 {
		t.Fatalf("mark verified want 1 got %d err=%v", affected, err)
	}
	affected, err = repo.MarkVerified(ctx, record.ID)
	if err != nil || affected != 0 {
		t.Fatalf("second mark verified want 0 got %d err=%v", affected, err)
	}

	removed, err := repo.DeleteExpired(ctx, now.Add(2*time.Minute))
	if err != nil || removed != 1 {
		t.Fatalf("sweep want 1 got %d err=%v", removed, err)
	}
}
