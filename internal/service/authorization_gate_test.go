package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
)

func TestGateRequireMember(t *testing.T) {
	f := newAuthFixture(t)
	if err := f.gate.RequireMember(""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty session should be unauthorized, got %v", err)
	}
	if err := f.gate.RequireMember("a@x.com"); err != nil {
		t.Fatalf("session should pass: %v", err)
	}
}

func TestGateRequireAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	member := f.register(t, "Ana", testEmail, "5551234567", "secret")

	if _, err := f.gate.RequireAdmin(ctx, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("no session should be unauthorized, got %v", err)
	}
	if _, err := f.gate.RequireAdmin(ctx, "ghost@example.com"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("deleted account should be unauthorized, got %v", err)
	}
	if _, err := f.gate.RequireAdmin(ctx, testEmail); !errors.Is(err, ErrForbidden) {
		t.Fatalf("member should be forbidden, got %v", err)
	}

	if _, err := f.accounts.UpdateFields(ctx, member.ID, map[string]interface{}{"role": models.RoleAdministrator}); err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	account, err := f.gate.RequireAdmin(ctx, testEmail)
	if err != nil {
		t.Fatalf("administrator should pass: %v", err)
	}
	if !account.Role.IsAdministrator() {
		t.Fatalf("unexpected role %v", account.Role)
	}

	// 每次请求重新读取，降级立即生效
	if _, err := f.accounts.UpdateFields(ctx, member.ID, map[string]interface{}{"role": models.RoleMember}); err != nil {
		t.Fatalf("demote failed: %v", err)
	}
	if _, err := f.gate.RequireAdmin(ctx, testEmail); !errors.Is(err, ErrForbidden) {
		t.Fatalf("demoted account should be forbidden, got %v", err)
	}

	if _, err := f.accounts.UpdateFields(ctx, member.ID, map[string]interface{}{"active": false}); err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if _, err := f.gate.RequireAccount(ctx, testEmail); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("disabled account should be unauthorized, got %v", err)
	}
}

func TestClaimFirstAdmin(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.register(t, "Ana", testEmail, "5551234567", "secret")
	f.register(t, "Bo", "bo@example.com", "5550000000", "secret")

	if _, err := f.gate.ClaimFirstAdmin(ctx, "ghost@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown account should be not found, got %v", err)
	}

	view, err := f.gate.ClaimFirstAdmin(ctx, testEmail)
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if view.Role != models.RoleAdministrator {
		t.Fatalf("expected administrator, got %v", view.Role)
	}

	if _, err := f.gate.ClaimFirstAdmin(ctx, "bo@example.com"); !errors.Is(err, ErrConflict) {
		t.Fatalf("second claim should conflict, got %v", err)
	}
	if _, err := f.gate.ClaimFirstAdmin(ctx, testEmail); !errors.Is(err, ErrAdministratorExists) {
		t.Fatalf("repeat claim should conflict, got %v", err)
	}
	admins, err := f.accounts.CountByRole(ctx, models.RoleAdministrator)
	if err != nil {
		t.Fatalf("count admins failed: %v", err)
	}
	if admins != 1 {
		t.Fatalf("expected exactly one administrator, got %d", admins)
	}
}

func TestClaimFirstAdminConcurrent(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	emails := []string{"a1@example.com", "a2@example.com", "a3@example.com", "a4@example.com"}
	for i, email := range emails {
		f.register(t, "User", email, []string{"5550000001", "5550000002", "5550000003", "5550000004"}[i], "secret")
	}

	var wg sync.WaitGroup
	results := make([]error, len(emails))
	for i, email := range emails {
		wg.Add(1)
		go func(i int, email string) {
			defer wg.Done()
			_, results[i] = f.gate.ClaimFirstAdmin(ctx, email)
		}(i, email)
	}
	wg.Wait()

	winners := 0
	for _, err := range results {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, ErrConflict):
		default:
			t.Fatalf("unexpected claim error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
}
