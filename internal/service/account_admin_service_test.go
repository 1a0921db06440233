package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"
)

func TestAccountAdminSetRoleAndActive(t *testing.T) {
	f := newCommerceFixture(t)
	ctx := context.Background()
	ana := f.register(t, "Ana", testEmail, "5551234567", "secret")
	f.register(t, "Bo", "bo@example.com", "5550000000", "secret")

	if _, err := f.admins.SetRole(ctx, ana.ID, "superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("unknown role should be invalid, got %v", err)
	}
	view, err := f.admins.SetRole(ctx, ana.ID, "Administrator")
	if err != nil {
		t.Fatalf("set role failed: %v", err)
	}
	if view.Role != models.RoleAdministrator {
		t.Fatalf("unexpected role %v", view.Role)
	}
	if _, err := f.admins.SetRole(ctx, 404, "member"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id should be not found, got %v", err)
	}

	view, err = f.admins.SetActive(ctx, ana.ID, false)
	if err != nil {
		t.Fatalf("disable failed: %v", err)
	}
	if view.Active {
		t.Fatalf("account should be disabled")
	}

	admins, total, err := f.admins.List(ctx, ListAccountsInput{Role: "administrator"})
	if err != nil || total != 1 || admins[0].Email != testEmail {
		t.Fatalf("role filter failed: total=%d err=%v", total, err)
	}
	found, total, err := f.admins.List(ctx, ListAccountsInput{Keyword: "bo@"})
	if err != nil || total != 1 || found[0].Name != "Bo" {
		t.Fatalf("keyword filter failed: total=%d err=%v", total, err)
	}
	if _, _, err := f.admins.List(ctx, ListAccountsInput{Role: "owner"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad role filter should be invalid, got %v", err)
	}
}

func TestAccountAdminKeepsLastAdministrator(t *testing.T) {
	f := newCommerceFixture(t)
	ctx := context.Background()
	ana := f.register(t, "Ana", testEmail, "5551234567", "secret")
	bo := f.register(t, "Bo", "bo@example.com", "5550000000", "secret")

	if _, err := f.gate.ClaimFirstAdmin(ctx, testEmail); err != nil {
		t.Fatalf("claim first admin failed: %v", err)
	}
	_, err := f.admins.SetRole(ctx, ana.ID, "member")
	if !errors.Is(err, ErrLastAdministrator) || !errors.Is(err, ErrConflict) {
		t.Fatalf("demoting the only administrator should conflict, got %v", err)
	}
	if _, err := f.gate.ClaimFirstAdmin(ctx, "bo@example.com"); !errors.Is(err, ErrAdministratorExists) {
		t.Fatalf("bootstrap must stay closed, got %v", err)
	}

	if _, err := f.admins.SetRole(ctx, bo.ID, "administrator"); err != nil {
		t.Fatalf("promote second administrator failed: %v", err)
	}
	view, err := f.admins.SetRole(ctx, ana.ID, "member")
	if err != nil {
		t.Fatalf("demote with another administrator present failed: %v", err)
	}
	if view.Role != models.RoleMember {
		t.Fatalf("unexpected role %v", view.Role)
	}
	if _, err := f.admins.SetRole(ctx, bo.ID, "member"); !errors.Is(err, ErrLastAdministrator) {
		t.Fatalf("remaining administrator should be kept, got %v", err)
	}
	if _, err := f.admins.SetRole(ctx, ana.ID, "member"); err != nil {
		t.Fatalf("member to member should succeed, got %v", err)
	}
	if _, err := f.admins.SetRole(ctx, 404, "member"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id should be not found, got %v", err)
	}
}
