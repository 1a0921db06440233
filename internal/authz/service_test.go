package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Memoriestore01/Memoriestore-sub001/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc, db
}

func TestBootstrapGrantsAdministratorAllAdminRoutes(t *testing.T) {
	svc, _ := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap failed: %v", err)
	}
	// 重复执行不报错
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("second bootstrap failed: %v", err)
	}

	cases := []struct {
		role   models.Role
		path   string
		method string
		want   bool
	}{
		{models.RoleAdministrator, "/api/v1/admin/users", "GET", true},
		{models.RoleAdministrator, "/api/v1/admin/users/12/role", "patch", true},
		{models.RoleAdministrator, "/api/v1/admin/orders/3/status", "PATCH", true},
		{models.RoleAdministrator, "/api/v1/me", "GET", false},
		{models.RoleMember, "/api/v1/admin/users", "GET", false},
	}
	for _, tc := range cases {
		allow, err := svc.EnforceRole(tc.role, tc.path, tc.method)
		if err != nil {
			t.Fatalf("enforce %s %s failed: %v", tc.method, tc.path, err)
		}
		if allow != tc.want {
			t.Fatalf("enforce %s %s %s = %v, want %v", tc.role, tc.method, tc.path, allow, tc.want)
		}
	}

	policies, err := svc.GetRolePolicies("administrator")
	if err != nil {
		t.Fatalf("get policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/admin/*" || policies[0].Action != "*" {
		t.Fatalf("unexpected builtin policies: %+v", policies)
	}
}

func TestGrantAndRevokeRolePolicyPersists(t *testing.T) {
	svc, db := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("member", "/admin/orders", "GET"); err != nil {
		t.Fatalf("grant failed: %v", err)
	}

	reloaded, err := NewService(db)
	if err != nil {
		t.Fatalf("reload service failed: %v", err)
	}
	allow, err := reloaded.EnforceRole(models.RoleMember, "/api/v1/admin/orders", "GET")
	if err != nil || !allow {
		t.Fatalf("persisted policy should allow, allow=%v err=%v", allow, err)
	}

	if err := svc.RevokeRolePolicy("role:member", "/admin/orders", "GET"); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}
	allow, err = svc.EnforceRole(models.RoleMember, "/api/v1/admin/orders", "GET")
	if err != nil || allow {
		t.Fatalf("revoked policy should deny, allow=%v err=%v", allow, err)
	}
}

func TestNormalizeRoleRejectsUnknown(t *testing.T) {
	if _, err := NormalizeRole("operations"); err == nil {
		t.Fatalf("unknown role should be rejected")
	}
	got, err := NormalizeRole(" role:Administrator ")
	if err != nil || got != "role:administrator" {
		t.Fatalf("unexpected normalized role: %q err=%v", got, err)
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := map[string]string{
		"":                    "/",
		"admin/users":         "/admin/users",
		"/api/v1":             "/",
		"/api/v1/admin/users": "/admin/users",
	}
	for input, want := range cases {
		if got := NormalizeObject(input); got != want {
			t.Fatalf("NormalizeObject(%q) = %q, want %q", input, got, want)
		}
	}
}
