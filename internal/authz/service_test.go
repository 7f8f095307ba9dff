package authz

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceRoleWithGrantedPolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("customer", "/reviews/:id", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.EnforceRole("CUSTOMER", "/api/v1/reviews/42", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.EnforceRole("CUSTOMER", "/api/v1/reviews/42", "DELETE")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}

	if err := svc.RevokeRolePolicy("CUSTOMER", "/reviews/:id", "GET"); err != nil {
		t.Fatalf("revoke role policy failed: %v", err)
	}
	policies, err := svc.GetRolePolicies("CUSTOMER")
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	if len(policies) != 0 {
		t.Fatalf("expected no policy after revoke, got=%v", policies)
	}
}

func TestNormalizeRole(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "seller", want: "role:SELLER"},
		{in: "role:ADMIN", want: "role:ADMIN"},
		{in: " content editor ", want: "role:CONTENT_EDITOR"},
	}
	for _, item := range cases {
		got, err := NormalizeRole(item.in)
		if err != nil {
			t.Fatalf("normalize role failed, in=%q err=%v", item.in, err)
		}
		if got != item.want {
			t.Fatalf("normalize role failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
	if _, err := NormalizeRole("role:"); err == nil {
		t.Fatalf("expected empty role rejected")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/v1/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "/admin/orders/:id", want: "/admin/orders/:id"},
		{in: "admin/orders", want: "/admin/orders"},
		{in: "/api/v1", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	// 重复初始化不报错
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles again failed: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	wantRoles := map[string]bool{"role:SELLER": true, "role:ADMIN": true}
	for _, role := range roles {
		delete(wantRoles, role)
	}
	if len(wantRoles) != 0 {
		t.Fatalf("builtin roles missing: %v", wantRoles)
	}

	checks := []struct {
		role string
		obj  string
		act  string
		want bool
	}{
		{role: "SELLER", obj: "/api/v1/books", act: "POST", want: true},
		{role: "SELLER", obj: "/api/v1/books/7", act: "DELETE", want: true},
		{role: "SELLER", obj: "/api/v1/admin/stats", act: "GET", want: false},
		{role: "CUSTOMER", obj: "/api/v1/books", act: "POST", want: false},
		{role: "ADMIN", obj: "/api/v1/admin/orders/3/status", act: "PATCH", want: true},
		{role: "ADMIN", obj: "/api/v1/books/7", act: "PUT", want: true},
	}
	for _, item := range checks {
		allow, err := svc.EnforceRole(item.role, item.obj, item.act)
		if err != nil {
			t.Fatalf("enforce failed role=%s obj=%s: %v", item.role, item.obj, err)
		}
		if allow != item.want {
			t.Fatalf("enforce role=%s obj=%s act=%s want=%v got=%v", item.role, item.obj, item.act, item.want, allow)
		}
	}

	if err := svc.DeleteRole("SELLER"); err != ErrBuiltinRole {
		t.Fatalf("expected builtin role delete rejected, got=%v", err)
	}
}
