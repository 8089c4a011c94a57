package auth

import (
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := IssueToken("secret", "u1", RoleEvaluator, "Sam Reyes", "sam@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}

	claims, err := ParseToken("secret", token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != RoleEvaluator || claims.Name != "Sam Reyes" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.Subject != "sam@example.com" {
		t.Fatalf("expected subject email, got %q", claims.Subject)
	}
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("secret", "u1", RoleEmployee, "Dana", "dana@example.com", time.Hour)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if _, err := ParseToken("other", token); err == nil {
		t.Fatal("expected invalid token error")
	}
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := IssueToken("secret", "u1", RoleEmployee, "Dana", "dana@example.com", -time.Minute)
	if err != nil {
		t.Fatalf("issue token failed: %v", err)
	}
	if _, err := ParseToken("secret", token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestRolePredicates(t *testing.T) {
	if !CanManageEvaluations(RoleEvaluator) || CanManageEvaluations(RoleEmployee) {
		t.Fatal("unexpected evaluation management permissions")
	}
	if !CanViewAll(RoleHR) || CanViewAll(RoleEvaluator) {
		t.Fatal("unexpected view-all permissions")
	}
	if ValidRole("superuser") {
		t.Fatal("unknown role accepted")
	}
}
