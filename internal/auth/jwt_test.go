package auth

import (
	"testing"
	"time"
)

func TestIssueAndParseRoundtrip(t *testing.T) {
	pair, err := Issue("teacher1", RoleStaff, "homeroom", "secret", time.Minute, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := Parse(pair.AccessToken, "secret", "homeroom")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.Subject != "teacher1" || claims.Role != RoleStaff {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	pair, _ := Issue("teacher1", RoleStaff, "other-app", "secret", time.Minute, time.Hour)
	if _, err := Parse(pair.AccessToken, "secret", "homeroom"); err == nil {
		t.Fatal("token from another issuer accepted")
	}
}

func TestParseRejectsWrongKey(t *testing.T) {
	pair, _ := Issue("teacher1", RoleStaff, "homeroom", "secret", time.Minute, time.Hour)
	if _, err := Parse(pair.AccessToken, "not-the-key", "homeroom"); err == nil {
		t.Fatal("token signed with another key accepted")
	}
}

func TestParseRejectsExpired(t *testing.T) {
	pair, _ := Issue("teacher1", RoleStaff, "homeroom", "secret", -time.Minute, time.Hour)
	if _, err := Parse(pair.AccessToken, "secret", "homeroom"); err == nil {
		t.Fatal("expired token accepted")
	}
}
