package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"acmex/models"
)

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	if bearerToken(r) != "" {
		t.Error("expected empty token without header")
	}

	r.Header.Set("Authorization", "Bearer abc123")
	if bearerToken(r) != "abc123" {
		t.Errorf("expected abc123, got %q", bearerToken(r))
	}

	r.Header.Set("Authorization", "Basic abc123")
	if bearerToken(r) != "" {
		t.Error("expected empty token for non-bearer scheme")
	}
}

func TestVetActorRefusesBanned(t *testing.T) {
	active := &models.Actor{ActorID: "a1", Roles: []string{models.RoleExplorer}}
	if code, _ := vetActor(active); code != 0 {
		t.Fatalf("expected active actor to pass, got %d", code)
	}

	banned := &models.Actor{ActorID: "a2", Banned: true, Roles: []string{models.RoleExplorer}}
	code, msg := vetActor(banned)
	if code != http.StatusForbidden {
		t.Fatalf("expected 403 for banned actor, got %d", code)
	}
	if msg == "" {
		t.Fatal("expected a refusal message")
	}
}
