package idp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"acmex/globals"

	"github.com/golang-jwt/jwt/v5"
)

func TestMintCustomToken(t *testing.T) {
	c := New()
	tok, err := c.MintCustomToken("jane@example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	parsed, err := jwt.ParseWithClaims(tok, &customClaims{}, func(*jwt.Token) (interface{}, error) {
		return globals.JwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not verify: %v", err)
	}
	claims := parsed.Claims.(*customClaims)
	if claims.Subject != "jane@example.com" || claims.UID != "jane@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func testClient(srv *httptest.Server) *Client {
	return &Client{BaseURL: srv.URL, APIKey: "k", HTTP: srv.Client()}
}

func TestExchangeCustomToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts:signInWithCustomToken", func(w http.ResponseWriter, r *http.Request) {
		var in struct {
			Token string `json:"token"`
		}
		json.NewDecoder(r.Body).Decode(&in)
		if in.Token != "custom-tok" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"idToken": "id-tok"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	got, err := testClient(srv).ExchangeCustomToken(context.Background(), "custom-tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "id-tok" {
		t.Fatalf("expected id-tok, got %q", got)
	}
}

func TestVerifyIDToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts:lookup", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"users": []map[string]string{{"email": "jane@example.com"}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	email, err := testClient(srv).VerifyIDToken(context.Background(), "id-tok")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if email != "jane@example.com" {
		t.Fatalf("expected jane@example.com, got %q", email)
	}
}

func TestVerifyIDTokenUnknownUser(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/accounts:lookup", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"users": []map[string]string{}})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	if _, err := testClient(srv).VerifyIDToken(context.Background(), "bad"); !errors.Is(err, ErrIdentity) {
		t.Fatalf("expected identity error, got %v", err)
	}
}
