package payments

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testGateway(srv *httptest.Server) *Gateway {
	return &Gateway{
		BaseURL:      srv.URL,
		ClientID:     "cid",
		ClientSecret: "secret",
		Mode:         "sandbox",
		HTTP:         srv.Client(),
	}
}

func fakeProvider(t *testing.T, executeState string) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if _, _, ok := r.BasicAuth(); !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id": "PAY-1",
			"links": []map[string]string{
				{"href": "https://provider.test/approve/PAY-1", "rel": "approval_url"},
			},
		})
	})
	mux.HandleFunc("/v1/payments/payment/PAY-1/execute", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": "PAY-1", "state": executeState})
	})
	return httptest.NewServer(mux)
}

func TestInitiateReturnsApprovalURL(t *testing.T) {
	srv := fakeProvider(t, "approved")
	defer srv.Close()
	g := testGateway(srv)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	url, err := g.Initiate(ctx, "https://app.test/ok", "https://app.test/ko",
		[]Item{{Name: "Trip", Quantity: 1, Price: 110, Currency: "EUR"}}, 110, "trip application")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if url != "https://provider.test/approve/PAY-1" {
		t.Fatalf("unexpected approval url %q", url)
	}
}

func TestSettleApproved(t *testing.T) {
	srv := fakeProvider(t, "approved")
	defer srv.Close()
	g := testGateway(srv)

	s, err := g.Settle(context.Background(), "PAYER-9", "PAY-1", 110)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.PaymentID != "PAY-1" || s.PayerID != "PAYER-9" || s.State != "approved" || s.Amount != 110 {
		t.Fatalf("unexpected settlement %+v", s)
	}
}

func TestSettleRejectedState(t *testing.T) {
	srv := fakeProvider(t, "failed")
	defer srv.Close()
	g := testGateway(srv)

	if _, err := g.Settle(context.Background(), "PAYER-9", "PAY-1", 110); !errors.Is(err, ErrPayment) {
		t.Fatalf("expected payment error, got %v", err)
	}
}

func TestTokenReused(t *testing.T) {
	var tokenCalls int
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		json.NewEncoder(w).Encode(map[string]any{"access_token": "tok", "expires_in": 3600})
	})
	mux.HandleFunc("/v1/payments/payment", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "PAY-1",
			"links": []map[string]string{{"href": "https://x", "rel": "approval_url"}},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	g := testGateway(srv)

	for i := 0; i < 3; i++ {
		if _, err := g.Initiate(context.Background(), "https://a", "https://b", nil, 10, ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if tokenCalls != 1 {
		t.Fatalf("expected a single token request, got %d", tokenCalls)
	}
}
