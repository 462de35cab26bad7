package payments

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"acmex/models"
	"acmex/utils"

	"go.mongodb.org/mongo-driver/bson"
)

func TestReplayedResponseSurvivesBSONRoundTrip(t *testing.T) {
	rec := models.IdempotencyRecord{
		Key:         "k1",
		Method:      http.MethodPost,
		Path:        "/api/v1/applications/a1/confirm-purchase",
		UserID:      "u1",
		RequestHash: "h1",
		Response: &models.IdempotentResponse{
			Status: http.StatusOK,
			Body:   map[string]interface{}{"applicationid": "a1", "status": "ACCEPTED"},
		},
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}

	raw, err := bson.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var stored models.IdempotencyRecord
	if err := bson.Unmarshal(raw, &stored); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stored.Response == nil || stored.Response.Status != http.StatusOK {
		t.Fatalf("expected stored status 200, got %+v", stored.Response)
	}

	// replay must write the original status, not a zero value
	w := httptest.NewRecorder()
	utils.RespondWithJSON(w, stored.Response.Status, stored.Response.Body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected replayed status 200, got %d", w.Code)
	}
}

func TestRequestHashDiffersPerBodyAndUser(t *testing.T) {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/applications/a1/confirm-purchase", nil)

	a := requestHash(r, []byte(`{"payerID":"p1"}`), "u1")
	if a != requestHash(r, []byte(`{"payerID":"p1"}`), "u1") {
		t.Fatal("expected identical inputs to hash identically")
	}
	if a == requestHash(r, []byte(`{"payerID":"p2"}`), "u1") {
		t.Fatal("expected body change to change the hash")
	}
	if a == requestHash(r, []byte(`{"payerID":"p1"}`), "u2") {
		t.Fatal("expected user change to change the hash")
	}
}
