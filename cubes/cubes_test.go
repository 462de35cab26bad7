package cubes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func conditionRequest(t *testing.T, period, condition, query string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet,
		"/api/v1/cubes-by-condition/"+period+"/"+condition+query, nil)
	w := httptest.NewRecorder()
	ps := httprouter.Params{
		{Key: "period", Value: period},
		{Key: "condition", Value: condition},
	}
	GetExplorersByCondition(w, r, ps)
	return w
}

func TestGetExplorersByConditionRejectsBadInput(t *testing.T) {
	if w := conditionRequest(t, "M99", "gte", "?amount=10"); w.Code != http.StatusBadRequest {
		t.Errorf("invalid period: expected 400, got %d", w.Code)
	}
	if w := conditionRequest(t, "M01", "between", "?amount=10"); w.Code != http.StatusBadRequest {
		t.Errorf("invalid condition: expected 400, got %d", w.Code)
	}
	if w := conditionRequest(t, "M01", "gte", ""); w.Code != http.StatusBadRequest {
		t.Errorf("missing amount: expected 400, got %d", w.Code)
	}
	if w := conditionRequest(t, "M01", "gte", "?amount=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("non-numeric amount: expected 400, got %d", w.Code)
	}
}
