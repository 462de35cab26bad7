package applications

import (
	"testing"

	"acmex/models"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		actor string
		from  string
		to    string
		want  bool
	}{
		{byManager, models.StatusPending, models.StatusDue, true},
		{byManager, models.StatusPending, models.StatusRejected, true},
		{byManager, models.StatusPending, models.StatusAccepted, false},
		{byManager, models.StatusDue, models.StatusRejected, false},
		{byExplorer, models.StatusPending, models.StatusCancelled, true},
		{byExplorer, models.StatusAccepted, models.StatusCancelled, true},
		{byExplorer, models.StatusDue, models.StatusCancelled, false},
		{byExplorer, models.StatusRejected, models.StatusCancelled, false},
		{byPayment, models.StatusDue, models.StatusAccepted, true},
		{byPayment, models.StatusPending, models.StatusAccepted, false},
		{"stranger", models.StatusPending, models.StatusDue, false},
	}
	for _, c := range cases {
		if got := CanTransition(c.actor, c.from, c.to); got != c.want {
			t.Errorf("CanTransition(%s, %s, %s) = %v; want %v",
				c.actor, c.from, c.to, got, c.want)
		}
	}
}

func TestAmountDue(t *testing.T) {
	if got := amountDue(100, 10); got != 110 {
		t.Fatalf("expected 110, got %v", got)
	}
	if got := amountDue(250, 0); got != 250 {
		t.Fatalf("expected 250, got %v", got)
	}
}

func TestVoucherPayloadStable(t *testing.T) {
	a := voucherPayload("trip-1", "app-1")
	b := voucherPayload("trip-1", "app-1")
	if a != b {
		t.Fatal("expected identical inputs to produce identical payloads")
	}
	if a == voucherPayload("trip-1", "app-2") {
		t.Fatal("expected different applications to produce different payloads")
	}
}
