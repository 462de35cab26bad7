package cubes

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	cases := []struct {
		in   string
		kind byte
		n    int
		ok   bool
	}{
		{"M01", 'M', 1, true},
		{"m09", 'M', 9, true},
		{"M36", 'M', 36, true},
		{"Y01", 'Y', 1, true},
		{"y03", 'Y', 3, true},
		{"M00", 0, 0, false},
		{"M37", 0, 0, false},
		{"Y04", 0, 0, false},
		{"M1", 0, 0, false},
		{"X01", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		kind, n, ok := ParsePeriod(c.in)
		if ok != c.ok || kind != c.kind || n != c.n {
			t.Errorf("ParsePeriod(%q) = %c,%d,%v; want %c,%d,%v",
				c.in, kind, n, ok, c.kind, c.n, c.ok)
		}
	}
}

func TestWindowStart(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	got := WindowStart(now, 12)
	want := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestMongoOp(t *testing.T) {
	if op, ok := MongoOp("gte"); !ok || op != "$gte" {
		t.Fatalf("expected $gte, got %q (%v)", op, ok)
	}
	if _, ok := MongoOp("between"); ok {
		t.Fatal("expected unknown operator to be rejected")
	}
}
