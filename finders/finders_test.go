package finders

import (
	"testing"
	"time"
)

func TestFinderInputValidate(t *testing.T) {
	f := func(v float64) *float64 { return &v }
	d := func(t time.Time) *time.Time { return &t }
	now := time.Now()

	if msg := (&finderInput{}).validate(); msg != "" {
		t.Errorf("empty finder should be valid, got %q", msg)
	}
	in := finderInput{MinPrice: f(-1)}
	if in.validate() == "" {
		t.Error("negative minPrice should be rejected")
	}
	in = finderInput{MinPrice: f(100), MaxPrice: f(50)}
	if in.validate() == "" {
		t.Error("maxPrice below minPrice should be rejected")
	}
	in = finderInput{StartDate: d(now), EndDate: d(now)}
	if in.validate() == "" {
		t.Error("endDate not after startDate should be rejected")
	}
	in = finderInput{MinPrice: f(50), MaxPrice: f(100), StartDate: d(now), EndDate: d(now.AddDate(0, 1, 0))}
	if msg := in.validate(); msg != "" {
		t.Errorf("expected valid finder, got %q", msg)
	}
}
