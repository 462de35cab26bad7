package utils

import (
	"testing"
	"time"
)

func TestGenerateTicker(t *testing.T) {
	now := time.Date(2026, 4, 17, 12, 0, 0, 0, time.UTC)
	ticker := GenerateTicker(now)

	if !TickerPattern.MatchString(ticker) {
		t.Fatalf("ticker %q does not match pattern", ticker)
	}
	if ticker[:6] != "260417" {
		t.Fatalf("expected date prefix 260417, got %q", ticker[:6])
	}
}

func TestGenerateRandomUpperString(t *testing.T) {
	s := GenerateRandomUpperString(8)
	if len(s) != 8 {
		t.Fatalf("expected length 8, got %d", len(s))
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			t.Fatalf("unexpected rune %q in %q", r, s)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("jane@example.com") {
		t.Error("expected valid email")
	}
	if IsValidEmail("not-an-email") {
		t.Error("expected invalid email")
	}
}

func TestIsValidURL(t *testing.T) {
	if !IsValidURL("https://example.com/banner.png") {
		t.Error("expected valid url")
	}
	if IsValidURL("ftp://example.com/x") {
		t.Error("expected ftp to be rejected")
	}
	if IsValidURL("/relative/path") {
		t.Error("expected relative path to be rejected")
	}
}
