package favourites

import (
	"testing"
	"time"
)

func TestShouldOverwrite(t *testing.T) {
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	if !ShouldOverwrite(nil, base) {
		t.Error("first sync should always win")
	}
	if !ShouldOverwrite(&base, base.Add(time.Second)) {
		t.Error("newer sync should overwrite")
	}
	if ShouldOverwrite(&base, base) {
		t.Error("equal timestamps should not overwrite")
	}
	if ShouldOverwrite(&base, base.Add(-time.Hour)) {
		t.Error("older sync should not overwrite")
	}
}
