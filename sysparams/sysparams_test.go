package sysparams

import "testing"

func TestValidateBounds(t *testing.T) {
	cases := []struct {
		key   string
		value float64
		want  bool
	}{
		{KeyFlatRate, 0, true},
		{KeyFlatRate, 100, true},
		{KeyFlatRate, -0.1, false},
		{KeyFlatRate, 100.1, false},
		{KeyFinderMaxResults, 1, true},
		{KeyFinderMaxResults, 100, true},
		{KeyFinderMaxResults, 0, false},
		{KeyFinderMaxResults, 101, false},
		{KeyFinderResultsTTL, 1, true},
		{KeyFinderResultsTTL, 24, true},
		{KeyFinderResultsTTL, 0, false},
		{KeyFinderResultsTTL, 25, false},
		{"unknown", 5, false},
	}
	for _, c := range cases {
		if got := Validate(c.key, c.value); got != c.want {
			t.Errorf("Validate(%s, %v) = %v; want %v", c.key, c.value, got, c.want)
		}
	}
}

func TestDefaults(t *testing.T) {
	if Default(KeyFlatRate) != 10 {
		t.Error("expected flatRate default 10")
	}
	if Default(KeyFinderMaxResults) != 10 {
		t.Error("expected finderMaxResults default 10")
	}
	if Default(KeyFinderResultsTTL) != 1 {
		t.Error("expected finderResultsTTL default 1")
	}
}
