package main

import "testing"

func TestToMinorUnits(t *testing.T) {
	cases := map[string]int64{
		"39.99": 3999,
		"42":    4200,
		"0.005": 1,
	}
	for input, want := range cases {
		got, err := toMinorUnits(input)
		if err != nil {
			t.Fatalf("toMinorUnits(%q) failed: %v", input, err)
		}
		if got != want {
			t.Fatalf("toMinorUnits(%q) want %d got %d", input, want, got)
		}
	}
	if _, err := toMinorUnits("abc"); err == nil {
		t.Fatalf("expected parse error")
	}
}
