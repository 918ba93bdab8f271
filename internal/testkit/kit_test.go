package testkit

import (
	"math"
	"testing"
)

func TestNormalSample_Deterministic(t *testing.T) {
	a := NewTestKit(42).NormalSample(1, 100, 0, 1)
	b := NewTestKit(42).NormalSample(1, 100, 0, 1)
	for i := range a {
		if math.Float64bits(a[i]) != math.Float64bits(b[i]) {
			t.Fatalf("draw %d differs: %v vs %v", i, a[i], b[i])
		}
	}

	c := NewTestKit(42).NormalSample(2, 100, 0, 1)
	if a[0] == c[0] && a[1] == c[1] {
		t.Fatal("different streams should produce different draws")
	}
}

func TestShiftedPair_Sizes(t *testing.T) {
	pair := NewTestKit(7).ShiftedPair("p", 30, 10, 2, 0.5)
	if len(pair.Baseline) != 30 || len(pair.Enhanced) != 30 {
		t.Fatalf("expected 30/30 observations, got %d/%d", len(pair.Baseline), len(pair.Enhanced))
	}
	if pair.Name != "p" {
		t.Fatalf("expected name p, got %q", pair.Name)
	}
}
