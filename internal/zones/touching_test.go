package zones

import (
	"math"
	"testing"
)

func TestFindTouchingLevels_GroupsNearbyLows(t *testing.T) {
	highs := []float64{105, 105.5, 106, 115}
	lows := []float64{100, 100.5, 101, 110}
	bars := barsFromHL(highs, lows)

	got := FindTouchingLevels(bars, false, 1.5, 2)
	if len(got) != 1 {
		t.Fatalf("expected 1 support band, got %d", len(got))
	}
	z := got[0]
	if z.TouchCount != 3 {
		t.Errorf("touch count = %d, want 3", z.TouchCount)
	}
	if z.Lower != 100 || z.Upper != 101 {
		t.Errorf("bounds = [%.1f, %.1f], want [100.0, 101.0]", z.Lower, z.Upper)
	}
	if z.Middle != 100.5 {
		t.Errorf("middle = %.2f, want 100.5 (midpoint of bounds)", z.Middle)
	}
}

func TestFindTouchingLevels_MinTouchesFilter(t *testing.T) {
	highs := []float64{105, 105.2, 120, 121}
	lows := []float64{100, 100.2, 115, 116}
	bars := barsFromHL(highs, lows)

	for _, z := range FindTouchingLevels(bars, true, 0.5, 2) {
		if z.TouchCount < 2 {
			t.Errorf("emitted band with touch count %d below minimum", z.TouchCount)
		}
	}
}

func TestFindTouchingLevels_Containment(t *testing.T) {
	highs := []float64{100, 101, 100.5, 102, 99.8, 110, 111, 110.5}
	lows := make([]float64, len(highs))
	for i, h := range highs {
		lows[i] = h - 5
	}
	bars := barsFromHL(highs, lows)

	for _, z := range FindTouchingLevels(bars, true, 2.0, 1) {
		for _, touch := range z.Touches {
			if touch.Price < z.Lower || touch.Price > z.Upper {
				t.Errorf("touch %.2f outside band [%.2f, %.2f]", touch.Price, z.Lower, z.Upper)
			}
		}
	}
}

// The tolerance band is anchored on the band's current middle, so a
// chain of touches can drift beyond the first touch's fixed band.
func TestFindTouchingLevels_AdaptiveDrift(t *testing.T) {
	highs := []float64{105, 106, 106.5}
	lows := []float64{100, 101, 101.5}
	bars := barsFromHL(highs, lows)

	got := FindTouchingLevels(bars, false, 1.0, 1)
	if len(got) != 1 {
		t.Fatalf("expected one drifting band, got %d", len(got))
	}
	if got[0].TouchCount != 3 {
		t.Errorf("touch count = %d, want 3: 101.5 fits the drifted middle but not the 100 anchor", got[0].TouchCount)
	}
	if math.Abs(got[0].Upper-101.5) > 1e-9 {
		t.Errorf("upper = %.2f, want 101.5", got[0].Upper)
	}
}

func TestFindTouchingLevels_EmptyAndInvalidInput(t *testing.T) {
	if got := FindTouchingLevels(nil, true, 1.5, 2); got != nil {
		t.Errorf("nil bars should yield nil, got %v", got)
	}
	bars := flatSeries(5, 100, 95)
	if got := FindTouchingLevels(bars, true, 0, 2); got != nil {
		t.Errorf("zero tolerance should yield nil, got %v", got)
	}
}
