package zones

import (
	"math"
	"reflect"
	"testing"
	"time"

	"VNSentinel/internal/model"
)

func pivotAt(price float64, day int) model.PivotPoint {
	return model.PivotPoint{
		Index:  day,
		Price:  price,
		Time:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day),
		Volume: 1000,
	}
}

func TestAnalyze_SpikeScenario(t *testing.T) {
	bars := flatSeries(21, 100, 95)
	bars[10].High = 150
	bars[10].Low = 80

	opts := Options{LeftBars: 5, RightBars: 5, TolerancePct: 1.5, MinTouches: 1}
	set := Analyze(bars, 100, opts)

	if len(set.Resistance) != 1 {
		t.Fatalf("expected 1 resistance zone, got %d", len(set.Resistance))
	}
	r := set.Resistance[0]
	if math.Abs(r.Middle-150) > 1e-9 {
		t.Errorf("resistance middle = %.2f, want 150", r.Middle)
	}
	if math.Abs(r.DistancePct-50) > 1e-9 {
		t.Errorf("distance = %.2f%%, want 50%%", r.DistancePct)
	}
	if len(set.Support) != 1 {
		t.Fatalf("expected 1 support zone, got %d", len(set.Support))
	}
	if math.Abs(set.Support[0].Middle-80) > 1e-9 {
		t.Errorf("support middle = %.2f, want 80", set.Support[0].Middle)
	}
}

func TestAnalyze_FlatSeriesNoPivotZones(t *testing.T) {
	bars := flatSeries(20, 100, 100)
	opts := Options{LeftBars: 2, RightBars: 2, TolerancePct: 1.5, MinTouches: 2}
	set := Analyze(bars, 100, opts)
	if len(set.Resistance) != 0 || len(set.Support) != 0 {
		t.Errorf("flat series produced %d resistance, %d support zones; want none",
			len(set.Resistance), len(set.Support))
	}
}

// Pivot merging anchors the middle on the weighted running average of
// merged prices, not on the midpoint of the bounds.
func TestCreatePivotZones_WeightedMiddle(t *testing.T) {
	pivots := []model.PivotPoint{pivotAt(101, 5), pivotAt(101, 12), pivotAt(100, 19)}
	bars := flatSeries(25, 90, 85)

	opts := Options{LeftBars: 5, RightBars: 5, TolerancePct: 2.0, MinTouches: 1}
	set := CreatePivotZones(pivots, nil, 90, bars, opts)

	if len(set.Resistance) != 1 {
		t.Fatalf("expected 1 resistance zone, got %d", len(set.Resistance))
	}
	z := set.Resistance[0]
	want := (101.0*2 + 100.0) / 3
	if math.Abs(z.Middle-want) > 1e-9 {
		t.Errorf("middle = %.6f, want weighted average %.6f (not bounds midpoint 100.5)", z.Middle, want)
	}
	if z.TouchCount != 3 {
		t.Errorf("touch count = %d, want 3", z.TouchCount)
	}
	if z.Lower != 100 || z.Upper != 101 {
		t.Errorf("bounds = [%.1f, %.1f], want [100.0, 101.0]", z.Lower, z.Upper)
	}
}

func TestCreatePivotZones_SideSeparationSortingTruncation(t *testing.T) {
	var highs []model.PivotPoint
	var lows []model.PivotPoint
	for i := 0; i < 7; i++ {
		highs = append(highs, pivotAt(110+float64(i)*10, 5+i))
		lows = append(lows, pivotAt(90-float64(i)*10, 5+i))
	}
	bars := flatSeries(30, 100, 100)

	opts := Options{LeftBars: 5, RightBars: 5, TolerancePct: 1.0, MinTouches: 1}
	set := CreatePivotZones(highs, lows, 100, bars, opts)

	if len(set.Resistance) != 5 {
		t.Errorf("resistance truncation: got %d zones, want 5", len(set.Resistance))
	}
	if len(set.Support) != 5 {
		t.Errorf("support truncation: got %d zones, want 5", len(set.Support))
	}
	for _, z := range set.Resistance {
		if z.Middle <= 100 {
			t.Errorf("resistance zone middle %.1f not above current price", z.Middle)
		}
	}
	for _, z := range set.Support {
		if z.Middle >= 100 {
			t.Errorf("support zone middle %.1f not below current price", z.Middle)
		}
	}
	for i := 1; i < len(set.Resistance); i++ {
		if set.Resistance[i].DistancePct < set.Resistance[i-1].DistancePct {
			t.Error("resistance zones not sorted nearest-above first")
		}
	}
	for i := 1; i < len(set.Support); i++ {
		if set.Support[i].DistancePct > set.Support[i-1].DistancePct {
			t.Error("support zones not sorted nearest-below first")
		}
	}
}

func TestCreatePivotZones_TouchingBandBecomesZone(t *testing.T) {
	// No pivots at all; a repeatedly tested ceiling still surfaces as
	// a resistance zone through the touching-level pass.
	bars := flatSeries(12, 110, 90)

	opts := Options{LeftBars: 5, RightBars: 5, TolerancePct: 1.5, MinTouches: 2, IncludeTouchingLevels: true}
	set := CreatePivotZones(nil, nil, 100, bars, opts)

	if len(set.Resistance) != 1 {
		t.Fatalf("expected 1 resistance zone from touching levels, got %d", len(set.Resistance))
	}
	z := set.Resistance[0]
	if z.Middle != 110 || z.TouchCount != 12 {
		t.Errorf("zone = {middle %.1f, touches %d}, want {110.0, 12}", z.Middle, z.TouchCount)
	}
}

func TestCreatePivotZones_TouchingBandAbsorbedByPivotZone(t *testing.T) {
	pivots := []model.PivotPoint{pivotAt(110, 5), pivotAt(110.2, 12)}
	// Ten bars tapping 110.1 form a touching band that overlaps the
	// pivot zone [110.0, 110.2] and carries more touches.
	bars := flatSeries(10, 110.1, 90)

	opts := Options{LeftBars: 5, RightBars: 5, TolerancePct: 1.5, MinTouches: 2, IncludeTouchingLevels: true}
	set := CreatePivotZones(pivots, nil, 100, bars, opts)

	if len(set.Resistance) != 1 {
		t.Fatalf("expected the band to merge into the pivot zone, got %d zones", len(set.Resistance))
	}
	z := set.Resistance[0]
	if z.TouchCount != 10 {
		t.Errorf("touch count = %d, want the band's 10", z.TouchCount)
	}
	if math.Abs(z.Middle-110.1) > 1e-9 {
		t.Errorf("middle = %.2f, want the pivot zone's 110.1 preserved", z.Middle)
	}
	if z.Lower != 110 || math.Abs(z.Upper-110.2) > 1e-9 {
		t.Errorf("bounds = [%.2f, %.2f], want union [110.00, 110.20]", z.Lower, z.Upper)
	}
}

func TestCreatePivotZones_Idempotent(t *testing.T) {
	bars := flatSeries(40, 100, 95)
	bars[10].High = 120
	bars[25].High = 121
	bars[18].Low = 85
	bars[30].Low = 84

	opts := DefaultOptions()
	highs, lows := FindPivots(bars, opts.LeftBars, opts.RightBars)
	first := CreatePivotZones(highs, lows, 100, bars, opts)
	second := CreatePivotZones(highs, lows, 100, bars, opts)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different zone sets")
	}
}

func TestCreatePivotZones_InvalidInputFailsSoft(t *testing.T) {
	bars := flatSeries(20, 100, 95)
	highs, lows := FindPivots(bars, 2, 2)

	for _, tc := range []struct {
		name         string
		currentPrice float64
		opts         Options
	}{
		{"zero current price", 0, DefaultOptions()},
		{"negative current price", -5, DefaultOptions()},
		{"NaN current price", math.NaN(), DefaultOptions()},
		{"zero tolerance", 100, Options{LeftBars: 5, RightBars: 5, MinTouches: 2}},
	} {
		set := CreatePivotZones(highs, lows, tc.currentPrice, bars, tc.opts)
		if set.Resistance == nil || set.Support == nil || set.All == nil {
			t.Errorf("%s: result lists must be non-nil", tc.name)
		}
		if len(set.Resistance) != 0 || len(set.Support) != 0 || len(set.All) != 0 {
			t.Errorf("%s: expected empty zone lists", tc.name)
		}
	}
}

func TestCreatePivotZones_MinTouchesInvariant(t *testing.T) {
	bars := flatSeries(40, 100, 95)
	bars[10].High = 120
	bars[25].High = 140

	opts := Options{LeftBars: 5, RightBars: 5, TolerancePct: 1.5, MinTouches: 2, IncludeTouchingLevels: false}
	highs, lows := FindPivots(bars, opts.LeftBars, opts.RightBars)
	set := CreatePivotZones(highs, lows, 100, bars, opts)

	// The two isolated spikes cannot reach two touches each.
	if len(set.All) != 0 {
		t.Errorf("expected singleton pivots filtered out, got %d zones", len(set.All))
	}
	for _, z := range set.All {
		if z.TouchCount < opts.MinTouches {
			t.Errorf("zone with %d touches below minimum %d", z.TouchCount, opts.MinTouches)
		}
	}
}
