package zones

import (
	"math"
	"sort"

	"VNSentinel/internal/model"
)

// Options control zone detection and merging.
type Options struct {
	LeftBars              int
	RightBars             int
	TolerancePct          float64
	MinTouches            int
	IncludeTouchingLevels bool
}

// DefaultOptions returns the calibration used by the monitoring loop.
func DefaultOptions() Options {
	return Options{
		LeftBars:              5,
		RightBars:             5,
		TolerancePct:          1.5,
		MinTouches:            2,
		IncludeTouchingLevels: true,
	}
}

// Analyze runs the full pipeline: pivot detection, zone building, and
// scoring. Convenience wrapper around FindPivots + CreatePivotZones.
func Analyze(bars []model.OHLCV, currentPrice float64, opts Options) model.ZoneSet {
	highs, lows := FindPivots(bars, opts.LeftBars, opts.RightBars)
	return CreatePivotZones(highs, lows, currentPrice, bars, opts)
}

// CreatePivotZones merges pivot points (and optionally touching-level
// bands) into scored support/resistance zones around currentPrice.
// The result is always well-formed: invalid input yields empty lists,
// never an error, so a monitoring loop can keep going when one
// symbol's data is broken.
func CreatePivotZones(pivotHighs, pivotLows []model.PivotPoint, currentPrice float64, bars []model.OHLCV, opts Options) model.ZoneSet {
	empty := model.ZoneSet{Resistance: []model.Zone{}, Support: []model.Zone{}, All: []model.Zone{}}
	if currentPrice <= 0 || math.IsNaN(currentPrice) || opts.TolerancePct <= 0 || opts.MinTouches < 1 {
		return empty
	}

	resistance := mergePivots(pivotHighs, opts.TolerancePct, opts.MinTouches, true)
	support := mergePivots(pivotLows, opts.TolerancePct, opts.MinTouches, false)

	if opts.IncludeTouchingLevels {
		// Touching levels have no shape requirement, so they need a
		// stricter touch floor to suppress noise.
		floor := opts.MinTouches + 1
		if floor < 3 {
			floor = 3
		}
		resistance = absorbTouchingZones(resistance, FindTouchingLevels(bars, true, opts.TolerancePct, floor))
		support = absorbTouchingZones(support, FindTouchingLevels(bars, false, opts.TolerancePct, floor))
	}

	all := make([]model.Zone, 0, len(resistance)+len(support))
	for _, z := range append(append([]model.Zone{}, resistance...), support...) {
		all = append(all, finalizeZone(z, currentPrice))
	}

	set := model.ZoneSet{Resistance: []model.Zone{}, Support: []model.Zone{}, All: all}
	for _, z := range all {
		if z.Middle > currentPrice {
			set.Resistance = append(set.Resistance, z)
		} else if z.Middle < currentPrice {
			set.Support = append(set.Support, z)
		}
	}

	// Nearest zone first on both sides. Support distances are negative,
	// so descending order puts the least-negative (closest) first.
	sort.SliceStable(set.Resistance, func(i, j int) bool {
		return set.Resistance[i].DistancePct < set.Resistance[j].DistancePct
	})
	sort.SliceStable(set.Support, func(i, j int) bool {
		return set.Support[i].DistancePct > set.Support[j].DistancePct
	})
	sort.SliceStable(set.All, func(i, j int) bool {
		return math.Abs(set.All[i].DistancePct) < math.Abs(set.All[j].DistancePct)
	})

	const maxZonesPerSide = 5
	if len(set.Resistance) > maxZonesPerSide {
		set.Resistance = set.Resistance[:maxZonesPerSide]
	}
	if len(set.Support) > maxZonesPerSide {
		set.Support = set.Support[:maxZonesPerSide]
	}
	return set
}

// mergePivots groups pivots into candidate zones with the same greedy
// sorted scan as FindTouchingLevels, except the tolerance reference is
// the weighted running average of merged pivot prices rather than the
// midpoint of the bounds. For skewed pivot clusters the two anchors
// land in different places, and downstream consumers depend on the
// weighted behavior.
func mergePivots(pivots []model.PivotPoint, tolerancePct float64, minTouches int, descending bool) []model.Zone {
	if len(pivots) == 0 {
		return nil
	}
	sorted := make([]model.PivotPoint, len(pivots))
	copy(sorted, pivots)
	sort.SliceStable(sorted, func(i, j int) bool {
		if descending {
			return sorted[i].Price > sorted[j].Price
		}
		return sorted[i].Price < sorted[j].Price
	})

	var out []model.Zone
	var cur *model.Zone
	for _, p := range sorted {
		t := model.Touch{Price: p.Price, Time: p.Time, Volume: p.Volume}
		if cur != nil && math.Abs(p.Price-cur.Middle) <= cur.Middle*tolerancePct/100 {
			absorbPivot(cur, t)
			continue
		}
		if cur != nil && cur.TouchCount >= minTouches {
			out = append(out, *cur)
		}
		cur = singletonZone(t)
	}
	if cur != nil && cur.TouchCount >= minTouches {
		out = append(out, *cur)
	}
	return out
}

// absorbPivot widens the bounds and moves the middle to the weighted
// running average of all merged prices.
func absorbPivot(z *model.Zone, t model.Touch) {
	z.Middle = (z.Middle*float64(z.TouchCount) + t.Price) / float64(z.TouchCount+1)
	if t.Price > z.Upper {
		z.Upper = t.Price
	}
	if t.Price < z.Lower {
		z.Lower = t.Price
	}
	z.TouchCount++
	z.TotalVolume += t.Volume
	if t.Time.After(z.LatestTouch) {
		z.LatestTouch = t.Time
	}
	z.Touches = append(z.Touches, t)
}

// absorbTouchingZones folds touching-level bands into an existing
// pivot-zone list. An overlapping band is absorbed only when it carries
// at least as many touches as the pivot zone; weaker bands add no
// information and are dropped. Bands overlapping nothing become zones
// of their own.
func absorbTouchingZones(zones []model.Zone, touching []model.Zone) []model.Zone {
	for _, t := range touching {
		merged := false
		for i := range zones {
			if !rangesOverlap(zones[i], t) {
				continue
			}
			merged = true
			if t.TouchCount >= zones[i].TouchCount {
				// Keep the pivot zone's middle, widen bounds to the union.
				if t.Upper > zones[i].Upper {
					zones[i].Upper = t.Upper
				}
				if t.Lower < zones[i].Lower {
					zones[i].Lower = t.Lower
				}
				if t.TouchCount > zones[i].TouchCount {
					zones[i].TouchCount = t.TouchCount
				}
				zones[i].TotalVolume += t.TotalVolume
				if t.LatestTouch.After(zones[i].LatestTouch) {
					zones[i].LatestTouch = t.LatestTouch
				}
				zones[i].Touches = append(zones[i].Touches, t.Touches...)
			}
			break
		}
		if !merged {
			zones = append(zones, t)
		}
	}
	return zones
}

func rangesOverlap(a, b model.Zone) bool {
	return a.Lower <= b.Upper && b.Lower <= a.Upper
}

// finalizeZone computes the derived fields. Zones are read-only after this.
func finalizeZone(z model.Zone, currentPrice float64) model.Zone {
	if z.Middle != 0 {
		z.WidthPct = (z.Upper - z.Lower) / z.Middle * 100
	}
	z.DistancePct = (z.Middle - currentPrice) / currentPrice * 100
	z.Strength = Strength(z)
	return z
}
