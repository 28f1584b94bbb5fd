package zones

import (
	"math"
	"sort"

	"VNSentinel/internal/model"
)

// FindTouchingLevels groups raw high (or low) values into consolidation
// bands without requiring local-extremum shape. Touches are sorted by
// price (descending for highs, ascending for lows) and grouped in one
// greedy pass: a touch joins the open band iff it lies within
// tolerancePct of the band's current middle. The middle is recomputed
// from the band's bounds after every join, so the effective band drifts
// as it absorbs touches; the sort order keeps that drift monotonic.
func FindTouchingLevels(bars []model.OHLCV, useHighs bool, tolerancePct float64, minTouches int) []model.Zone {
	if len(bars) == 0 || tolerancePct <= 0 || minTouches < 1 {
		return nil
	}

	touches := make([]model.Touch, len(bars))
	for i, b := range bars {
		price := b.Low
		if useHighs {
			price = b.High
		}
		touches[i] = model.Touch{Price: price, Time: b.Time, Volume: b.Volume}
	}

	sort.SliceStable(touches, func(i, j int) bool {
		if useHighs {
			return touches[i].Price > touches[j].Price
		}
		return touches[i].Price < touches[j].Price
	})

	var out []model.Zone
	var cur *model.Zone
	for _, t := range touches {
		if cur != nil && math.Abs(t.Price-cur.Middle) <= cur.Middle*tolerancePct/100 {
			absorbTouch(cur, t)
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

func singletonZone(t model.Touch) *model.Zone {
	return &model.Zone{
		Upper:       t.Price,
		Lower:       t.Price,
		Middle:      t.Price,
		TouchCount:  1,
		TotalVolume: t.Volume,
		LatestTouch: t.Time,
		Touches:     []model.Touch{t},
	}
}

// absorbTouch widens the band to include t and recomputes the middle
// from the updated bounds.
func absorbTouch(z *model.Zone, t model.Touch) {
	if t.Price > z.Upper {
		z.Upper = t.Price
	}
	if t.Price < z.Lower {
		z.Lower = t.Price
	}
	z.Middle = (z.Upper + z.Lower) / 2
	z.TouchCount++
	z.TotalVolume += t.Volume
	if t.Time.After(z.LatestTouch) {
		z.LatestTouch = t.Time
	}
	z.Touches = append(z.Touches, t)
}
