package zones

import (
	"math"

	"VNSentinel/internal/model"
)

// Interpretation labels for confidence bands.
const (
	confVeryHigh = "Very High Confidence"
	confHigh     = "High Confidence"
	confModerate = "Moderate Confidence"
	confLow      = "Low Confidence"
	confVeryLow  = "Very Low Confidence"
	confError    = "Error calculating confidence"
)

// CalculateBreakoutConfidence scores how likely the zone's boundary has
// been meaningfully broken, given the indicator snapshot and recent
// price history. The composite weighs volume, zone strength, momentum,
// and breakout pattern equally. Missing indicators count as neutral;
// unusable input yields the documented error result rather than a
// propagated failure.
func CalculateBreakoutConfidence(zone model.Zone, ind *model.IndicatorSnapshot, bars []model.OHLCV, currentPrice float64, isResistance bool) model.ConfidenceResult {
	if len(bars) == 0 || zone.Middle <= 0 || math.IsNaN(zone.Middle) ||
		currentPrice <= 0 || math.IsNaN(currentPrice) {
		return model.ConfidenceResult{Score: 0, Interpretation: confError}
	}

	breakdown := model.ConfidenceBreakdown{
		VolumeStrength:   volumeStrength(bars),
		ZoneStrength:     clamp01(zone.Strength),
		MomentumStrength: momentumStrength(ind, isResistance),
		PatternStrength:  breakoutPattern(zone, bars, currentPrice),
	}

	score := clamp01(0.25*breakdown.VolumeStrength +
		0.25*breakdown.ZoneStrength +
		0.25*breakdown.MomentumStrength +
		0.25*breakdown.PatternStrength)

	return model.ConfidenceResult{
		Score:          score,
		Breakdown:      breakdown,
		Interpretation: interpret(score),
	}
}

func interpret(score float64) string {
	switch {
	case score >= 0.75:
		return confVeryHigh
	case score >= 0.60:
		return confHigh
	case score >= 0.45:
		return confModerate
	case score >= 0.30:
		return confLow
	default:
		return confVeryLow
	}
}

// volumeStrength compares the latest bar's volume to its 20/50/200-bar
// averages. Windows longer than the available history fall back to the
// mean of all bars. Ratios are clipped to [0,2], averaged, rescaled to
// [0,1], then topped up with a logarithmic bonus when the strongest
// ratio shows explosive volume.
func volumeStrength(bars []model.OHLCV) float64 {
	current := bars[len(bars)-1].Volume
	if current <= 0 || math.IsNaN(current) {
		return 0
	}

	var ratios []float64
	maxRatio := 0.0
	for _, period := range []int{20, 50, 200} {
		avg := meanVolume(bars, period)
		if avg <= 0 || math.IsNaN(avg) {
			continue
		}
		r := current / avg
		if r > maxRatio {
			maxRatio = r
		}
		if r > 2 {
			r = 2
		}
		ratios = append(ratios, r)
	}
	if len(ratios) == 0 {
		return 0
	}

	sum := 0.0
	for _, r := range ratios {
		sum += r
	}
	score := sum / float64(len(ratios)) / 2

	if maxRatio > 1 {
		bonus := 0.1 * math.Log(maxRatio) / math.Log(1.5)
		if bonus > 0.2 {
			bonus = 0.2
		}
		score += bonus
	}
	return clamp01(score)
}

// meanVolume averages the last period volumes, or every volume when the
// series is shorter than the window.
func meanVolume(bars []model.OHLCV, period int) float64 {
	start := 0
	if len(bars) > period {
		start = len(bars) - period
	}
	n := len(bars) - start
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars[start:] {
		sum += b.Volume
	}
	return sum / float64(n)
}

// momentumStrength is direction-aware: for a resistance breakout it
// rewards bullish RSI and MACD alignment, for a support breakdown the
// mirror conditions. RSI beyond the overbought/oversold extreme earns
// only a token credit since exhaustion cuts follow-through odds.
func momentumStrength(ind *model.IndicatorSnapshot, isResistance bool) float64 {
	score := 0.0
	if ind.HasRSI() {
		rsi := ind.RSI14
		if isResistance {
			switch {
			case rsi >= 50 && rsi <= 70:
				score += 0.3
			case rsi > 70:
				score += 0.1
			}
		} else {
			switch {
			case rsi >= 30 && rsi <= 50:
				score += 0.3
			case rsi < 30:
				score += 0.1
			}
		}
	}
	if ind.HasMACD() {
		gap := ind.MACD - ind.MACDSignal
		if isResistance {
			if ind.MACD > ind.MACDSignal {
				score += 0.3
			}
			if gap > 0 {
				score += 0.2
			}
		} else {
			if ind.MACD < ind.MACDSignal {
				score += 0.3
			}
			if gap < 0 {
				score += 0.2
			}
		}
	}
	return clamp01(score)
}

// breakoutPattern infers direction from where price sits relative to
// the zone middle, not from the side the zone was created on: it
// measures whether price has actually moved past the zone. Above the
// middle it credits a close beyond the upper bound, repeated recent
// highs beyond it, and the absence of recent dips back under the lower
// bound; mirrored below the middle.
func breakoutPattern(zone model.Zone, bars []model.OHLCV, currentPrice float64) float64 {
	score := 0.0
	recentHighs := lastN(model.Highs(bars), 10)
	recentLows := lastN(model.Lows(bars), 10)

	if currentPrice > zone.Middle {
		if currentPrice > zone.Upper {
			score += 0.5
		}
		above := 0
		for _, h := range recentHighs {
			if h > zone.Upper {
				above++
			}
		}
		if above >= 2 {
			score += 0.3
		}
		last3 := lastN(recentLows, 3)
		if len(last3) >= 3 {
			clean := true
			for _, l := range last3 {
				if l < zone.Lower {
					clean = false
					break
				}
			}
			if clean {
				score += 0.2
			}
		}
	} else {
		if currentPrice < zone.Lower {
			score += 0.5
		}
		below := 0
		for _, l := range recentLows {
			if l < zone.Lower {
				below++
			}
		}
		if below >= 2 {
			score += 0.3
		}
		last3 := lastN(recentHighs, 3)
		if len(last3) >= 3 {
			clean := true
			for _, h := range last3 {
				if h > zone.Upper {
					clean = false
					break
				}
			}
			if clean {
				score += 0.2
			}
		}
	}
	return clamp01(score)
}

func lastN(vals []float64, n int) []float64 {
	if len(vals) <= n {
		return vals
	}
	return vals[len(vals)-n:]
}
