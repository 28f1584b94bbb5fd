package surge

import (
	"math"
	"time"

	"VNSentinel/internal/model"
)

// Thresholds control what counts as a surge.
type Thresholds struct {
	VolumeMultiplier float64 // current volume vs. lookback average
	PriceChangePct   float64 // absolute close-to-close move, percent
	LookbackBars     int
	RequireBoth      bool // trigger only when volume AND price surge together
}

// DefaultThresholds returns the monitoring calibration: volume 1.5x the
// 20-bar average or an absolute price move of 3%.
func DefaultThresholds() Thresholds {
	return Thresholds{
		VolumeMultiplier: 1.5,
		PriceChangePct:   3.0,
		LookbackBars:     20,
		RequireBoth:      false,
	}
}

// minBars is the history floor below which surge detection would just
// chase noise.
const minBars = 5

// Detect checks the latest bar for abnormal volume or price movement.
// Insufficient or broken history yields an untriggered result with a
// reason, never an error: the monitoring loop must keep going.
func Detect(symbol string, bars []model.OHLCV, th Thresholds) model.SurgeResult {
	res := model.SurgeResult{
		Symbol:    symbol,
		Direction: model.SurgeNeutral,
		Time:      time.Now(),
	}
	if len(bars) < minBars {
		res.Reason = "insufficient history"
		return res
	}

	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]
	res.Price = last.Close
	res.Time = last.Time

	if prev.Close <= 0 || math.IsNaN(prev.Close) || math.IsNaN(last.Close) {
		res.Reason = "unusable close prices"
		return res
	}

	res.PriceChangePct = (last.Close - prev.Close) / prev.Close * 100
	switch {
	case res.PriceChangePct > 0:
		res.Direction = model.SurgeUp
	case res.PriceChangePct < 0:
		res.Direction = model.SurgeDown
	}
	if math.Abs(res.PriceChangePct) >= th.PriceChangePct {
		res.PriceSurge = true
	}

	if avg := baselineVolume(bars, th.LookbackBars); avg > 0 {
		res.VolumeRatio = last.Volume / avg
		if res.VolumeRatio >= th.VolumeMultiplier {
			res.VolumeSurge = true
		}
	}

	if th.RequireBoth {
		res.Triggered = res.VolumeSurge && res.PriceSurge
	} else {
		res.Triggered = res.VolumeSurge || res.PriceSurge
	}
	return res
}

// baselineVolume averages the volumes preceding the latest bar, capped
// at lookback bars.
func baselineVolume(bars []model.OHLCV, lookback int) float64 {
	last := len(bars) - 1
	start := last - lookback
	if start < 0 {
		start = 0
	}
	n := last - start
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars[start:last] {
		sum += b.Volume
	}
	return sum / float64(n)
}
