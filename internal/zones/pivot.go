package zones

import "VNSentinel/internal/model"

// FindPivots scans the series for strict local extrema. A pivot high at
// index i requires high[i] strictly greater than every high in
// [i-leftBars, i-1] and [i+1, i+rightBars]; pivot lows are the symmetric
// strict-minimum test on lows. The first leftBars and last rightBars
// bars can never qualify. A series shorter than leftBars+rightBars+1
// yields two empty lists; short history is expected, not an error.
func FindPivots(bars []model.OHLCV, leftBars, rightBars int) (highs, lows []model.PivotPoint) {
	if leftBars <= 0 || rightBars <= 0 {
		return nil, nil
	}
	if len(bars) < leftBars+rightBars+1 {
		return nil, nil
	}

	for i := leftBars; i <= len(bars)-rightBars-1; i++ {
		isHigh, isLow := true, true
		for j := i - leftBars; j <= i+rightBars; j++ {
			if j == i {
				continue
			}
			if bars[j].High >= bars[i].High {
				isHigh = false
			}
			if bars[j].Low <= bars[i].Low {
				isLow = false
			}
			if !isHigh && !isLow {
				break
			}
		}
		if isHigh {
			highs = append(highs, model.PivotPoint{
				Index:  i,
				Price:  bars[i].High,
				Time:   bars[i].Time,
				Volume: bars[i].Volume,
			})
		}
		if isLow {
			lows = append(lows, model.PivotPoint{
				Index:  i,
				Price:  bars[i].Low,
				Time:   bars[i].Time,
				Volume: bars[i].Volume,
			})
		}
	}
	return highs, lows
}
