package indicator

import (
	"errors"
	"math"

	"VNSentinel/internal/model"

	talib "github.com/markcheno/go-talib"
)

// Params holds the indicator window lengths.
type Params struct {
	SMAFast    int
	SMASlow    int
	RSIPeriod  int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	VolumeWin  int
}

// DefaultParams returns the standard calibration (SMA 20/50, RSI 14,
// MACD 12/26/9, 20-bar volume baseline).
func DefaultParams() Params {
	return Params{
		SMAFast:    20,
		SMASlow:    50,
		RSIPeriod:  14,
		MACDFast:   12,
		MACDSlow:   26,
		MACDSignal: 9,
		VolumeWin:  20,
	}
}

// AdaptiveParams shrinks the windows for short histories so a newly
// listed ticker still gets usable indicators instead of a wall of NaN.
func AdaptiveParams(n int) Params {
	p := DefaultParams()
	if n >= 60 {
		return p
	}
	if p.SMASlow >= n {
		p.SMASlow = max(2, n/2)
	}
	if p.SMAFast >= n {
		p.SMAFast = max(2, n/3)
	}
	if p.RSIPeriod >= n {
		p.RSIPeriod = max(2, n-1)
	}
	if p.MACDSlow+p.MACDSignal >= n {
		p.MACDFast = max(2, n/4)
		p.MACDSlow = max(p.MACDFast+1, n/2)
		p.MACDSignal = max(2, n/4)
	}
	if p.VolumeWin >= n {
		p.VolumeWin = max(1, n-1)
	}
	return p
}

// Compute derives the latest indicator snapshot from the series.
// Individual indicators that cannot be computed from the available
// history are left as NaN and treated as absent downstream; only an
// unusable series is an error.
func Compute(bars []model.OHLCV) (*model.IndicatorSnapshot, error) {
	if len(bars) == 0 {
		return nil, errors.New("empty series")
	}
	closes := model.Closes(bars)
	volumes := model.Volumes(bars)
	last := len(bars) - 1
	if closes[last] <= 0 || math.IsNaN(closes[last]) {
		return nil, errors.New("non-positive close on latest bar")
	}

	p := AdaptiveParams(len(bars))
	snap := &model.IndicatorSnapshot{
		CurrentPrice:  closes[last],
		CurrentVolume: volumes[last],
		SMAFast:       math.NaN(),
		SMASlow:       math.NaN(),
		RSI14:         math.NaN(),
		MACD:          math.NaN(),
		MACDSignal:    math.NaN(),
		MACDHist:      math.NaN(),
		VolumeRatio:   math.NaN(),
		OBV:           math.NaN(),
		PVT:           math.NaN(),
	}

	if len(closes) > p.SMAFast {
		snap.SMAFast = lastValue(talib.Sma(closes, p.SMAFast))
	}
	if len(closes) > p.SMASlow {
		snap.SMASlow = lastValue(talib.Sma(closes, p.SMASlow))
	}
	if len(closes) > p.RSIPeriod {
		snap.RSI14 = lastValue(talib.Rsi(closes, p.RSIPeriod))
	}
	if len(closes) > p.MACDSlow+p.MACDSignal {
		macd, signal, hist := talib.Macd(closes, p.MACDFast, p.MACDSlow, p.MACDSignal)
		snap.MACD = lastValue(macd)
		snap.MACDSignal = lastValue(signal)
		snap.MACDHist = lastValue(hist)
	}
	if len(volumes) > 1 {
		snap.VolumeRatio = volumeRatio(volumes, p.VolumeWin)
		snap.OBV = lastValue(talib.Obv(closes, volumes))
	}
	snap.PVT = priceVolumeTrend(closes, volumes)

	return snap, nil
}

// volumeRatio compares the latest volume to the mean of the preceding
// window (the latest bar excluded so a surge does not dilute its own
// baseline).
func volumeRatio(volumes []float64, window int) float64 {
	last := len(volumes) - 1
	start := last - window
	if start < 0 {
		start = 0
	}
	n := last - start
	if n == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range volumes[start:last] {
		sum += v
	}
	avg := sum / float64(n)
	if avg <= 0 {
		return math.NaN()
	}
	return volumes[last] / avg
}

// priceVolumeTrend accumulates volume scaled by the relative close
// change; bars after a non-positive close are skipped.
func priceVolumeTrend(closes, volumes []float64) float64 {
	pvt := 0.0
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 {
			continue
		}
		pvt += volumes[i] * (closes[i] - closes[i-1]) / closes[i-1]
	}
	return pvt
}

func lastValue(series []float64) float64 {
	if len(series) == 0 {
		return math.NaN()
	}
	return series[len(series)-1]
}
