package indicator

import (
	"math"
	"testing"
	"time"

	"VNSentinel/internal/model"
)

func seriesWithTrend(n int, start, step, volume float64) []model.OHLCV {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]model.OHLCV, n)
	for i := 0; i < n; i++ {
		c := start + step*float64(i)
		bars[i] = model.OHLCV{
			Time:   base.AddDate(0, 0, i),
			Open:   c - step/2,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: volume,
		}
	}
	return bars
}

func TestCompute_FullHistory(t *testing.T) {
	bars := seriesWithTrend(100, 50, 0.1, 10000)
	snap, err := Compute(bars)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if !snap.HasRSI() {
		t.Error("RSI missing with 100 bars of history")
	}
	if snap.RSI14 < 90 {
		t.Errorf("RSI = %.1f, want near 100 for a monotonically rising series", snap.RSI14)
	}
	if !snap.HasMACD() {
		t.Error("MACD missing with 100 bars of history")
	}
	if math.IsNaN(snap.SMAFast) || math.IsNaN(snap.SMASlow) {
		t.Error("SMAs missing with 100 bars of history")
	}
	if snap.CurrentPrice != bars[len(bars)-1].Close {
		t.Errorf("current price = %.2f, want last close %.2f", snap.CurrentPrice, bars[len(bars)-1].Close)
	}
}

func TestCompute_VolumeRatioExcludesCurrentBar(t *testing.T) {
	bars := seriesWithTrend(40, 50, 0.1, 10000)
	bars[len(bars)-1].Volume = 30000
	snap, err := Compute(bars)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if math.Abs(snap.VolumeRatio-3.0) > 1e-9 {
		t.Errorf("volume ratio = %.3f, want 3.0 against the prior-bar baseline", snap.VolumeRatio)
	}
}

func TestCompute_ShortHistoryDegradesGracefully(t *testing.T) {
	snap, err := Compute(seriesWithTrend(10, 50, 0.1, 10000))
	if err != nil {
		t.Fatalf("Compute on short history: %v", err)
	}
	// Adaptive windows keep RSI computable even with 10 bars.
	if !snap.HasRSI() {
		t.Error("adaptive RSI missing for 10-bar history")
	}
	if snap.HasMACD() && math.IsNaN(snap.MACDHist) {
		t.Error("MACD present but histogram missing")
	}
}

func TestCompute_EmptySeries(t *testing.T) {
	if _, err := Compute(nil); err == nil {
		t.Error("expected error for empty series")
	}
}

func TestAdaptiveParams(t *testing.T) {
	full := AdaptiveParams(200)
	if full != DefaultParams() {
		t.Error("long history must keep default params")
	}

	short := AdaptiveParams(12)
	if short.RSIPeriod >= 12 {
		t.Errorf("RSI period %d not shrunk for 12 bars", short.RSIPeriod)
	}
	if short.SMASlow >= 12 {
		t.Errorf("slow SMA %d not shrunk for 12 bars", short.SMASlow)
	}
	if short.MACDFast >= short.MACDSlow {
		t.Errorf("MACD fast %d must stay below slow %d", short.MACDFast, short.MACDSlow)
	}
}

func TestPriceVolumeTrend(t *testing.T) {
	closes := []float64{100, 110, 99}
	volumes := []float64{0, 1000, 2000}
	// +1000*0.10 - 2000*0.10 = -100
	got := priceVolumeTrend(closes, volumes)
	if math.Abs(got-(-100)) > 1e-9 {
		t.Errorf("PVT = %.2f, want -100", got)
	}
}
