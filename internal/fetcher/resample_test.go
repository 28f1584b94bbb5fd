package fetcher

import (
	"testing"
	"time"

	"VNSentinel/internal/model"
)

func dailyBar(t time.Time, o, h, l, c, v float64) model.OHLCV {
	return model.OHLCV{Time: t, Open: o, High: h, Low: l, Close: c, Volume: v}
}

func TestResampleWeekly(t *testing.T) {
	// Mon 2025-06-02 through Wed 2025-06-11 spans two ISO weeks.
	mon := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	var daily []model.OHLCV
	for i := 0; i < 8; i++ {
		d := mon.AddDate(0, 0, i)
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		daily = append(daily, dailyBar(d, 100, 105+float64(i), 95-float64(i), 102, 1000))
	}

	weekly := ResampleWeekly(daily)
	if len(weekly) != 2 {
		t.Fatalf("expected 2 weekly bars, got %d", len(weekly))
	}
	w := weekly[0]
	if w.Open != 100 {
		t.Errorf("weekly open = %.1f, want first daily open 100", w.Open)
	}
	if w.High != 109 {
		t.Errorf("weekly high = %.1f, want max daily high 109", w.High)
	}
	if w.Low != 91 {
		t.Errorf("weekly low = %.1f, want min daily low 91", w.Low)
	}
	if w.Volume != 5000 {
		t.Errorf("weekly volume = %.0f, want sum 5000", w.Volume)
	}
}

func TestResampleMonthly(t *testing.T) {
	var daily []model.OHLCV
	for _, day := range []time.Time{
		time.Date(2025, 5, 28, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 5, 30, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	} {
		daily = append(daily, dailyBar(day, 100, 110, 90, 105, 1000))
	}
	monthly := ResampleMonthly(daily)
	if len(monthly) != 2 {
		t.Fatalf("expected 2 monthly bars, got %d", len(monthly))
	}
	if monthly[0].Volume != 2000 {
		t.Errorf("May volume = %.0f, want 2000", monthly[0].Volume)
	}
}

func TestResampleEmpty(t *testing.T) {
	if got := ResampleWeekly(nil); got != nil {
		t.Errorf("empty input should yield nil, got %v", got)
	}
}
