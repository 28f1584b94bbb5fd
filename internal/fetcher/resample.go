package fetcher

import "VNSentinel/internal/model"

// ResampleWeekly aggregates daily bars into ISO-week bars. Used for
// multi-timeframe zone analysis when the upstream source only serves
// daily history.
func ResampleWeekly(daily []model.OHLCV) []model.OHLCV {
	return resample(daily, func(b model.OHLCV) int {
		year, week := b.Time.ISOWeek()
		return year*100 + week
	})
}

// ResampleMonthly aggregates daily bars into calendar-month bars.
func ResampleMonthly(daily []model.OHLCV) []model.OHLCV {
	return resample(daily, func(b model.OHLCV) int {
		return b.Time.Year()*100 + int(b.Time.Month())
	})
}

func resample(daily []model.OHLCV, key func(model.OHLCV) int) []model.OHLCV {
	if len(daily) == 0 {
		return nil
	}
	var out []model.OHLCV
	var bucket model.OHLCV
	var bucketKey int
	var started bool

	for _, d := range daily {
		k := key(d)
		if !started {
			bucket, bucketKey, started = d, k, true
			continue
		}
		if k != bucketKey {
			out = append(out, bucket)
			bucket, bucketKey = d, k
			continue
		}
		if d.High > bucket.High {
			bucket.High = d.High
		}
		if d.Low < bucket.Low {
			bucket.Low = d.Low
		}
		bucket.Close = d.Close
		bucket.Volume += d.Volume
	}
	out = append(out, bucket)
	return out
}
