package model

import "math"

// IndicatorSnapshot holds the latest value of each computed indicator.
// A NaN field means the indicator could not be computed from the
// available history; consumers treat NaN as absent/neutral.
type IndicatorSnapshot struct {
	CurrentPrice  float64
	CurrentVolume float64
	SMAFast       float64
	SMASlow       float64
	RSI14         float64
	MACD          float64
	MACDSignal    float64
	MACDHist      float64
	VolumeRatio   float64
	OBV           float64
	PVT           float64
}

// HasRSI reports whether RSI was computable.
func (s *IndicatorSnapshot) HasRSI() bool { return s != nil && !math.IsNaN(s.RSI14) }

// HasMACD reports whether both MACD and its signal were computable.
func (s *IndicatorSnapshot) HasMACD() bool {
	return s != nil && !math.IsNaN(s.MACD) && !math.IsNaN(s.MACDSignal)
}

// HasVolumeRatio reports whether the volume ratio was computable.
func (s *IndicatorSnapshot) HasVolumeRatio() bool { return s != nil && !math.IsNaN(s.VolumeRatio) }
