package zones

import (
	"math"

	"VNSentinel/internal/model"
)

// volumeSaturation is the reference scale for volume normalization: a
// zone whose touches sum to this volume scores 0.5 on the volume
// component. Calibrated for VN-market lot sizes; change deliberately.
const volumeSaturation = 1_000_000.0

// Strength scores a zone in [0,1] from touch count (weight 0.4),
// accumulated volume (0.3), and band tightness (0.3). Touches saturate
// at 5; a zone wider than 2% of its middle scores zero on width.
// Degenerate zones score the neutral 0.5.
func Strength(z model.Zone) float64 {
	if z.TouchCount < 1 || z.Middle <= 0 || math.IsNaN(z.Middle) ||
		math.IsNaN(z.TotalVolume) || math.IsNaN(z.Upper) || math.IsNaN(z.Lower) {
		return 0.5
	}

	touchScore := math.Min(float64(z.TouchCount)/5.0, 1.0)

	volumeScore := 0.0
	if z.TotalVolume > 0 {
		volumeScore = z.TotalVolume / (z.TotalVolume + volumeSaturation)
	}

	widthPct := (z.Upper - z.Lower) / z.Middle * 100
	widthScore := math.Max(0, 1-widthPct/2)

	return clamp01(touchScore*0.4 + volumeScore*0.3 + widthScore*0.3)
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
