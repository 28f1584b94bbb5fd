package model

import "time"

// PivotPoint is a bar whose high (or low) is a strict local extremum
// over its left/right comparison windows.
type PivotPoint struct {
	Index  int       `json:"index"`
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
	Volume float64   `json:"volume"`
}

// Touch is a single bar's high or low considered as evidence for a zone.
type Touch struct {
	Price  float64   `json:"price"`
	Time   time.Time `json:"time"`
	Volume float64   `json:"volume"`
}

// Zone is a merged price range aggregating one or more touches or pivots
// within a tolerance band. Prices are in whatever unit the input series
// uses; no conversion happens inside the zone engine.
type Zone struct {
	Upper       float64   `json:"upper"`
	Lower       float64   `json:"lower"`
	Middle      float64   `json:"middle"`
	TouchCount  int       `json:"touch_count"`
	TotalVolume float64   `json:"total_volume"`
	LatestTouch time.Time `json:"latest_touch"`
	Touches     []Touch   `json:"touches"`

	// Derived once the zone is finalized.
	Strength    float64 `json:"strength"`
	DistancePct float64 `json:"distance_pct"`
	WidthPct    float64 `json:"width_pct"`
}

// ZoneSet is the complete output of one zone analysis. Resistance and
// Support are filtered, nearest-first, and truncated; All holds every
// scored zone on both sides.
type ZoneSet struct {
	Resistance []Zone `json:"resistance_zones"`
	Support    []Zone `json:"support_zones"`
	All        []Zone `json:"all_zones"`
}

// ConfidenceBreakdown holds the four sub-scores behind a confidence score.
type ConfidenceBreakdown struct {
	VolumeStrength   float64 `json:"volume_strength"`
	ZoneStrength     float64 `json:"zone_strength"`
	MomentumStrength float64 `json:"momentum_strength"`
	PatternStrength  float64 `json:"pattern_strength"`
}

// ConfidenceResult is the outcome of scoring one zone against the
// latest indicator snapshot and recent price history.
type ConfidenceResult struct {
	Score          float64             `json:"confidence_score"`
	Breakdown      ConfidenceBreakdown `json:"breakdown"`
	Interpretation string              `json:"interpretation"`
}
