package model

import "time"

// SurgeDirection indicates which way price moved during a surge.
type SurgeDirection string

const (
	SurgeUp      SurgeDirection = "UP"
	SurgeDown    SurgeDirection = "DOWN"
	SurgeNeutral SurgeDirection = "NEUTRAL"
)

// SurgeResult is the outcome of one surge check for one symbol.
type SurgeResult struct {
	Symbol         string         `json:"symbol"`
	Triggered      bool           `json:"triggered"`
	VolumeSurge    bool           `json:"volume_surge"`
	PriceSurge     bool           `json:"price_surge"`
	VolumeRatio    float64        `json:"volume_ratio"`
	PriceChangePct float64        `json:"price_change_pct"`
	Direction      SurgeDirection `json:"direction"`
	Price          float64        `json:"price"`
	Reason         string         `json:"reason,omitempty"`
	Time           time.Time      `json:"time"`
}
