package recorder

import (
	"time"

	"VNSentinel/internal/model"
)

// SurgeEvent is one triggered surge, as sent (or attempted) to the chat.
type SurgeEvent struct {
	ID             string
	Symbol         string
	Direction      model.SurgeDirection
	Price          float64
	PriceChangePct float64
	VolumeRatio    float64
	Notified       bool
	Time           time.Time
}

// ZoneRecord is one zone captured during an analysis, with the
// confidence score when one was computed.
type ZoneRecord struct {
	Symbol         string
	Side           string // "resistance" or "support"
	Upper          float64
	Lower          float64
	Middle         float64
	TouchCount     int
	Strength       float64
	DistancePct    float64
	Confidence     float64
	Interpretation string
}

// Recorder persists analysis history for later review. The monitoring
// pipeline never reads it back; it exists for audit and dashboards.
type Recorder interface {
	RecordSurge(evt *SurgeEvent) error
	RecordZones(symbol string, at time.Time, zones []ZoneRecord) error
	Close() error
}
