package model

import "time"

// Position is one portfolio holding. Cost is stored in the thousands
// quote unit, matching the data feed.
type Position struct {
	Symbol   string         `json:"symbol"`
	Quantity float64        `json:"quantity"`
	AvgCost  PriceThousands `json:"avg_cost"`
	Note     string         `json:"note,omitempty"`
	AddedAt  time.Time      `json:"added_at"`
}

// Portfolio is the full set of tracked holdings.
type Portfolio struct {
	Positions []Position `json:"positions"`
	UpdatedAt time.Time  `json:"updated_at"`
}
