package model

// Vietnamese data feeds quote prices in thousands of VND while position
// records and user-facing output use full VND. The two typed wrappers
// keep that conversion explicit at the call site.

// PriceThousands is a price expressed in thousands of VND.
type PriceThousands float64

// PriceVND is a price expressed in full VND.
type PriceVND float64

const priceDivisor = 1000

// VND converts a thousands-quoted price to full VND.
func (p PriceThousands) VND() PriceVND { return PriceVND(float64(p) * priceDivisor) }

// Thousands converts a full-VND price to the thousands quote unit.
func (p PriceVND) Thousands() PriceThousands { return PriceThousands(float64(p) / priceDivisor) }
