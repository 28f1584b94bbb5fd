package portfolio

import "VNSentinel/internal/model"

// HoldingReport is one position valued at the latest market price.
// Monetary fields are in full VND for display.
type HoldingReport struct {
	Symbol      string
	Quantity    float64
	AvgCost     model.PriceVND
	MarketPrice model.PriceVND
	MarketValue model.PriceVND
	PnL         model.PriceVND
	PnLPct      float64
}

// BuildReports values every position against the quoted prices. Prices
// arrive in the thousands feed unit; the conversion to VND happens here
// and nowhere downstream. Positions without a quote are skipped.
func BuildReports(pf model.Portfolio, quotes map[string]model.PriceThousands) []HoldingReport {
	var out []HoldingReport
	for _, p := range pf.Positions {
		quote, ok := quotes[p.Symbol]
		if !ok || quote <= 0 {
			continue
		}
		cost := p.AvgCost.VND()
		price := quote.VND()
		value := model.PriceVND(float64(price) * p.Quantity)
		pnl := model.PriceVND((float64(price) - float64(cost)) * p.Quantity)
		r := HoldingReport{
			Symbol:      p.Symbol,
			Quantity:    p.Quantity,
			AvgCost:     cost,
			MarketPrice: price,
			MarketValue: value,
			PnL:         pnl,
		}
		if cost > 0 {
			r.PnLPct = (float64(price) - float64(cost)) / float64(cost) * 100
		}
		out = append(out, r)
	}
	return out
}
