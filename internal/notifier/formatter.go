package notifier

import (
	"fmt"
	"strings"
	"time"

	"VNSentinel/internal/model"
	"VNSentinel/internal/portfolio"
)

// AlertData bundles everything that goes into one surge alert message.
type AlertData struct {
	Surge    model.SurgeResult
	Snapshot *model.IndicatorSnapshot
	Zones    model.ZoneSet
	// Confidence of the nearest zone in the surge direction, when one exists.
	NearestZone *model.Zone
	Confidence  *model.ConfidenceResult
	Advice      *model.TradeAdvice
}

// FormatSurgeAlert renders a surge alert. Prices arrive in the
// thousands feed unit and are shown in full VND.
func FormatSurgeAlert(d AlertData) string {
	var b strings.Builder

	icon := "🚨"
	if d.Surge.Direction == model.SurgeDown {
		icon = "🔻"
	}
	b.WriteString(fmt.Sprintf("%s Surge alert: %s | %s\n\n", icon, d.Surge.Symbol, d.Surge.Time.Format("2006-01-02 15:04")))
	b.WriteString(fmt.Sprintf("Price: %s (%+.2f%%)\n", formatVND(model.PriceThousands(d.Surge.Price).VND()), d.Surge.PriceChangePct))
	if d.Surge.VolumeSurge {
		b.WriteString(fmt.Sprintf("Volume: %.1fx the 20-bar average\n", d.Surge.VolumeRatio))
	}

	if s := d.Snapshot; s != nil {
		b.WriteString("\n📈 Indicators:\n")
		if s.HasRSI() {
			b.WriteString(fmt.Sprintf("  RSI(14): %.1f\n", s.RSI14))
		}
		if s.HasMACD() {
			b.WriteString(fmt.Sprintf("  MACD: %.3f | signal: %.3f\n", s.MACD, s.MACDSignal))
		}
		if s.HasVolumeRatio() {
			b.WriteString(fmt.Sprintf("  Volume ratio: %.2f\n", s.VolumeRatio))
		}
	}

	if len(d.Zones.Resistance) > 0 {
		b.WriteString("\n🧱 Resistance:\n")
		writeZones(&b, d.Zones.Resistance)
	}
	if len(d.Zones.Support) > 0 {
		b.WriteString("\n🛡 Support:\n")
		writeZones(&b, d.Zones.Support)
	}

	if d.NearestZone != nil && d.Confidence != nil {
		b.WriteString(fmt.Sprintf("\n🎯 Breakout at %s: %.0f%% (%s)\n",
			formatVND(model.PriceThousands(d.NearestZone.Middle).VND()),
			d.Confidence.Score*100, d.Confidence.Interpretation))
	}

	if d.Advice != nil {
		b.WriteString("\n🤖 Commentary:\n")
		if d.Advice.Recommendation != "" {
			b.WriteString(fmt.Sprintf("  Action: %s\n", d.Advice.Recommendation))
		}
		if d.Advice.Risk != "" {
			b.WriteString(fmt.Sprintf("  Risk: %s\n", d.Advice.Risk))
		}
		if d.Advice.Confidence != "" {
			b.WriteString(fmt.Sprintf("  Conviction: %s\n", d.Advice.Confidence))
		}
	}
	return b.String()
}

func writeZones(b *strings.Builder, zones []model.Zone) {
	max := len(zones)
	if max > 3 {
		max = 3
	}
	for _, z := range zones[:max] {
		b.WriteString(fmt.Sprintf("  %s – %s (%+.1f%%, strength %.2f, %d touches)\n",
			formatVND(model.PriceThousands(z.Lower).VND()),
			formatVND(model.PriceThousands(z.Upper).VND()),
			z.DistancePct, z.Strength, z.TouchCount))
	}
}

// FormatDailyReport renders the after-close portfolio summary.
func FormatDailyReport(reports []portfolio.HoldingReport) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📊 Portfolio report | %s\n\n", time.Now().Format("2006-01-02")))
	if len(reports) == 0 {
		b.WriteString("No priced holdings today.\n")
		return b.String()
	}

	var totalValue, totalPnL float64
	for _, r := range reports {
		b.WriteString(fmt.Sprintf("%s: %s x %.0f = %s (%+.1f%%)\n",
			r.Symbol, formatVND(r.MarketPrice), r.Quantity, formatVND(r.MarketValue), r.PnLPct))
		totalValue += float64(r.MarketValue)
		totalPnL += float64(r.PnL)
	}
	b.WriteString("─────────────────\n")
	b.WriteString(fmt.Sprintf("Total: %s | P&L: %s\n", formatVND(model.PriceVND(totalValue)), formatVND(model.PriceVND(totalPnL))))
	return b.String()
}

// formatVND renders a full-VND amount with thousands separators.
func formatVND(p model.PriceVND) string {
	v := int64(float64(p))
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%d", v)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out + "₫"
}
