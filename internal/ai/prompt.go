package ai

import (
	"fmt"
	"strings"

	"VNSentinel/internal/model"
)

// buildPrompt renders the analysis context as a compact briefing. All
// prices stay in the thousands quote unit; the model is told so.
func buildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Ticker %s just surged. Prices below are in thousands of VND.\n\n", req.Symbol)
	fmt.Fprintf(&b, "Current price: %.2f\n", req.CurrentPrice)
	fmt.Fprintf(&b, "Move: %+.2f%% on %.1fx average volume (direction %s)\n",
		req.Surge.PriceChangePct, req.Surge.VolumeRatio, req.Surge.Direction)

	if s := req.Snapshot; s != nil {
		b.WriteString("\nIndicators:\n")
		if s.HasRSI() {
			fmt.Fprintf(&b, "- RSI(14): %.1f\n", s.RSI14)
		}
		if s.HasMACD() {
			fmt.Fprintf(&b, "- MACD %.3f vs signal %.3f\n", s.MACD, s.MACDSignal)
		}
		if s.HasVolumeRatio() {
			fmt.Fprintf(&b, "- Volume ratio: %.2f\n", s.VolumeRatio)
		}
	}

	writePromptZones(&b, "Resistance above", req.Zones.Resistance)
	writePromptZones(&b, "Support below", req.Zones.Support)

	if c := req.Confidence; c != nil {
		fmt.Fprintf(&b, "\nBreakout confidence at the nearest zone: %.0f%% (%s)\n", c.Score*100, c.Interpretation)
	}

	b.WriteString("\nGive a recommendation, the main risk, and your conviction level.")
	return b.String()
}

func writePromptZones(b *strings.Builder, label string, zones []model.Zone) {
	if len(zones) == 0 {
		return
	}
	max := len(zones)
	if max > 3 {
		max = 3
	}
	fmt.Fprintf(b, "\n%s:\n", label)
	for _, z := range zones[:max] {
		fmt.Fprintf(b, "- %.2f to %.2f (%+.1f%% away, strength %.2f, %d touches)\n",
			z.Lower, z.Upper, z.DistancePct, z.Strength, z.TouchCount)
	}
}

// parseAdvice extracts the labelled lines from the model's reply. An
// unlabelled reply survives as Raw so the alert still carries something.
func parseAdvice(content string) *model.TradeAdvice {
	advice := &model.TradeAdvice{Raw: strings.TrimSpace(content)}
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*# "))
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "recommendation:"):
			advice.Recommendation = strings.TrimSpace(line[len("recommendation:"):])
		case strings.HasPrefix(lower, "risk:"):
			advice.Risk = strings.TrimSpace(line[len("risk:"):])
		case strings.HasPrefix(lower, "confidence:"):
			advice.Confidence = strings.TrimSpace(line[len("confidence:"):])
		}
	}
	return advice
}
