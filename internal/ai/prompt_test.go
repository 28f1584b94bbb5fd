package ai

import (
	"strings"
	"testing"

	"VNSentinel/internal/model"
)

func TestBuildPrompt(t *testing.T) {
	req := Request{
		Symbol:       "HPG",
		CurrentPrice: 27.5,
		Surge: model.SurgeResult{
			PriceChangePct: 4.1,
			VolumeRatio:    2.3,
			Direction:      model.SurgeUp,
		},
		Snapshot: &model.IndicatorSnapshot{RSI14: 61, MACD: 0.4, MACDSignal: 0.3},
		Zones: model.ZoneSet{
			Resistance: []model.Zone{{Lower: 28.4, Upper: 29, DistancePct: 4.4, Strength: 0.7, TouchCount: 3}},
		},
		Confidence: &model.ConfidenceResult{Score: 0.68, Interpretation: "High Confidence"},
	}

	got := buildPrompt(req)
	for _, want := range []string{"HPG", "27.50", "RSI(14): 61.0", "Resistance above", "68%", "High Confidence"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestParseAdvice(t *testing.T) {
	content := `Recommendation: Hold until a daily close above 29.
Risk: Failed breakout back into 28.4-29.
Confidence: Medium-high.`

	advice := parseAdvice(content)
	if advice.Recommendation != "Hold until a daily close above 29." {
		t.Errorf("recommendation = %q", advice.Recommendation)
	}
	if advice.Risk != "Failed breakout back into 28.4-29." {
		t.Errorf("risk = %q", advice.Risk)
	}
	if advice.Confidence != "Medium-high." {
		t.Errorf("confidence = %q", advice.Confidence)
	}
}

func TestParseAdvice_TolerantOfFormatting(t *testing.T) {
	content := "Some preamble.\n- **Recommendation:** take partial profit\n* risk: liquidity dries up\n"
	advice := parseAdvice(content)
	if advice.Risk != "liquidity dries up" {
		t.Errorf("risk = %q, want lowercase prefix matched", advice.Risk)
	}
	if advice.Raw == "" {
		t.Error("raw reply must be preserved")
	}
}

func TestParseAdvice_UnstructuredReply(t *testing.T) {
	advice := parseAdvice("The stock looks strong.")
	if advice.Recommendation != "" || advice.Raw != "The stock looks strong." {
		t.Errorf("unexpected parse: %+v", advice)
	}
}
