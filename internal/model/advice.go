package model

// TradeAdvice is the parsed output of the AI commentary call.
type TradeAdvice struct {
	Recommendation string `json:"recommendation"`
	Risk           string `json:"risk"`
	Confidence     string `json:"confidence"`
	Raw            string `json:"raw"`
}
