package models

import "time"

// MistakeCount is one row of the mistake-frequency ranking.
type MistakeCount struct {
	Tag   string
	Count int
}

// PairStats holds per-instrument performance. WinRate is meaningful only
// when Eligible is true (at least 3 valid trades, the statistical
// significance floor).
type PairStats struct {
	Symbol   string
	Trades   int
	Wins     int
	WinRate  float64
	Eligible bool
}

// EmotionPoint is one point of the emotion trend series: the emotional
// score recorded on a date and the summed P&L of that date's valid trades.
type EmotionPoint struct {
	Date          time.Time
	EmotionScore  float64
	TradingResult float64
}

// DerivedStatistics is a pure, recomputed-on-demand projection over the
// journal history. It is never persisted.
type DerivedStatistics struct {
	WinRate              float64
	LongestWinningStreak int
	LongestLosingStreak  int

	// MistakeFrequency is ordered by count descending, ties by first
	// occurrence in the scan.
	MistakeFrequency []MistakeCount

	PairStats    map[string]PairStats
	EmotionTrend []EmotionPoint
}

// RiskAnalysisResult holds the per-trade position risk breakdown.
type RiskAnalysisResult struct {
	TradeID            string
	Instrument         string
	RiskAmount         float64
	ActualRiskPercent  float64
	IsWithinRiskLimit  bool
	RecommendedLotSize float64

	// UsedDefaultBalance and UsedDefaultInstrument surface that a
	// configured fallback was applied for this trade.
	UsedDefaultBalance    bool
	UsedDefaultInstrument bool
}

// InsightData is the unit of output for the monthly insight generator.
// Consumed only by presentation; Value and AdditionalInfo carry
// insight-specific payloads.
type InsightData struct {
	Key            string
	Value          string
	Description    string
	AdditionalInfo any
}
