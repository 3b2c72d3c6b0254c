// Package risk computes per-trade position risk and an aggregate
// risk-tolerance score from the journal's trade set.
package risk

import (
	"math"

	"tradejournal/internal/models"
)

// riskLimitPercent is the per-trade risk ceiling used for the within-limit
// flag and the recommended lot size.
const riskLimitPercent = 1.0

// Options configures the fallbacks applied when a trade record does not
// carry its own account balance or instrument. The fallbacks never apply to
// stop-loss, quantity or entry price; trades missing those fail closed.
type Options struct {
	DefaultBalance    float64
	DefaultInstrument string
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		DefaultBalance:    10000,
		DefaultInstrument: "EUR/USD",
	}
}

// PositionRisk computes the risk breakdown for a position of lotSize lots
// with a stop stopPips away on the given instrument. The second return is
// false when the inputs cannot produce a meaningful result.
func PositionRisk(lotSize, stopPips, balance float64, instrument string) (models.RiskAnalysisResult, bool) {
	if lotSize <= 0 || stopPips <= 0 || balance <= 0 {
		return models.RiskAnalysisResult{}, false
	}

	pipValue := PipValue(instrument)
	riskAmount := lotSize * stopPips * pipValue
	riskPct := 100 * riskAmount / balance
	recommended := (riskLimitPercent / 100 * balance) / (stopPips * pipValue)

	return models.RiskAnalysisResult{
		Instrument:         instrument,
		RiskAmount:         riskAmount,
		ActualRiskPercent:  round2(riskPct),
		IsWithinRiskLimit:  riskPct <= riskLimitPercent,
		RecommendedLotSize: round2(recommended),
	}, true
}

// TradeRisk computes the risk breakdown for a journaled trade. It fails
// closed (ok == false) when the stop loss, quantity or entry price is
// missing or invalid; such trades are excluded from aggregate scoring
// rather than defaulted to zero risk.
func TradeRisk(t models.Trade, balance float64, instrument string) (models.RiskAnalysisResult, bool) {
	if !t.HasStopLoss() || t.Quantity <= 0 || t.EntryPrice <= 0 || balance <= 0 {
		return models.RiskAnalysisResult{}, false
	}

	stopPips := math.Abs(t.EntryPrice-t.StopLoss) / PipSize(instrument)
	res, ok := PositionRisk(t.Quantity, stopPips, balance, instrument)
	if !ok {
		return models.RiskAnalysisResult{}, false
	}
	res.TradeID = t.ID
	return res, true
}

// Analyze computes per-trade risk results across all journaled trades,
// applying the configured fallbacks where the trade record is silent.
// Trades with no computable risk are omitted.
func Analyze(entries []models.JournalEntry, opts Options) []models.RiskAnalysisResult {
	var out []models.RiskAnalysisResult
	for _, e := range entries {
		for _, t := range e.Trades {
			balance := opts.DefaultBalance
			usedDefaultBalance := true
			if t.HasAccountBalance() {
				balance = t.AccountBalance
				usedDefaultBalance = false
			}

			instrument := t.Symbol
			usedDefaultInstrument := false
			if instrument == "" {
				instrument = opts.DefaultInstrument
				usedDefaultInstrument = true
			}

			res, ok := TradeRisk(t, balance, instrument)
			if !ok {
				continue
			}
			res.UsedDefaultBalance = usedDefaultBalance
			res.UsedDefaultInstrument = usedDefaultInstrument
			out = append(out, res)
		}
	}
	return out
}

// ToleranceScore derives a single risk-tolerance score in [0, 100] from the
// trade set. The score starts at a neutral 50 and moves with the average
// per-trade risk percentage; inconsistent position sizing (variance of the
// percentage set above 2) adds a further penalty. With zero eligible trades
// the unmodified base score is returned.
func ToleranceScore(entries []models.JournalEntry, opts Options) float64 {
	const base = 50.0

	results := Analyze(entries, opts)
	if len(results) == 0 {
		return base
	}

	pcts := make([]float64, 0, len(results))
	var sum float64
	for _, r := range results {
		pcts = append(pcts, r.ActualRiskPercent)
		sum += r.ActualRiskPercent
	}
	avg := sum / float64(len(pcts))

	score := base
	switch {
	case avg <= 1:
		score -= 10
	case avg <= 2:
		score += 10
	default:
		score += 20
	}

	if variance(pcts, avg) > 2 {
		score += 15
	}

	return clamp(score, 0, 100)
}

func variance(xs []float64, mean float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		d := x - mean
		sum += d * d
	}
	return sum / float64(len(xs))
}

func clamp(f, lo, hi float64) float64 {
	if f < lo {
		return lo
	}
	if f > hi {
		return hi
	}
	return f
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
