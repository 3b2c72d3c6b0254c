package risk

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/models"
)

func TestPositionRisk(t *testing.T) {
	t.Parallel()

	res, ok := PositionRisk(1, 20, 10000, "EUR/USD")
	require.True(t, ok)

	assert.Equal(t, 200.0, res.RiskAmount)
	assert.Equal(t, 2.0, res.ActualRiskPercent)
	assert.False(t, res.IsWithinRiskLimit)
	assert.Equal(t, 0.5, res.RecommendedLotSize)
}

func TestPositionRisk_WithinLimit(t *testing.T) {
	t.Parallel()

	res, ok := PositionRisk(0.5, 20, 10000, "EUR/USD")
	require.True(t, ok)

	assert.Equal(t, 100.0, res.RiskAmount)
	assert.Equal(t, 1.0, res.ActualRiskPercent)
	assert.True(t, res.IsWithinRiskLimit, "exactly at the limit still counts as within it")
}

func TestPositionRisk_RejectsDegenerateInputs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                       string
		lotSize, stopPips, balance float64
	}{
		{"zero lot", 0, 20, 10000},
		{"negative stop", 1, -5, 10000},
		{"zero balance", 1, 20, 0},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, ok := PositionRisk(tt.lotSize, tt.stopPips, tt.balance, "EUR/USD")
			assert.False(t, ok)
		})
	}
}

func TestTradeRisk(t *testing.T) {
	t.Parallel()

	trade := models.Trade{
		ID:         "t1",
		Symbol:     "EUR/USD",
		EntryPrice: 1.1000,
		StopLoss:   1.0980, // 20 pips
		Quantity:   1,
		PnL:        -200,
	}

	res, ok := TradeRisk(trade, 10000, "EUR/USD")
	require.True(t, ok)
	assert.Equal(t, "t1", res.TradeID)
	assert.InDelta(t, 200.0, res.RiskAmount, 0.001)
	assert.InDelta(t, 2.0, res.ActualRiskPercent, 0.001)
	assert.False(t, res.IsWithinRiskLimit)
	assert.InDelta(t, 0.5, res.RecommendedLotSize, 0.001)
}

func TestTradeRisk_FailsClosed(t *testing.T) {
	t.Parallel()

	base := models.Trade{
		ID: "t1", Symbol: "EUR/USD",
		EntryPrice: 1.1, StopLoss: 1.098, Quantity: 1,
	}

	noStop := base
	noStop.StopLoss = math.NaN()
	_, ok := TradeRisk(noStop, 10000, "EUR/USD")
	assert.False(t, ok, "missing stop loss must not default to zero risk")

	zeroQty := base
	zeroQty.Quantity = 0
	_, ok = TradeRisk(zeroQty, 10000, "EUR/USD")
	assert.False(t, ok)

	_, ok = TradeRisk(base, 0, "EUR/USD")
	assert.False(t, ok)
}

func entryWithTrades(trades ...models.Trade) models.JournalEntry {
	return models.JournalEntry{
		ID:        "e1",
		CreatedAt: time.Date(2026, time.July, 1, 12, 0, 0, 0, time.Local),
		Session:   models.SessionPost,
		Emotion:   "calm",
		Trades:    trades,
	}
}

func TestAnalyze_Fallbacks(t *testing.T) {
	t.Parallel()

	withBalance := models.Trade{
		ID: "own-balance", Symbol: "EUR/USD",
		EntryPrice: 1.1, StopLoss: 1.098, Quantity: 1,
		AccountBalance: 20000,
	}
	withoutBalance := models.Trade{
		ID: "default-balance", Symbol: "",
		EntryPrice: 1.1, StopLoss: 1.098, Quantity: 1,
		AccountBalance: math.NaN(),
	}
	broken := models.Trade{
		ID: "no-stop", Symbol: "EUR/USD",
		EntryPrice: 1.1, StopLoss: math.NaN(), Quantity: 1,
		AccountBalance: math.NaN(),
	}

	results := Analyze([]models.JournalEntry{entryWithTrades(withBalance, withoutBalance, broken)}, DefaultOptions())
	require.Len(t, results, 2, "the stop-less trade is omitted")

	assert.Equal(t, "own-balance", results[0].TradeID)
	assert.False(t, results[0].UsedDefaultBalance)
	assert.False(t, results[0].UsedDefaultInstrument)
	assert.InDelta(t, 1.0, results[0].ActualRiskPercent, 0.001)

	assert.Equal(t, "default-balance", results[1].TradeID)
	assert.True(t, results[1].UsedDefaultBalance)
	assert.True(t, results[1].UsedDefaultInstrument)
	assert.Equal(t, "EUR/USD", results[1].Instrument)
	assert.InDelta(t, 2.0, results[1].ActualRiskPercent, 0.001)
}

// stoppedTrade builds a trade whose risk on the default balance works out to
// riskPct percent.
func stoppedTrade(id string, riskPct float64) models.Trade {
	// quantity 1, EUR/USD pip value 10: riskAmount = pips*10, pct = pips/10.
	pips := riskPct * 10
	return models.Trade{
		ID: id, Symbol: "EUR/USD",
		EntryPrice: 1.2,
		StopLoss:   1.2 - pips*0.0001,
		Quantity:   1,
	}
}

func TestToleranceScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		pcts []float64
		want float64
	}{
		{"no eligible trades", nil, 50},
		{"conservative", []float64{0.5, 0.8}, 40},
		{"moderate", []float64{1.5, 1.8}, 60},
		{"aggressive", []float64{3, 4}, 70},
		{"aggressive and inconsistent", []float64{0.5, 6}, 85},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var trades []models.Trade
			for i, pct := range tt.pcts {
				trades = append(trades, stoppedTrade(string(rune('a'+i)), pct))
			}
			entries := []models.JournalEntry{entryWithTrades(trades...)}
			if len(trades) == 0 {
				entries = nil
			}
			assert.InDelta(t, tt.want, ToleranceScore(entries, DefaultOptions()), 0.001)
		})
	}
}
