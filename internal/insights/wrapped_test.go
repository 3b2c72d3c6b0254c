package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradejournal/internal/models"
)

func july(day, hour int) time.Time {
	return time.Date(2026, time.July, day, hour, 0, 0, 0, time.Local)
}

func entryAt(ts time.Time, emotion string, trades ...models.Trade) models.JournalEntry {
	return models.JournalEntry{
		ID:        fmt.Sprintf("e-%d", ts.Unix()),
		CreatedAt: ts,
		Session:   models.SessionPost,
		Emotion:   emotion,
		Trades:    trades,
	}
}

func tradeAt(ts time.Time, pnl float64, setup string) models.Trade {
	return models.Trade{
		Symbol:     "EUR/USD",
		EntryPrice: 1.1,
		Quantity:   1,
		PnL:        pnl,
		EntryTime:  ts,
		Setup:      setup,
	}
}

func insightByKey(t *testing.T, cards []models.InsightData, key string) models.InsightData {
	t.Helper()
	for _, c := range cards {
		if c.Key == key {
			return c
		}
	}
	t.Fatalf("insight %q not found", key)
	return models.InsightData{}
}

func TestWrapped_KeyOrderIsFixed(t *testing.T) {
	t.Parallel()

	cards := Wrapped(nil, 2026, time.July, DefaultOptions())
	require.Len(t, cards, 9)

	wantOrder := []string{
		KeyWinRate, KeyLongestWinStreak, KeyLongestLossStreak,
		KeyMostActiveHour, KeyFavoriteSetup, KeyAvgHoldingTime,
		KeyMoodPerformance, KeyOvertrading, KeyEmotionalHeatmap,
	}
	for i, key := range wantOrder {
		assert.Equal(t, key, cards[i].Key)
	}
}

func TestWrapped_EmptyMonthDegradesToNotEnoughData(t *testing.T) {
	t.Parallel()

	cards := Wrapped(nil, 2026, time.July, DefaultOptions())
	for _, key := range []string{
		KeyWinRate, KeyLongestWinStreak, KeyLongestLossStreak,
		KeyMostActiveHour, KeyFavoriteSetup, KeyAvgHoldingTime,
		KeyMoodPerformance, KeyEmotionalHeatmap,
	} {
		assert.Equal(t, NotEnoughData, insightByKey(t, cards, key).Value, "key %s", key)
	}
	assert.Equal(t, "no", insightByKey(t, cards, KeyOvertrading).Value)
}

func TestWrapped_ScopesToRequestedMonth(t *testing.T) {
	t.Parallel()

	entries := []models.JournalEntry{
		entryAt(time.Date(2026, time.June, 30, 12, 0, 0, 0, time.Local), "calm",
			tradeAt(time.Date(2026, time.June, 30, 12, 0, 0, 0, time.Local), -100, "breakout")),
		entryAt(july(10, 12), "calm", tradeAt(july(10, 12), 50, "breakout")),
	}

	cards := Wrapped(entries, 2026, time.July, DefaultOptions())
	assert.Equal(t, "100.00%", insightByKey(t, cards, KeyWinRate).Value, "the June loss is out of scope")
}

func TestMostActiveHour_TieBreaksToEarliestHour(t *testing.T) {
	t.Parallel()

	entries := []models.JournalEntry{
		entryAt(july(1, 9), "calm",
			tradeAt(july(1, 9), 10, ""),
			tradeAt(july(1, 14), 10, ""),
		),
	}

	cards := Wrapped(entries, 2026, time.July, DefaultOptions())
	card := insightByKey(t, cards, KeyMostActiveHour)
	assert.Equal(t, "09:00", card.Value)
	assert.Equal(t, "1 trades in that hour", card.AdditionalInfo)
}

func TestFavoriteSetup_TieBreaksToFirstSeen(t *testing.T) {
	t.Parallel()

	entries := []models.JournalEntry{
		entryAt(july(1, 9), "calm",
			tradeAt(july(1, 9), 10, "breakout"),
			tradeAt(july(1, 10), 10, "pullback"),
			tradeAt(july(1, 11), 10, "pullback"),
			tradeAt(july(1, 12), 10, "breakout"),
		),
	}

	cards := Wrapped(entries, 2026, time.July, DefaultOptions())
	assert.Equal(t, "breakout", insightByKey(t, cards, KeyFavoriteSetup).Value)
}

func TestAvgHoldingTime(t *testing.T) {
	t.Parallel()

	open := tradeAt(july(1, 9), 10, "")
	open.ExitTime = july(1, 11) // 2h

	quick := tradeAt(july(2, 9), -5, "")
	quick.ExitTime = july(2, 9).Add(30 * time.Minute)

	stillOpen := tradeAt(july(3, 9), 10, "")

	entries := []models.JournalEntry{
		entryAt(july(1, 9), "calm", open),
		entryAt(july(2, 9), "calm", quick),
		entryAt(july(3, 9), "calm", stillOpen),
	}

	cards := Wrapped(entries, 2026, time.July, DefaultOptions())
	assert.Equal(t, "1h 15m", insightByKey(t, cards, KeyAvgHoldingTime).Value)
}

func TestMoodPerformance_RequiresTwoEntriesPerEmotion(t *testing.T) {
	t.Parallel()

	entries := []models.JournalEntry{
		entryAt(july(1, 9), "confident", tradeAt(july(1, 9), 100, "")),
		entryAt(july(2, 9), "confident", tradeAt(july(2, 9), 50, "")),
		entryAt(july(3, 9), "anxious", tradeAt(july(3, 9), -80, "")),
		entryAt(july(4, 9), "anxious", tradeAt(july(4, 9), -20, "")),
		// One-off mood must not participate even with a huge result.
		entryAt(july(5, 9), "angry", tradeAt(july(5, 9), 9999, "")),
	}

	cards := Wrapped(entries, 2026, time.July, DefaultOptions())
	card := insightByKey(t, cards, KeyMoodPerformance)
	assert.Equal(t, "best: confident, worst: anxious", card.Value)

	moods, ok := card.AdditionalInfo.([]MoodStat)
	require.True(t, ok)
	require.Len(t, moods, 2)
	assert.InDelta(t, 75.0, moods[0].MeanPnL, 0.001)
	assert.InDelta(t, -50.0, moods[1].MeanPnL, 0.001)
}

func TestOvertrading(t *testing.T) {
	t.Parallel()

	dayOf := func(n int) []models.Trade {
		trades := make([]models.Trade, n)
		for i := range trades {
			trades[i] = tradeAt(july(10, 9).Add(time.Duration(i)*time.Minute), 1, "")
		}
		return trades
	}

	atThreshold := Wrapped([]models.JournalEntry{entryAt(july(10, 9), "calm", dayOf(5)...)},
		2026, time.July, DefaultOptions())
	assert.Equal(t, "no", insightByKey(t, atThreshold, KeyOvertrading).Value,
		"exactly the threshold is not overtrading")

	over := Wrapped([]models.JournalEntry{entryAt(july(10, 9), "calm", dayOf(6)...)},
		2026, time.July, DefaultOptions())
	card := insightByKey(t, over, KeyOvertrading)
	assert.Equal(t, "yes", card.Value)
	assert.Equal(t, "busiest day had 6 trades", card.AdditionalInfo)

	custom := Wrapped([]models.JournalEntry{entryAt(july(10, 9), "calm", dayOf(3)...)},
		2026, time.July, Options{OvertradingThreshold: 2})
	assert.Equal(t, "yes", insightByKey(t, custom, KeyOvertrading).Value)
}

func TestEmotionalHeatmap(t *testing.T) {
	t.Parallel()

	entries := []models.JournalEntry{
		entryAt(july(1, 9), "anxious"),
		entryAt(july(1, 18), "confident"),
		entryAt(july(2, 9), "anxious"),
	}

	cards := Wrapped(entries, 2026, time.July, DefaultOptions())
	card := insightByKey(t, cards, KeyEmotionalHeatmap)
	assert.Equal(t, "2 days journaled", card.Value)

	grid, ok := card.AdditionalInfo.(map[int]map[string]int)
	require.True(t, ok)
	assert.Equal(t, 1, grid[1]["anxious"])
	assert.Equal(t, 1, grid[1]["confident"])
	assert.Equal(t, 1, grid[2]["anxious"])
}
