// Package stats computes derived statistics over normalized journal
// records: win rate, streaks, mistake frequency, per-pair performance and
// the emotion/P&L trend. Every function is a pure transformation over the
// in-memory record set; nothing here holds state between calls.
package stats

import (
	"math"
	"sort"
	"time"

	"tradejournal/internal/models"
)

// Interval restricts a statistic to entries whose creation timestamp falls
// in [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether ts falls within the interval.
func (iv Interval) Contains(ts time.Time) bool {
	return !ts.Before(iv.Start) && ts.Before(iv.End)
}

// Month returns the interval covering a calendar month in local time.
func Month(year int, month time.Month) Interval {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return Interval{Start: start, End: start.AddDate(0, 1, 0)}
}

// Compute builds the full statistics snapshot. Interval is optional; nil
// means the whole history.
func Compute(entries []models.JournalEntry, interval *Interval) models.DerivedStatistics {
	win, loss := Streaks(entries)
	return models.DerivedStatistics{
		WinRate:              WinRate(entries, interval),
		LongestWinningStreak: win,
		LongestLosingStreak:  loss,
		MistakeFrequency:     MistakeFrequency(entries),
		PairStats:            PairStats(entries),
		EmotionTrend:         EmotionTrend(entries),
	}
}

// WinRate returns the percentage of winning trades among trades with valid
// pnl, restricted to entries inside interval when one is given. An empty
// filtered set yields exactly 0, never NaN.
func WinRate(entries []models.JournalEntry, interval *Interval) float64 {
	var valid, wins int
	for _, e := range entries {
		if interval != nil && !interval.Contains(e.CreatedAt) {
			continue
		}
		for _, t := range e.Trades {
			if !t.PnLValid() {
				continue
			}
			valid++
			if t.PnL > 0 {
				wins++
			}
		}
	}
	if valid == 0 {
		return 0
	}
	return round2(100 * float64(wins) / float64(valid))
}

// Streaks scans trades in entry-time order and returns the longest winning
// and longest losing streak. A trade with invalid pnl is neither a win nor
// a loss and resets both running counters; breakeven trades behave the same
// way. The invalid-pnl reset is deliberate policy, not a skip.
func Streaks(entries []models.JournalEntry) (longestWin, longestLoss int) {
	trades := sortedTrades(entries)

	var runWin, runLoss int
	for _, t := range trades {
		switch {
		case t.PnLValid() && t.PnL > 0:
			runWin++
			runLoss = 0
		case t.PnLValid() && t.PnL < 0:
			runLoss++
			runWin = 0
		default:
			runWin, runLoss = 0, 0
		}
		if runWin > longestWin {
			longestWin = runWin
		}
		if runLoss > longestLoss {
			longestLoss = runLoss
		}
	}
	return longestWin, longestLoss
}

// MistakeFrequency counts mistake tags over post-session loss entries and
// returns them ordered by count descending, ties broken by first occurrence.
// The ordering is stable: re-running on the same input yields the same
// ranking.
func MistakeFrequency(entries []models.JournalEntry) []models.MistakeCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order int

	for _, e := range entries {
		if !e.IsLossSession() {
			continue
		}
		for _, tag := range e.Mistakes {
			if tag == "" {
				continue
			}
			if _, ok := counts[tag]; !ok {
				firstSeen[tag] = order
				order++
			}
			counts[tag]++
		}
	}

	out := make([]models.MistakeCount, 0, len(counts))
	for tag, n := range counts {
		out = append(out, models.MistakeCount{Tag: tag, Count: n})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Tag] < firstSeen[out[j].Tag]
	})
	return out
}

// TopMistake returns the highest-ranked mistake tag, if any.
func TopMistake(entries []models.JournalEntry) (models.MistakeCount, bool) {
	freq := MistakeFrequency(entries)
	if len(freq) == 0 {
		return models.MistakeCount{}, false
	}
	return freq[0], true
}

// PairStats groups valid trades by instrument. A pair's win rate is defined
// only once it has at least 3 valid trades; below that Eligible is false
// and WinRate stays zero rather than reporting a misleading figure.
func PairStats(entries []models.JournalEntry) map[string]models.PairStats {
	stats, _ := pairStatsOrdered(entries)
	return stats
}

// WorstPair returns the eligible pair with the lowest win rate. Ties break
// by first appearance in the trade history. The second return is false when
// no pair clears the significance floor.
func WorstPair(entries []models.JournalEntry) (models.PairStats, bool) {
	stats, order := pairStatsOrdered(entries)

	var worst models.PairStats
	found := false
	for _, symbol := range order {
		ps := stats[symbol]
		if !ps.Eligible {
			continue
		}
		if !found || ps.WinRate < worst.WinRate {
			worst = ps
			found = true
		}
	}
	return worst, found
}

func pairStatsOrdered(entries []models.JournalEntry) (map[string]models.PairStats, []string) {
	stats := make(map[string]models.PairStats)
	var order []string

	for _, t := range sortedTrades(entries) {
		if !t.PnLValid() || t.Symbol == "" {
			continue
		}
		ps, ok := stats[t.Symbol]
		if !ok {
			ps = models.PairStats{Symbol: t.Symbol}
			order = append(order, t.Symbol)
		}
		ps.Trades++
		if t.PnL > 0 {
			ps.Wins++
		}
		stats[t.Symbol] = ps
	}

	for symbol, ps := range stats {
		if ps.Trades >= 3 {
			ps.Eligible = true
			ps.WinRate = round2(100 * float64(ps.Wins) / float64(ps.Trades))
			stats[symbol] = ps
		}
	}
	return stats, order
}

// EmotionTrend emits one point per date for entries that have a numeric
// emotion-score mapping and at least one trade. Same-date collisions keep
// the last entry's score and sum trading results.
func EmotionTrend(entries []models.JournalEntry) []models.EmotionPoint {
	sorted := make([]models.JournalEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	points := make(map[time.Time]*models.EmotionPoint)
	var dates []time.Time

	for _, e := range sorted {
		score, ok := EmotionScore(e.Emotion)
		if !ok || len(e.Trades) == 0 {
			continue
		}
		day := dateOf(e.CreatedAt)

		p, exists := points[day]
		if !exists {
			p = &models.EmotionPoint{Date: day}
			points[day] = p
			dates = append(dates, day)
		}
		p.EmotionScore = score
		for _, t := range e.Trades {
			if t.PnLValid() {
				p.TradingResult += t.PnL
			}
		}
	}

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	out := make([]models.EmotionPoint, 0, len(dates))
	for _, d := range dates {
		out = append(out, *points[d])
	}
	return out
}

// sortedTrades flattens all trades across entries, ordered by trade entry
// time ascending. Source ordering is unspecified at the fetch boundary, so
// every order-sensitive statistic sorts explicitly.
func sortedTrades(entries []models.JournalEntry) []models.Trade {
	var trades []models.Trade
	for _, e := range entries {
		trades = append(trades, e.Trades...)
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].EntryTime.Before(trades[j].EntryTime)
	})
	return trades
}

func dateOf(ts time.Time) time.Time {
	return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, ts.Location())
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
