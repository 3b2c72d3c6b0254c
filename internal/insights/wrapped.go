// Package insights generates the month-scoped "wrapped" insight cards:
// streaks, favorite setup, active hours, mood/performance relation,
// overtrading and the emotional heatmap. Each insight is computed
// independently and degrades to a documented not-enough-data value when its
// sample-size requirement is unmet.
package insights

import (
	"fmt"
	"sort"
	"time"

	"tradejournal/internal/models"
	"tradejournal/internal/stats"
)

// NotEnoughData is the value reported by any insight whose minimum sample
// size is unmet. Presentation renders it as-is.
const NotEnoughData = "Not enough data"

// Insight keys, in the fixed output order.
const (
	KeyWinRate           = "win_rate"
	KeyLongestWinStreak  = "longest_win_streak"
	KeyLongestLossStreak = "longest_loss_streak"
	KeyMostActiveHour    = "most_active_hour"
	KeyFavoriteSetup     = "favorite_setup"
	KeyAvgHoldingTime    = "avg_holding_time"
	KeyMoodPerformance   = "mood_performance"
	KeyOvertrading       = "overtrading"
	KeyEmotionalHeatmap  = "emotional_heatmap"
)

// DefaultOvertradingThreshold is the per-day trade count above which a
// month is flagged as overtraded.
const DefaultOvertradingThreshold = 5

// Options tunes insight generation.
type Options struct {
	OvertradingThreshold int
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{OvertradingThreshold: DefaultOvertradingThreshold}
}

// MoodStat is one row of the mood/performance payload.
type MoodStat struct {
	Emotion string
	MeanPnL float64
	Entries int
}

// Wrapped computes the fixed, ordered insight set for a calendar month.
func Wrapped(entries []models.JournalEntry, year int, month time.Month, opts Options) []models.InsightData {
	if opts.OvertradingThreshold <= 0 {
		opts.OvertradingThreshold = DefaultOvertradingThreshold
	}

	interval := stats.Month(year, month)
	scoped := filterInterval(entries, interval)

	out := make([]models.InsightData, 0, 9)
	out = append(out, winRateInsight(scoped, interval))
	out = append(out, streakInsights(scoped)...)
	out = append(out, mostActiveHour(scoped))
	out = append(out, favoriteSetup(scoped))
	out = append(out, avgHoldingTime(scoped))
	out = append(out, moodPerformance(scoped))
	out = append(out, overtrading(scoped, opts.OvertradingThreshold))
	out = append(out, emotionalHeatmap(scoped))
	return out
}

func filterInterval(entries []models.JournalEntry, iv stats.Interval) []models.JournalEntry {
	var out []models.JournalEntry
	for _, e := range entries {
		if iv.Contains(e.CreatedAt) {
			out = append(out, e)
		}
	}
	return out
}

func winRateInsight(scoped []models.JournalEntry, iv stats.Interval) models.InsightData {
	if countValidTrades(scoped) == 0 {
		return models.InsightData{
			Key:         KeyWinRate,
			Value:       NotEnoughData,
			Description: "Win rate for the month",
		}
	}
	rate := stats.WinRate(scoped, &iv)
	return models.InsightData{
		Key:         KeyWinRate,
		Value:       fmt.Sprintf("%.2f%%", rate),
		Description: "Win rate for the month",
	}
}

func streakInsights(scoped []models.JournalEntry) []models.InsightData {
	win, loss := stats.Streaks(scoped)

	winValue, lossValue := NotEnoughData, NotEnoughData
	if countValidTrades(scoped) > 0 {
		winValue = fmt.Sprintf("%d trades", win)
		lossValue = fmt.Sprintf("%d trades", loss)
	}
	return []models.InsightData{
		{
			Key:         KeyLongestWinStreak,
			Value:       winValue,
			Description: "Longest run of consecutive winning trades",
		},
		{
			Key:         KeyLongestLossStreak,
			Value:       lossValue,
			Description: "Longest run of consecutive losing trades",
		},
	}
}

// mostActiveHour finds the hour-of-day bucket with the most trades. Ties
// break toward the earliest hour.
func mostActiveHour(scoped []models.JournalEntry) models.InsightData {
	var buckets [24]int
	total := 0
	for _, e := range scoped {
		for _, t := range e.Trades {
			buckets[t.EntryTime.Hour()]++
			total++
		}
	}

	if total == 0 {
		return models.InsightData{
			Key:         KeyMostActiveHour,
			Value:       NotEnoughData,
			Description: "Hour of day with the most trades",
		}
	}

	best := 0
	for h := 1; h < 24; h++ {
		if buckets[h] > buckets[best] {
			best = h
		}
	}
	return models.InsightData{
		Key:            KeyMostActiveHour,
		Value:          fmt.Sprintf("%02d:00", best),
		Description:    "Hour of day with the most trades",
		AdditionalInfo: fmt.Sprintf("%d trades in that hour", buckets[best]),
	}
}

// favoriteSetup finds the most frequent non-empty setup tag. Ties break by
// first-seen order.
func favoriteSetup(scoped []models.JournalEntry) models.InsightData {
	counts := make(map[string]int)
	var order []string

	for _, e := range scoped {
		for _, t := range e.Trades {
			if t.Setup == "" {
				continue
			}
			if _, ok := counts[t.Setup]; !ok {
				order = append(order, t.Setup)
			}
			counts[t.Setup]++
		}
	}

	if len(order) == 0 {
		return models.InsightData{
			Key:         KeyFavoriteSetup,
			Value:       NotEnoughData,
			Description: "Most traded setup this month",
		}
	}

	best := order[0]
	for _, setup := range order[1:] {
		if counts[setup] > counts[best] {
			best = setup
		}
	}
	return models.InsightData{
		Key:            KeyFavoriteSetup,
		Value:          best,
		Description:    "Most traded setup this month",
		AdditionalInfo: fmt.Sprintf("%d trades", counts[best]),
	}
}

func avgHoldingTime(scoped []models.JournalEntry) models.InsightData {
	var total time.Duration
	var n int
	for _, e := range scoped {
		for _, t := range e.Trades {
			if t.ExitTime.IsZero() || !t.ExitTime.After(t.EntryTime) {
				continue
			}
			total += t.ExitTime.Sub(t.EntryTime)
			n++
		}
	}

	if n == 0 {
		return models.InsightData{
			Key:         KeyAvgHoldingTime,
			Value:       NotEnoughData,
			Description: "Average time in a position",
		}
	}
	avg := total / time.Duration(n)
	return models.InsightData{
		Key:         KeyAvgHoldingTime,
		Value:       formatDuration(avg),
		Description: "Average time in a position",
	}
}

// moodPerformance relates emotion labels to mean trade P&L. An emotion
// needs at least 2 entries in the month to participate.
func moodPerformance(scoped []models.JournalEntry) models.InsightData {
	type acc struct {
		sum     float64
		trades  int
		entries int
	}
	byEmotion := make(map[string]*acc)
	var order []string

	for _, e := range scoped {
		if e.Emotion == "" {
			continue
		}
		a, ok := byEmotion[e.Emotion]
		if !ok {
			a = &acc{}
			byEmotion[e.Emotion] = a
			order = append(order, e.Emotion)
		}
		a.entries++
		for _, t := range e.Trades {
			if t.PnLValid() {
				a.sum += t.PnL
				a.trades++
			}
		}
	}

	var moods []MoodStat
	for _, emotion := range order {
		a := byEmotion[emotion]
		if a.entries < 2 || a.trades == 0 {
			continue
		}
		moods = append(moods, MoodStat{
			Emotion: emotion,
			MeanPnL: a.sum / float64(a.trades),
			Entries: a.entries,
		})
	}

	if len(moods) == 0 {
		return models.InsightData{
			Key:         KeyMoodPerformance,
			Value:       NotEnoughData,
			Description: "Best and worst trading mood by average P&L",
		}
	}

	sort.SliceStable(moods, func(i, j int) bool { return moods[i].MeanPnL > moods[j].MeanPnL })
	best, worst := moods[0], moods[len(moods)-1]
	return models.InsightData{
		Key:            KeyMoodPerformance,
		Value:          fmt.Sprintf("best: %s, worst: %s", best.Emotion, worst.Emotion),
		Description:    "Best and worst trading mood by average P&L",
		AdditionalInfo: moods,
	}
}

func overtrading(scoped []models.JournalEntry, threshold int) models.InsightData {
	perDay := make(map[int]int)
	for _, e := range scoped {
		for _, t := range e.Trades {
			perDay[t.EntryTime.Day()]++
		}
	}

	flagged := false
	peak := 0
	for _, n := range perDay {
		if n > peak {
			peak = n
		}
		if n > threshold {
			flagged = true
		}
	}

	value := "no"
	if flagged {
		value = "yes"
	}
	return models.InsightData{
		Key:            KeyOvertrading,
		Value:          value,
		Description:    fmt.Sprintf("Any single day with more than %d trades", threshold),
		AdditionalInfo: fmt.Sprintf("busiest day had %d trades", peak),
	}
}

// emotionalHeatmap builds a day-of-month by emotion intensity grid, where
// intensity is the count of entries of that emotion on that day. It is a
// presentation payload only; nothing downstream computes on it.
func emotionalHeatmap(scoped []models.JournalEntry) models.InsightData {
	grid := make(map[int]map[string]int)
	for _, e := range scoped {
		if e.Emotion == "" {
			continue
		}
		day := e.CreatedAt.Day()
		if grid[day] == nil {
			grid[day] = make(map[string]int)
		}
		grid[day][e.Emotion]++
	}

	value := fmt.Sprintf("%d days journaled", len(grid))
	if len(grid) == 0 {
		value = NotEnoughData
	}
	return models.InsightData{
		Key:            KeyEmotionalHeatmap,
		Value:          value,
		Description:    "Emotion intensity per day of the month",
		AdditionalInfo: grid,
	}
}

func countValidTrades(entries []models.JournalEntry) int {
	n := 0
	for _, e := range entries {
		for _, t := range e.Trades {
			if t.PnLValid() {
				n++
			}
		}
	}
	return n
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	h := d / time.Hour
	m := (d % time.Hour) / time.Minute
	if h == 0 {
		return fmt.Sprintf("%dm", m)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}
