package cli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	errs "tradejournal/internal/errors"
	"tradejournal/internal/stats"
	"tradejournal/internal/store"
)

func newStatsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show derived statistics",
		Long:  "Compute win rate, streaks, mistake frequency, pair performance and the emotion trend over the journal history.",
		Example: `  tradejournal stats
  tradejournal stats --from 2026-01-01 --to 2026-02-01`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return fmt.Errorf("store unavailable")
			}

			entries, err := app.Store.GetEntries(ctx, store.EntryFilter{})
			if err != nil {
				return err
			}

			interval, err := intervalFromFlags(cmd)
			if err != nil {
				return err
			}

			derived := stats.Compute(entries, interval)
			if output.IsJSON() {
				return output.JSON(derived)
			}

			output.Bold("Journal Statistics")
			output.Println()
			output.Printf("  Win rate:               %.2f%%\n", derived.WinRate)
			output.Printf("  Longest winning streak: %d\n", derived.LongestWinningStreak)
			output.Printf("  Longest losing streak:  %d\n", derived.LongestLosingStreak)
			output.Println()

			if len(derived.MistakeFrequency) > 0 {
				output.Bold("Most Common Mistakes")
				table := NewTable(output, "Mistake", "Count")
				for _, m := range derived.MistakeFrequency {
					table.AddRow(m.Tag, fmt.Sprintf("%d", m.Count))
				}
				table.Render()
				output.Println()
			}

			if len(derived.PairStats) > 0 {
				output.Bold("Pair Performance")
				table := NewTable(output, "Pair", "Trades", "Win Rate")
				symbols := make([]string, 0, len(derived.PairStats))
				for symbol := range derived.PairStats {
					symbols = append(symbols, symbol)
				}
				sort.Strings(symbols)
				for _, symbol := range symbols {
					ps := derived.PairStats[symbol]
					rate := "n/a"
					if ps.Eligible {
						rate = fmt.Sprintf("%.2f%%", ps.WinRate)
					}
					table.AddRow(ps.Symbol, fmt.Sprintf("%d", ps.Trades), rate)
				}
				table.Render()
				if worst, ok := stats.WorstPair(entries); ok {
					output.Warning("Worst pair: %s (%.2f%% over %d trades)", worst.Symbol, worst.WinRate, worst.Trades)
				}
				output.Println()
			}

			if len(derived.EmotionTrend) > 0 {
				output.Bold("Emotion Trend (most recent)")
				table := NewTable(output, "Date", "Score", "Result")
				trend := derived.EmotionTrend
				if len(trend) > 10 {
					trend = trend[len(trend)-10:]
				}
				for _, p := range trend {
					table.AddRow(FormatDate(p.Date), fmt.Sprintf("%.0f", p.EmotionScore), output.FormatPnL(p.TradingResult))
				}
				table.Render()
			}
			return nil
		},
	}

	cmd.Flags().String("from", "", "Start date (inclusive, YYYY-MM-DD)")
	cmd.Flags().String("to", "", "End date (exclusive, YYYY-MM-DD)")
	return cmd
}

// intervalFromFlags builds the optional interval filter from --from/--to.
func intervalFromFlags(cmd *cobra.Command) (*stats.Interval, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if from == "" && to == "" {
		return nil, nil
	}

	iv := &stats.Interval{End: time.Now().AddDate(100, 0, 0)}
	if from != "" {
		start, err := time.ParseInLocation("2006-01-02", from, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date %q: %w", from, err)
		}
		iv.Start = start
	}
	if to != "" {
		end, err := time.ParseInLocation("2006-01-02", to, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date %q: %w", to, err)
		}
		iv.End = end
	}
	if !iv.End.After(iv.Start) {
		return nil, fmt.Errorf("%w: --to %q is not after --from %q", errs.ErrInvalidInterval, to, from)
	}
	return iv, nil
}
