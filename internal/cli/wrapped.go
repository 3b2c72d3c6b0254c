package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/insights"
	"tradejournal/internal/store"
)

func newWrappedCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wrapped",
		Short: "Monthly wrapped insights",
		Long:  "Generate the month-in-review insight cards: streaks, favorite setup, active hours, mood and overtrading.",
		Example: `  tradejournal wrapped
  tradejournal wrapped --month 7 --year 2026`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return fmt.Errorf("store unavailable")
			}

			now := time.Now()
			month, _ := cmd.Flags().GetInt("month")
			year, _ := cmd.Flags().GetInt("year")
			if month == 0 {
				month = int(now.Month())
			}
			if year == 0 {
				year = now.Year()
			}
			if month < 1 || month > 12 {
				return fmt.Errorf("invalid month %d", month)
			}

			entries, err := app.Store.GetEntries(ctx, store.EntryFilter{})
			if err != nil {
				return err
			}

			opts := insights.Options{OvertradingThreshold: app.Config.Insights.OvertradingThreshold}
			cards := insights.Wrapped(entries, year, time.Month(month), opts)

			if output.IsJSON() {
				return output.JSON(cards)
			}

			output.Bold("Your %s %d Wrapped", time.Month(month), year)
			output.Println()
			for _, card := range cards {
				output.Info("%s", card.Description)
				if card.Value == insights.NotEnoughData {
					output.Dim("  %s", card.Value)
				} else {
					output.Printf("  %s\n", card.Value)
				}
				if extra, ok := card.AdditionalInfo.(string); ok && extra != "" {
					output.Dim("  %s", extra)
				}
				output.Println()
			}
			return nil
		},
	}

	cmd.Flags().Int("month", 0, "Month (1-12, defaults to current)")
	cmd.Flags().Int("year", 0, "Year (defaults to current)")
	return cmd
}
