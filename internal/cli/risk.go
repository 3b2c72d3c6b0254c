package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/risk"
	"tradejournal/internal/store"
)

func newRiskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Analyze position risk",
		Long: `Compute per-trade risk (risk amount, risk percentage, recommended lot
size) and the aggregate risk-tolerance score across the journal history.

Trades without a stop loss, quantity or entry price are excluded rather
than counted as zero risk.`,
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

			opts := risk.Options{
				DefaultBalance:    app.Config.Risk.DefaultAccountBalance,
				DefaultInstrument: app.Config.Risk.DefaultInstrument,
			}
			results := risk.Analyze(entries, opts)
			score := risk.ToleranceScore(entries, opts)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"trades":          results,
					"tolerance_score": score,
				})
			}

			output.Bold("Risk Analysis")
			output.Println()

			if len(results) == 0 {
				output.Info("No trades with computable risk (stop loss, quantity and entry price required).")
			} else {
				table := NewTable(output, "Trade", "Instrument", "Risk", "Risk %", "Within 1%", "Rec. Lots")
				for _, r := range results {
					within := output.ColoredString(ColorGreen, "yes")
					if !r.IsWithinRiskLimit {
						within = output.ColoredString(ColorRed, "NO")
					}
					instrument := r.Instrument
					if r.UsedDefaultInstrument {
						instrument += "*"
					}
					table.AddRow(
						TruncateString(r.TradeID, 12),
						instrument,
						FormatCurrency(r.RiskAmount),
						fmt.Sprintf("%.2f%%", r.ActualRiskPercent),
						within,
						fmt.Sprintf("%.2f", r.RecommendedLotSize),
					)
				}
				table.Render()
				output.Dim("* default instrument applied")
				output.Println()
			}

			output.Bold("Risk Tolerance Score: %.0f / 100", score)
			switch {
			case score <= 40:
				output.Success("Conservative position sizing.")
			case score <= 60:
				output.Info("Moderate risk appetite.")
			default:
				output.Warning("Aggressive sizing. Consider tightening position risk toward 1%%.")
			}
			return nil
		},
	}
	return cmd
}
