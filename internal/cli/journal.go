package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/logging"
	"tradejournal/internal/normalize"
	"tradejournal/internal/store"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import journal entries from CSV",
		Long: `Import journal entries and trades from a CSV export.

Records are normalized on the way in: trades with unusable entry price or
quantity are dropped, unparsable P&L values are kept as invalid markers and
excluded from ratio statistics.`,
		Example: `  tradejournal import journal.csv`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return fmt.Errorf("store unavailable")
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			raw, err := store.ImportCSV(f)
			if err != nil {
				return err
			}

			entries, droppedRecords := normalize.EntriesReport(raw)
			for _, e := range entries {
				if err := app.Store.SaveEntry(ctx, e); err != nil {
					return err
				}
			}

			for _, rec := range droppedRecords {
				app.Logger.Warn().Str("record", rec.RecordID).Msg(rec.Error())
			}
			logging.LogImport(app.Logger, args[0], len(raw), len(entries))
			output.Success("Imported %d of %d entries", len(entries), len(raw))
			if dropped := len(raw) - len(entries); dropped > 0 {
				output.Dim("%d entries were dropped during normalization", dropped)
			}
			return nil
		},
	}
	return cmd
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "export <file>",
		Short:   "Export journal entries to CSV",
		Example: `  tradejournal export journal.csv`,
		Args:    cobra.ExactArgs(1),
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

			f, err := os.Create(args[0])
			if err != nil {
				return fmt.Errorf("create %s: %w", args[0], err)
			}
			defer f.Close()

			if err := store.ExportCSV(f, entries); err != nil {
				return err
			}
			output.Success("Exported %d entries to %s", len(entries), args[0])
			return nil
		},
	}
}
