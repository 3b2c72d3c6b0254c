package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tradejournal/internal/logging"
	"tradejournal/internal/notify"
	"tradejournal/internal/store"
)

// addNotifyCommands adds notification commands.
func addNotifyCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "notify",
		Short: "Behavioral notifications",
		Long:  "Evaluate notification rules against the journal history and manage the notification log.",
	}

	cmd.AddCommand(newNotifyCheckCmd(app))
	cmd.AddCommand(newNotifyListCmd(app))
	cmd.AddCommand(newNotifyReadCmd(app))

	rootCmd.AddCommand(cmd)
}

func newNotifyCheckCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate notification rules",
		Long: `Run every notification rule against the current journal history and
append any newly triggered notifications to the log. Rules on cooldown are
skipped, so repeated runs are safe.`,
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
			existing, err := app.Store.GetNotifications(ctx, store.NotificationFilter{})
			if err != nil {
				return err
			}

			clock := notify.NewClock(time.Now())
			if hour, _ := cmd.Flags().GetInt("hour"); hour >= 0 && hour < 24 {
				clock.Hour = hour
			}

			snap := notify.BuildSnapshot(entries, clock.Today)
			fresh := notify.Evaluate(snap, existing, clock)
			if len(fresh) > 0 {
				if err := app.Store.AppendNotifications(ctx, fresh); err != nil {
					return err
				}
			}
			logging.LogNotifications(app.Logger, len(fresh))

			if output.IsJSON() {
				return output.JSON(fresh)
			}
			if len(fresh) == 0 {
				output.Info("No new notifications.")
				return nil
			}
			for _, n := range fresh {
				output.Success("%s", n.Title)
				output.Printf("  %s\n", n.Message)
			}
			return nil
		},
	}

	cmd.Flags().Int("hour", -1, "Override the local hour (0-23) for rule evaluation")
	return cmd
}

func newNotifyListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return fmt.Errorf("store unavailable")
			}

			unread, _ := cmd.Flags().GetBool("unread")
			limit, _ := cmd.Flags().GetInt("limit")

			notifications, err := app.Store.GetNotifications(ctx, store.NotificationFilter{
				UnreadOnly: unread,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(notifications)
			}
			if len(notifications) == 0 {
				output.Info("No notifications.")
				return nil
			}

			table := NewTable(output, "When", "Severity", "Title", "Read")
			for _, n := range notifications {
				read := ""
				if n.Read {
					read = "✓"
				}
				table.AddRow(FormatDate(n.CreatedAt), string(n.Severity), n.Title, read)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().Bool("unread", false, "Show unread notifications only")
	cmd.Flags().Int("limit", 20, "Maximum notifications to show")
	return cmd
}

func newNotifyReadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			if app.Store == nil {
				output.Error("Store not initialized.")
				return fmt.Errorf("store unavailable")
			}

			if err := app.Store.MarkNotificationRead(ctx, args[0]); err != nil {
				return err
			}
			output.Success("Marked %s as read", args[0])
			return nil
		},
	}
}
