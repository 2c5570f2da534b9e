package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/queries"
)

var progressCmd = &cobra.Command{
	Use:   "progress <order-id>",
	Short: "Show per-stage timing for an order",
	Long: `Show how long an order spent in each pipeline stage so far, with
warning and overdue markers against the stage time budgets.

Examples:
  seaops order progress 4f9c1f2e-8d3a-4b11-9d8e-1a2b3c4d5e6f`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		orderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid order id: %w", err)
		}

		progress, err := app.OrderProgressHandler.Handle(cmd.Context(), queries.OrderProgressQuery{OrderID: orderID})
		if err != nil {
			return fmt.Errorf("failed to get order progress: %w", err)
		}

		fmt.Printf("%s  %s (%d%%)\n", progress.OrderNumber, progress.Stage, progress.ProgressPercent)
		if progress.Deadline != nil {
			fmt.Printf("Deadline: %s (%s)\n", progress.Deadline.Local().Format("15:04 02 Jan"), remainingText(progress.RemainingMinutes))
		}
		fmt.Println()
		for _, s := range progress.Stages {
			marker := " "
			switch {
			case s.Overdue:
				marker = "!"
			case s.Warning:
				marker = "~"
			}
			fmt.Printf("  %s %-15s entered %s  %4d min\n",
				marker, s.Stage, s.EnteredAt.Local().Format("15:04 02 Jan"), s.ElapsedMinutes)
		}
		return nil
	},
}
