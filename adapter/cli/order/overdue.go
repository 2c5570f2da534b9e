package order

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/queries"
)

var overdueMine bool

var overdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "Show the fleet-wide overdue summary",
	Long: `Summarize every active order past its stage deadline: counts per
stage, total overdue minutes and the single worst order.

Examples:
  seaops order overdue
  seaops order overdue --mine`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		query := queries.OverdueSummaryQuery{}
		if overdueMine {
			staffID := app.CurrentStaffID
			query.AssignedTo = &staffID
		}

		summary, err := app.OverdueSummaryHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to build overdue summary: %w", err)
		}

		if summary.TotalOrders == 0 {
			fmt.Println("Nothing overdue.")
			return nil
		}

		fmt.Printf("%d overdue order(s), %d minute(s) behind in total\n\n", summary.TotalOrders, summary.TotalMinutesOverdue)

		stages := make([]string, 0, len(summary.ByStage))
		for name := range summary.ByStage {
			stages = append(stages, name)
		}
		sort.Strings(stages)
		for _, name := range stages {
			fmt.Printf("  %-15s %d\n", name, summary.ByStage[name])
		}

		if summary.MostOverdue != nil {
			m := summary.MostOverdue
			fmt.Printf("\nWorst: %s (%s) stuck in %s for %d min past deadline\n",
				m.OrderNumber, m.CustomerName, m.Stage, m.MinutesOverdue)
			fmt.Printf("       %s\n", m.ID)
		}
		return nil
	},
}

func init() {
	overdueCmd.Flags().BoolVar(&overdueMine, "mine", false, "only orders assigned to the current staff member")
}
