package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/queries"
)

var (
	listStage       string
	listAssignedTo  string
	listMine        bool
	listOverdueOnly bool
	listAll         bool
	listLimit       int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders on the board",
	Long: `List orders sorted by urgency, the tightest deadline first.

Active orders only by default; --all includes completed and failed ones.

Examples:
  seaops order list
  seaops order list --stage weighing --overdue
  seaops order list --mine --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		query := queries.ListOrdersQuery{
			Stage:       listStage,
			OverdueOnly: listOverdueOnly,
			ActiveOnly:  !listAll,
			Limit:       listLimit,
		}
		if listMine {
			staffID := app.CurrentStaffID
			query.AssignedTo = &staffID
		} else if listAssignedTo != "" {
			staffID, err := uuid.Parse(listAssignedTo)
			if err != nil {
				return fmt.Errorf("invalid staff id: %w", err)
			}
			query.AssignedTo = &staffID
		}

		summaries, err := app.ListOrdersHandler.Handle(cmd.Context(), query)
		if err != nil {
			return fmt.Errorf("failed to list orders: %w", err)
		}

		if len(summaries) == 0 {
			fmt.Println("No orders found.")
			return nil
		}

		fmt.Printf("%-38s %-18s %-15s %4s  %-22s %s\n", "ID", "ORDER", "STAGE", "PROG", "DEADLINE", "CUSTOMER")
		for _, s := range summaries {
			stageCol := s.Stage
			if s.Overdue {
				stageCol += " !"
			}
			fmt.Printf("%-38s %-18s %-15s %3d%%  %-22s %s\n",
				s.ID, s.OrderNumber, stageCol, s.ProgressPercent,
				deadlineText(s.Deadline, s.RemainingMinutes), s.CustomerName)
		}
		fmt.Printf("\n%d order(s)\n", len(summaries))
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listStage, "stage", "", "filter by current stage")
	listCmd.Flags().StringVar(&listAssignedTo, "assigned-to", "", "filter by assigned staff id")
	listCmd.Flags().BoolVar(&listMine, "mine", false, "only orders assigned to the current staff member")
	listCmd.Flags().BoolVar(&listOverdueOnly, "overdue", false, "only orders past their stage deadline")
	listCmd.Flags().BoolVar(&listAll, "all", false, "include completed and failed orders")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "maximum number of orders (0 = no limit)")
}
