package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/commands"
	domainOrder "github.com/tuanvu/seaops/internal/fulfillment/domain/order"
)

var (
	assignStaff []string
	assignClear bool
)

var assignCmd = &cobra.Command{
	Use:   "assign <order-id>",
	Short: "Replace the staff assigned to an order",
	Long: `Replace the full assignment list of an order. --clear removes
everyone, which leaves the order unassigned.

Examples:
  seaops order assign 4f9c1f2e... --staff 7b1d... --staff 9e2f...
  seaops order assign 4f9c1f2e... --clear`,
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
		if !assignClear && len(assignStaff) == 0 {
			return fmt.Errorf("%w (or pass --clear)", domainOrder.ErrEmptyAssignment)
		}

		var assignees []uuid.UUID
		if !assignClear {
			for _, raw := range assignStaff {
				staffID, err := uuid.Parse(raw)
				if err != nil {
					return fmt.Errorf("invalid staff id %q: %w", raw, err)
				}
				// departed staff stay resolvable in views, but new
				// assignments must exist in the directory
				if _, err := app.StaffDirectory.Resolve(cmd.Context(), staffID); err != nil {
					return fmt.Errorf("unknown staff member %s: %w", staffID, err)
				}
				assignees = append(assignees, staffID)
			}
		}

		command := commands.AssignStaffCommand{
			OrderID:   orderID,
			StaffID:   app.CurrentStaffID,
			Assignees: assignees,
		}
		if err := app.AssignStaffHandler.Handle(cmd.Context(), command); err != nil {
			return fmt.Errorf("failed to assign staff: %w", err)
		}

		if assignClear {
			fmt.Println("Assignment cleared.")
		} else {
			fmt.Printf("Assigned %d staff member(s).\n", len(assignees))
		}
		return nil
	},
}

func init() {
	assignCmd.Flags().StringArrayVar(&assignStaff, "staff", nil, "staff id to assign (repeatable, replaces the current list)")
	assignCmd.Flags().BoolVar(&assignClear, "clear", false, "remove all assignees")
}
