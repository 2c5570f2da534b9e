package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/commands"
)

var cancelReason string

var cancelCmd = &cobra.Command{
	Use:   "cancel <order-id>",
	Short: "Cancel an order",
	Long: `Move an order to failed with a mandatory reason. Allowed from any
non-terminal stage.

Examples:
  seaops order cancel 4f9c1f2e... --reason "customer cancelled by phone"`,
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

		command := commands.CancelOrderCommand{
			OrderID: orderID,
			StaffID: app.CurrentStaffID,
			Reason:  cancelReason,
		}
		if err := app.CancelOrderHandler.Handle(cmd.Context(), command); err != nil {
			return fmt.Errorf("failed to cancel order: %w", err)
		}

		fmt.Println("Order cancelled.")
		return nil
	},
}

func init() {
	cancelCmd.Flags().StringVar(&cancelReason, "reason", "", "why the order failed (required)")
	cancelCmd.MarkFlagRequired("reason")
}
