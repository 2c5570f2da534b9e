package order

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/commands"
)

var deleteYes bool

var deleteCmd = &cobra.Command{
	Use:   "delete <order-id>",
	Short: "Delete an order permanently",
	Long: `Remove an order together with its line items, stage history and
attachment records. Stored attachment blobs are cleaned up afterwards.

Examples:
  seaops order delete 4f9c1f2e... --yes`,
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

		if !deleteYes {
			return fmt.Errorf("deletion is permanent, pass --yes to confirm")
		}

		command := commands.DeleteOrderCommand{
			OrderID: orderID,
			StaffID: app.CurrentStaffID,
		}
		if err := app.DeleteOrderHandler.Handle(cmd.Context(), command); err != nil {
			return fmt.Errorf("failed to delete order: %w", err)
		}

		// Best effort; the order row is already gone.
		if err := app.AttachmentStore.DeleteOrder(cmd.Context(), orderID); err != nil {
			fmt.Printf("Warning: could not remove stored attachments: %v\n", err)
		}

		fmt.Println("Order deleted.")
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "confirm permanent deletion")
}
