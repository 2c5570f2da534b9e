package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/commands"
	domainOrder "github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

var (
	advanceTo           string
	advanceConfirmed    bool
	advanceImages       []string
	advancePayment      string
	advanceShipType     string
	advanceShipperName  string
	advanceShipperPhone string
	advanceShipperID    string
	advanceScheduledAt  string
	advanceNote         string
)

var advanceCmd = &cobra.Command{
	Use:   "advance <order-id>",
	Short: "Move an order to its next stage",
	Long: `Move an order to the next pipeline stage. Each edge has its own
requirements: some ask for confirmation, some for photos, the payment
edge for a payment method and the delivery edge for shipping details.

Examples:
  seaops order advance 4f9c1f2e... --to weighing --yes
  seaops order advance 4f9c1f2e... --to payment --image redis://...:weights
  seaops order advance 4f9c1f2e... --to in_kitchen --payment transfer
  seaops order advance 4f9c1f2e... --to delivery --ship-type external \
    --shipper "Grab - Hung" --shipper-phone 0912345678`,
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

		command := commands.AdvanceOrderCommand{
			OrderID:   orderID,
			StaffID:   app.CurrentStaffID,
			To:        stage.ID(advanceTo),
			Confirmed: advanceConfirmed,
			Note:      advanceNote,
		}

		for _, ref := range advanceImages {
			command.Images = append(command.Images, domainOrder.ImageUpload{Ref: ref})
		}
		if advancePayment != "" {
			command.PaymentMethod = domainOrder.PaymentMethod(advancePayment)
		}
		if advanceShipType != "" {
			command.Shipping = &domainOrder.ShippingInfo{
				Type:        domainOrder.ShippingType(advanceShipType),
				ShipperName: advanceShipperName,
				Phone:       advanceShipperPhone,
				ShipperID:   advanceShipperID,
			}
		}
		if advanceScheduledAt != "" {
			at, err := time.ParseInLocation("2006-01-02 15:04", advanceScheduledAt, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --at time (use \"2006-01-02 15:04\"): %w", err)
			}
			command.ScheduledAt = &at
		}

		result, err := app.AdvanceOrderHandler.Handle(cmd.Context(), command)
		if err != nil {
			return fmt.Errorf("failed to advance order: %w", err)
		}

		fmt.Printf("Order moved to %s\n", result.Stage)
		if result.Deadline != nil {
			fmt.Printf("Stage deadline: %s\n", result.Deadline.Local().Format("15:04 02 Jan 2006"))
		}
		return nil
	},
}

func init() {
	advanceCmd.Flags().StringVar(&advanceTo, "to", "", "target stage (required)")
	advanceCmd.Flags().BoolVar(&advanceConfirmed, "yes", false, "confirm the transition where the edge requires it")
	advanceCmd.Flags().StringArrayVar(&advanceImages, "image", nil, "image reference required by the edge (repeatable)")
	advanceCmd.Flags().StringVar(&advancePayment, "payment", "", "payment method: cash, transfer or cod")
	advanceCmd.Flags().StringVar(&advanceShipType, "ship-type", "", "shipping type: external or company")
	advanceCmd.Flags().StringVar(&advanceShipperName, "shipper", "", "shipper name")
	advanceCmd.Flags().StringVar(&advanceShipperPhone, "shipper-phone", "", "shipper phone (external shipping)")
	advanceCmd.Flags().StringVar(&advanceShipperID, "shipper-id", "", "company shipper id")
	advanceCmd.Flags().StringVar(&advanceScheduledAt, "at", "", "scheduled time \"2006-01-02 15:04\" where the edge allows it")
	advanceCmd.Flags().StringVar(&advanceNote, "note", "", "note recorded on the pipeline history")

	advanceCmd.MarkFlagRequired("to")
}
