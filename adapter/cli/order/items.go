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
	itemsList        []string
	itemsShippingFee int64
	itemsOtherFees   int64
)

var itemsCmd = &cobra.Command{
	Use:   "items <order-id>",
	Short: "Replace the line items of an order",
	Long: `Replace all line items and fees of an order, typically after
weighing corrected the estimated quantities. Totals are recomputed.
Only allowed before payment is taken.

Examples:
  seaops order items 4f9c1f2e... \
    --item "Lobster:2.1:kg:1650000" \
    --item "Oyster:24:pcs:35000:no.2 size" \
    --shipping-fee 30000`,
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

		items := make([]domainOrder.LineItem, 0, len(itemsList))
		for _, spec := range itemsList {
			item, err := parseLineItem(spec)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		command := commands.UpdateLineItemsCommand{
			OrderID:     orderID,
			StaffID:     app.CurrentStaffID,
			Items:       items,
			ShippingFee: itemsShippingFee,
			OtherFees:   itemsOtherFees,
		}
		result, err := app.UpdateLineItemsHandler.Handle(cmd.Context(), command)
		if err != nil {
			return fmt.Errorf("failed to update line items: %w", err)
		}

		fmt.Printf("Line items updated.\n")
		fmt.Printf("Subtotal: %s\n", formatVND(result.Subtotal))
		fmt.Printf("Total:    %s\n", formatVND(result.Total))
		return nil
	},
}

func init() {
	itemsCmd.Flags().StringArrayVar(&itemsList, "item", nil, "line item as name:quantity:unit:unitprice[:note] (repeatable, required)")
	itemsCmd.Flags().Int64Var(&itemsShippingFee, "shipping-fee", 0, "shipping fee in VND")
	itemsCmd.Flags().Int64Var(&itemsOtherFees, "other-fees", 0, "other fees in VND")

	itemsCmd.MarkFlagRequired("item")
}
