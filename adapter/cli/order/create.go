package order

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/commands"
	domainOrder "github.com/tuanvu/seaops/internal/fulfillment/domain/order"
)

var (
	createCustomerName    string
	createCustomerPhone   string
	createCustomerAddress string
	createItems           []string
	createShippingFee     int64
	createOtherFees       int64
	createNotes           string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new order",
	Long: `Create a new order at the start of the fulfillment pipeline.

Each --item takes the form name:quantity:unit:unitprice[:note], with the
unit price in VND. The order number is generated from today's date.

Examples:
  seaops order create --customer "Nguyen Van An" --phone 0901234567 \
    --address "12 Tran Phu, Da Nang" \
    --item "Lobster:1.8:kg:1650000" \
    --item "Oyster:24:pcs:35000:no.2 size" \
    --shipping-fee 25000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		items := make([]domainOrder.LineItem, 0, len(createItems))
		for _, spec := range createItems {
			item, err := parseLineItem(spec)
			if err != nil {
				return err
			}
			items = append(items, item)
		}

		command := commands.CreateOrderCommand{
			StaffID:         app.CurrentStaffID,
			CustomerName:    createCustomerName,
			CustomerPhone:   createCustomerPhone,
			CustomerAddress: createCustomerAddress,
			Items:           items,
			ShippingFee:     createShippingFee,
			OtherFees:       createOtherFees,
			Notes:           createNotes,
		}

		result, err := app.CreateOrderHandler.Handle(cmd.Context(), command)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		fmt.Printf("Order created: %s\n", result.OrderNumber)
		fmt.Printf("ID: %s\n", result.OrderID)
		if result.Deadline != nil {
			fmt.Printf("Confirm by: %s\n", result.Deadline.Local().Format("15:04 02 Jan 2006"))
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createCustomerName, "customer", "", "customer name (required)")
	createCmd.Flags().StringVar(&createCustomerPhone, "phone", "", "customer phone (required)")
	createCmd.Flags().StringVar(&createCustomerAddress, "address", "", "delivery address")
	createCmd.Flags().StringArrayVar(&createItems, "item", nil, "line item as name:quantity:unit:unitprice[:note] (repeatable)")
	createCmd.Flags().Int64Var(&createShippingFee, "shipping-fee", 0, "shipping fee in VND")
	createCmd.Flags().Int64Var(&createOtherFees, "other-fees", 0, "other fees in VND")
	createCmd.Flags().StringVar(&createNotes, "notes", "", "free-form order notes")

	createCmd.MarkFlagRequired("customer")
	createCmd.MarkFlagRequired("phone")
	createCmd.MarkFlagRequired("item")
}
