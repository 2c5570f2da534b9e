package order

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/queries"
)

var showCmd = &cobra.Command{
	Use:   "show <order-id>",
	Short: "Show one order in full",
	Long: `Show an order with its line items, totals, assigned staff,
attachments and pipeline history.

Examples:
  seaops order show 4f9c1f2e-8d3a-4b11-9d8e-1a2b3c4d5e6f`,
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

		detail, err := app.GetOrderHandler.Handle(cmd.Context(), queries.GetOrderQuery{OrderID: orderID})
		if err != nil {
			return fmt.Errorf("failed to get order: %w", err)
		}

		printOrderDetail(detail)
		return nil
	},
}

func printOrderDetail(d *queries.OrderDetailDTO) {
	fmt.Printf("%s  %s (%d%%)%s\n", d.OrderNumber, d.Stage, d.ProgressPercent, overdueTag(d.Overdue))
	fmt.Printf("Customer: %s, %s\n", d.CustomerName, d.CustomerPhone)
	if d.CustomerAddress != "" {
		fmt.Printf("Address:  %s\n", d.CustomerAddress)
	}
	if d.Deadline != nil {
		fmt.Printf("Deadline: %s (%s)\n", d.Deadline.Local().Format("15:04 02 Jan"), remainingText(d.RemainingMinutes))
	}

	fmt.Println()
	for _, li := range d.LineItems {
		line := fmt.Sprintf("  %-20s %6.2f %-4s x %12s = %14s", li.ProductName, li.Quantity, li.Unit, formatVND(li.UnitPrice), formatVND(li.Total))
		if li.Note != "" {
			line += "  (" + li.Note + ")"
		}
		fmt.Println(line)
	}
	fmt.Printf("  Subtotal: %s\n", formatVND(d.Subtotal))
	if d.ShippingFee != 0 {
		fmt.Printf("  Shipping: %s\n", formatVND(d.ShippingFee))
	}
	if d.OtherFees != 0 {
		fmt.Printf("  Other:    %s\n", formatVND(d.OtherFees))
	}
	fmt.Printf("  Total:    %s\n", formatVND(d.Total))

	if d.PaymentMethod != "" {
		fmt.Printf("\nPayment: %s\n", d.PaymentMethod)
	}
	if d.ShippingType != "" {
		fmt.Printf("Shipping: %s\n", d.ShippingType)
	}
	if d.FailureReason != "" {
		fmt.Printf("Failure reason: %s\n", d.FailureReason)
	}
	if d.Notes != "" {
		fmt.Printf("Notes: %s\n", d.Notes)
	}

	if len(d.AssignedStaff) > 0 {
		names := make([]string, 0, len(d.AssignedStaff))
		for _, s := range d.AssignedStaff {
			names = append(names, s.FullName)
		}
		fmt.Printf("\nAssigned: %s\n", strings.Join(names, ", "))
	}

	if len(d.Attachments) > 0 {
		fmt.Println("\nAttachments:")
		for _, a := range d.Attachments {
			line := fmt.Sprintf("  %s [%s] %s", a.ID, a.Type, a.Ref)
			if a.Description != "" {
				line += "  " + a.Description
			}
			fmt.Println(line)
		}
	}

	fmt.Println("\nHistory:")
	for _, h := range d.History {
		line := fmt.Sprintf("  %s  %s", h.EnteredAt.Local().Format("15:04 02 Jan"), h.Stage)
		if h.Note != "" {
			line += "  " + h.Note
		}
		fmt.Println(line)
	}
}

func overdueTag(overdue bool) string {
	if overdue {
		return "  OVERDUE"
	}
	return ""
}

func remainingText(minutes *int) string {
	if minutes == nil {
		return "no deadline"
	}
	if *minutes < 0 {
		return fmt.Sprintf("%d min overdue", -*minutes)
	}
	return fmt.Sprintf("%d min left", *minutes)
}

// deadlineText renders a deadline column for list views.
func deadlineText(deadline *time.Time, remaining *int) string {
	if deadline == nil {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", deadline.Local().Format("15:04"), remainingText(remaining))
}
