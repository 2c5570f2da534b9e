// Package order contains the CLI command group for working with orders.
package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	domainOrder "github.com/tuanvu/seaops/internal/fulfillment/domain/order"
)

// Cmd is the order command group
var Cmd = &cobra.Command{
	Use:   "order",
	Short: "Manage orders",
	Long:  `Create orders and walk them through the fulfillment pipeline.`,
}

func init() {
	Cmd.AddCommand(createCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(advanceCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(deleteCmd)
	Cmd.AddCommand(assignCmd)
	Cmd.AddCommand(attachCmd)
	Cmd.AddCommand(detachCmd)
	Cmd.AddCommand(imageCmd)
	Cmd.AddCommand(itemsCmd)
	Cmd.AddCommand(progressCmd)
	Cmd.AddCommand(overdueCmd)
}

// parseLineItem parses "name:quantity:unit:unitprice[:note]".
func parseLineItem(spec string) (domainOrder.LineItem, error) {
	parts := strings.SplitN(spec, ":", 5)
	if len(parts) < 4 {
		return domainOrder.LineItem{}, fmt.Errorf("invalid item %q (use name:quantity:unit:unitprice[:note])", spec)
	}

	quantity, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domainOrder.LineItem{}, fmt.Errorf("invalid quantity in item %q: %w", spec, err)
	}

	unitPrice, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return domainOrder.LineItem{}, fmt.Errorf("invalid unit price in item %q: %w", spec, err)
	}

	item := domainOrder.LineItem{
		ProductName: parts[0],
		Quantity:    quantity,
		Unit:        parts[2],
		UnitPrice:   unitPrice,
	}
	if len(parts) == 5 {
		item.Note = parts[4]
	}
	return item, nil
}

// formatVND renders an amount with thousands separators.
func formatVND(amount int64) string {
	s := strconv.FormatInt(amount, 10)
	negative := strings.HasPrefix(s, "-")
	if negative {
		s = s[1:]
	}

	var out []byte
	for i, digit := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, '.')
		}
		out = append(out, digit)
	}
	if negative {
		return "-" + string(out) + " VND"
	}
	return string(out) + " VND"
}
