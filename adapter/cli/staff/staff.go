// Package staff contains the CLI command group for the staff directory.
package staff

import (
	"github.com/spf13/cobra"
)

// Cmd is the staff command group
var Cmd = &cobra.Command{
	Use:   "staff",
	Short: "Manage the staff directory",
	Long:  `Add staff members and list the directory used for order assignment.`,
}

func init() {
	Cmd.AddCommand(addCmd)
	Cmd.AddCommand(listCmd)
}
