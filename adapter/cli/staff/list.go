package staff

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the staff directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		members, err := app.StaffList(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list staff: %w", err)
		}

		if len(members) == 0 {
			fmt.Println("No staff members yet.")
			return nil
		}

		fmt.Printf("%-38s %-25s %-14s %s\n", "ID", "NAME", "PHONE", "ROLE")
		for _, m := range members {
			fmt.Printf("%-38s %-25s %-14s %s\n", m.ID, m.FullName, m.Phone, m.Role)
		}
		return nil
	},
}
