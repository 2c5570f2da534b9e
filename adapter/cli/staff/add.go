package staff

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	domainStaff "github.com/tuanvu/seaops/internal/fulfillment/domain/staff"
)

var (
	addID    string
	addName  string
	addPhone string
	addRole  string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add or update a staff member",
	Long: `Add a staff member to the directory, or update them in place when
--id names an existing member.

Examples:
  seaops staff add --name "Tran Minh Duc" --phone 0905111222 --role sales
  seaops staff add --id 7b1d... --name "Tran Minh Duc" --role kitchen`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		id := uuid.New()
		if addID != "" {
			parsed, err := uuid.Parse(addID)
			if err != nil {
				return fmt.Errorf("invalid staff id: %w", err)
			}
			id = parsed
		}

		ref := domainStaff.Ref{
			ID:       id,
			FullName: addName,
			Phone:    addPhone,
			Role:     addRole,
		}
		if err := app.StaffUpsert(cmd.Context(), ref); err != nil {
			return fmt.Errorf("failed to save staff member: %w", err)
		}

		fmt.Printf("Staff member saved: %s\n", ref.FullName)
		fmt.Printf("ID: %s\n", ref.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addID, "id", "", "staff id, generated when omitted")
	addCmd.Flags().StringVar(&addName, "name", "", "full name (required)")
	addCmd.Flags().StringVar(&addPhone, "phone", "", "phone number")
	addCmd.Flags().StringVar(&addRole, "role", "", "role, e.g. sales, kitchen, delivery")

	addCmd.MarkFlagRequired("name")
}
