package order

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/tuanvu/seaops/adapter/cli"
	"github.com/tuanvu/seaops/internal/fulfillment/application/commands"
	"github.com/tuanvu/seaops/internal/fulfillment/application/queries"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
	"github.com/tuanvu/seaops/internal/fulfillment/infrastructure/attachments"
)

var (
	attachType        string
	attachFile        string
	attachRef         string
	attachDescription string
)

var attachCmd = &cobra.Command{
	Use:   "attach <order-id>",
	Short: "Attach an image to an order",
	Long: `Attach an image outside of a stage transition. --file uploads the
bytes to the blob store and records the resulting reference; --ref records
an external reference as-is.

Examples:
  seaops order attach 4f9c1f2e... --type weighing --file ./scale.jpg
  seaops order attach 4f9c1f2e... --ref https://photos.example/abc --description "packed box"`,
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
		if (attachFile == "") == (attachRef == "") {
			return fmt.Errorf("exactly one of --file or --ref is required")
		}

		ref := attachRef
		if attachFile != "" {
			data, err := os.ReadFile(attachFile)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", attachFile, err)
			}
			ref, err = app.AttachmentStore.Put(cmd.Context(), orderID, uuid.New(), data)
			if err != nil {
				return fmt.Errorf("failed to store image: %w", err)
			}
		}

		command := commands.AddAttachmentCommand{
			OrderID:     orderID,
			StaffID:     app.CurrentStaffID,
			ImageType:   stage.ImageType(attachType),
			Ref:         ref,
			Description: attachDescription,
		}
		result, err := app.AddAttachmentHandler.Handle(cmd.Context(), command)
		if err != nil {
			return fmt.Errorf("failed to attach image: %w", err)
		}

		fmt.Printf("Attachment added: %s\n", result.AttachmentID)
		return nil
	},
}

var detachCmd = &cobra.Command{
	Use:   "detach <order-id> <attachment-id>",
	Short: "Remove an attachment from an order",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		orderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid order id: %w", err)
		}
		attachmentID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid attachment id: %w", err)
		}

		ref, err := findAttachmentRef(cmd.Context(), app, orderID, attachmentID)
		if err != nil {
			return err
		}

		command := commands.RemoveAttachmentCommand{
			OrderID:      orderID,
			StaffID:      app.CurrentStaffID,
			AttachmentID: attachmentID,
		}
		if err := app.RemoveAttachmentHandler.Handle(cmd.Context(), command); err != nil {
			return fmt.Errorf("failed to remove attachment: %w", err)
		}

		// Best effort; the order no longer references the blob.
		if attachments.IsBlobRef(ref) {
			if err := app.AttachmentStore.Delete(cmd.Context(), ref); err != nil {
				fmt.Printf("Warning: stored image not cleaned up: %v\n", err)
			}
		}

		fmt.Println("Attachment removed.")
		return nil
	},
}

var imageOut string

var imageCmd = &cobra.Command{
	Use:   "image <order-id> <attachment-id>",
	Short: "Download an attached image",
	Long: `Download the bytes behind an attachment ref that lives in the blob
store. External refs (plain URLs) cannot be downloaded here.

Examples:
  seaops order image 4f9c1f2e... 8a2b... --out ./scale.jpg`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}

		orderID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid order id: %w", err)
		}
		attachmentID, err := uuid.Parse(args[1])
		if err != nil {
			return fmt.Errorf("invalid attachment id: %w", err)
		}

		ref, err := findAttachmentRef(cmd.Context(), app, orderID, attachmentID)
		if err != nil {
			return err
		}
		if !attachments.IsBlobRef(ref) {
			return fmt.Errorf("attachment points at an external ref: %s", ref)
		}

		data, err := app.AttachmentStore.Get(cmd.Context(), ref)
		if err != nil {
			return fmt.Errorf("failed to fetch image: %w", err)
		}

		if err := os.WriteFile(imageOut, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", imageOut, err)
		}

		fmt.Printf("Wrote %d bytes to %s\n", len(data), imageOut)
		return nil
	},
}

// findAttachmentRef resolves an attachment id to its stored ref.
func findAttachmentRef(ctx context.Context, app *cli.App, orderID, attachmentID uuid.UUID) (string, error) {
	detail, err := app.GetOrderHandler.Handle(ctx, queries.GetOrderQuery{OrderID: orderID})
	if err != nil {
		return "", fmt.Errorf("failed to get order: %w", err)
	}
	for _, a := range detail.Attachments {
		if a.ID == attachmentID {
			return a.Ref, nil
		}
	}
	return "", fmt.Errorf("order has no attachment %s", attachmentID)
}

func init() {
	attachCmd.Flags().StringVar(&attachType, "type", "", "image type: weighing, invoice or attachment")
	attachCmd.Flags().StringVar(&attachFile, "file", "", "local image file to upload")
	attachCmd.Flags().StringVar(&attachRef, "ref", "", "external image reference to record")
	attachCmd.Flags().StringVar(&attachDescription, "description", "", "attachment description")

	imageCmd.Flags().StringVar(&imageOut, "out", "", "output file (required)")
	imageCmd.MarkFlagRequired("out")
}
