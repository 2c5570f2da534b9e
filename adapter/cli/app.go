package cli

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/application/commands"
	"github.com/tuanvu/seaops/internal/fulfillment/application/queries"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/staff"
	"github.com/tuanvu/seaops/internal/fulfillment/infrastructure/attachments"
)

// App holds the CLI application dependencies.
type App struct {
	// Order command handlers
	CreateOrderHandler      *commands.CreateOrderHandler
	AdvanceOrderHandler     *commands.AdvanceOrderHandler
	CancelOrderHandler      *commands.CancelOrderHandler
	AssignStaffHandler      *commands.AssignStaffHandler
	AddAttachmentHandler    *commands.AddAttachmentHandler
	RemoveAttachmentHandler *commands.RemoveAttachmentHandler
	UpdateLineItemsHandler  *commands.UpdateLineItemsHandler
	DeleteOrderHandler      *commands.DeleteOrderHandler

	// Order query handlers
	GetOrderHandler       *queries.GetOrderHandler
	ListOrdersHandler     *queries.ListOrdersHandler
	OrderProgressHandler  *queries.OrderProgressHandler
	OverdueSummaryHandler *queries.OverdueSummaryHandler

	// Staff directory
	StaffDirectory staff.Directory
	StaffUpsert    func(ctx context.Context, ref staff.Ref) error
	StaffList      func(ctx context.Context) ([]staff.Ref, error)

	// Attachment blobs
	AttachmentStore attachments.Store

	// CurrentStaffID attributes every mutation issued from this CLI.
	CurrentStaffID uuid.UUID
}

var app *App

// SetApp installs the wired application for command handlers to use.
func SetApp(a *App) {
	app = a
}

// GetApp returns the wired application, nil before SetApp.
func GetApp() *App {
	return app
}
