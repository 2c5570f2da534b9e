package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/adapter/cli"
	cliOrder "github.com/tuanvu/seaops/adapter/cli/order"
	cliStaff "github.com/tuanvu/seaops/adapter/cli/staff"
	"github.com/tuanvu/seaops/internal/app"
	"github.com/tuanvu/seaops/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		if cfg.OutboxProcessorEnabled {
			go func() {
				if err := container.OutboxProcessor.Start(ctx); err != nil {
					logger.Warn("outbox processor failed to start", "error", err)
				}
			}()
		} else {
			logger.Info("outbox processor disabled in CLI")
		}

		staffID, err := uuid.Parse(cfg.StaffID)
		if err != nil {
			logger.Error("invalid SEAOPS_STAFF_ID", "error", err)
			os.Exit(1)
		}

		cliApp = &cli.App{
			CreateOrderHandler:      container.CreateOrderHandler,
			AdvanceOrderHandler:     container.AdvanceOrderHandler,
			CancelOrderHandler:      container.CancelOrderHandler,
			AssignStaffHandler:      container.AssignStaffHandler,
			AddAttachmentHandler:    container.AddAttachmentHandler,
			RemoveAttachmentHandler: container.RemoveAttachmentHandler,
			UpdateLineItemsHandler:  container.UpdateLineItemsHandler,
			DeleteOrderHandler:      container.DeleteOrderHandler,

			GetOrderHandler:       container.GetOrderHandler,
			ListOrdersHandler:     container.ListOrdersHandler,
			OrderProgressHandler:  container.OrderProgressHandler,
			OverdueSummaryHandler: container.OverdueSummaryHandler,

			StaffDirectory: container.StaffDirectory,
			StaffUpsert:    container.StaffUpsert,
			StaffList:      container.StaffList,

			AttachmentStore: container.AttachmentStore,
			CurrentStaffID:  staffID,
		}
	}

	cli.SetApp(cliApp)

	cli.AddCommand(cliOrder.Cmd)
	cli.AddCommand(cliStaff.Cmd)

	cli.Execute()
}
