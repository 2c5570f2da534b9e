// Package app wires configuration, storage, messaging and handlers
// into one container shared by the CLI and the worker.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tuanvu/seaops/internal/fulfillment/application/commands"
	"github.com/tuanvu/seaops/internal/fulfillment/application/consumers"
	"github.com/tuanvu/seaops/internal/fulfillment/application/queries"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/staff"
	"github.com/tuanvu/seaops/internal/fulfillment/infrastructure/attachments"
	"github.com/tuanvu/seaops/internal/fulfillment/infrastructure/persistence"
	"github.com/tuanvu/seaops/internal/fulfillment/infrastructure/staffdir"
	sharedApplication "github.com/tuanvu/seaops/internal/shared/application"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/database"
	_ "github.com/tuanvu/seaops/internal/shared/infrastructure/database/postgres" // register PostgreSQL driver
	_ "github.com/tuanvu/seaops/internal/shared/infrastructure/database/sqlite"   // register SQLite driver
	"github.com/tuanvu/seaops/internal/shared/infrastructure/eventbus"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/migrations"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/outbox"
	"github.com/tuanvu/seaops/pkg/config"
)

// Container holds all application dependencies.
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Database
	DBConn   database.Connection
	DBDriver database.Driver

	// Redis
	RedisClient *redis.Client

	// Repositories and collaborators
	OrderRepo       order.Repository
	StaffDirectory  staff.Directory
	AttachmentStore attachments.Store
	OutboxRepo      outbox.Repository

	// Publisher and feed subscriber
	EventPublisher eventbus.Publisher
	ChangeFeed     *consumers.ChangeFeed

	// Unit of Work
	UnitOfWork sharedApplication.UnitOfWork

	// Command handlers
	CreateOrderHandler      *commands.CreateOrderHandler
	AdvanceOrderHandler     *commands.AdvanceOrderHandler
	CancelOrderHandler      *commands.CancelOrderHandler
	AssignStaffHandler      *commands.AssignStaffHandler
	AddAttachmentHandler    *commands.AddAttachmentHandler
	RemoveAttachmentHandler *commands.RemoveAttachmentHandler
	UpdateLineItemsHandler  *commands.UpdateLineItemsHandler
	DeleteOrderHandler      *commands.DeleteOrderHandler

	// Query handlers
	GetOrderHandler       *queries.GetOrderHandler
	ListOrdersHandler     *queries.ListOrdersHandler
	OrderProgressHandler  *queries.OrderProgressHandler
	OverdueSummaryHandler *queries.OverdueSummaryHandler

	// Staff write side (nil-safe: always set, backed by the directory)
	StaffUpsert func(ctx context.Context, ref staff.Ref) error
	StaffList   func(ctx context.Context) ([]staff.Ref, error)

	// Outbox processor
	OutboxProcessor *outbox.Processor
}

// NewContainer creates and wires all dependencies.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config: cfg,
		Logger: logger,
	}

	// Open the database: PostgreSQL when a URL is configured, SQLite
	// local mode otherwise.
	dbCfg := database.Config{URL: cfg.DatabaseURL, SQLitePath: cfg.SQLitePath}
	if cfg.DatabaseURL == "" {
		dbCfg.Driver = database.DriverSQLite
	}

	conn, err := database.NewConnection(ctx, dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DBConn = conn
	c.DBDriver = conn.Driver()
	logger.Info("connected to database", "driver", c.DBDriver)

	if err := migrations.Run(ctx, conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Connect to Redis (optional in development).
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
			}
			logger.Warn("invalid Redis URL, attachments will use in-memory storage", "error", err)
		} else {
			redisClient := redis.NewClient(opt)
			if err := redisClient.Ping(ctx).Err(); err != nil {
				if !cfg.IsDevelopment() {
					conn.Close()
					return nil, fmt.Errorf("failed to connect to Redis: %w", err)
				}
				logger.Warn("Redis not available, attachments will use in-memory storage", "error", err)
			} else {
				c.RedisClient = redisClient
				logger.Info("connected to Redis")
			}
		}
	}

	// Repositories per backend.
	var orderRepo order.Repository
	switch c.DBDriver {
	case database.DriverPostgres:
		orderRepo = persistence.NewPostgresOrderRepository(conn)
		dir := staffdir.NewPostgresDirectory(conn)
		c.StaffDirectory = dir
		c.StaffUpsert = wrapUpsert(dir.Upsert)
		c.StaffList = dir.List
		c.OutboxRepo = outbox.NewPostgresRepository(conn)
	case database.DriverSQLite:
		orderRepo = persistence.NewSQLiteOrderRepository(conn)
		dir := staffdir.NewSQLiteDirectory(conn)
		c.StaffDirectory = dir
		c.StaffUpsert = wrapUpsert(dir.Upsert)
		c.StaffList = dir.List
		c.OutboxRepo = outbox.NewSQLiteRepository(conn)
	default:
		conn.Close()
		return nil, fmt.Errorf("unsupported database driver: %s", c.DBDriver)
	}

	// The list cache rides on Redis when available.
	if c.RedisClient != nil {
		c.OrderRepo = persistence.NewCachedOrderRepository(orderRepo, c.RedisClient, logger)
	} else {
		c.OrderRepo = orderRepo
	}

	// Attachment blobs.
	if c.RedisClient != nil {
		c.AttachmentStore = attachments.NewRedisStore(c.RedisClient)
	} else {
		c.AttachmentStore = attachments.NewInMemoryStore()
	}

	c.UnitOfWork = database.NewUnitOfWork(conn)

	// Event publisher: RabbitMQ behind a circuit breaker, in-process
	// bus in local mode so feed subscribers still see changes.
	c.ChangeFeed = consumers.NewChangeFeed(logger)
	if cfg.RabbitMQURL != "" {
		publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
		if err != nil {
			if !cfg.IsDevelopment() {
				conn.Close()
				return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
			}
			logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
			c.EventPublisher = eventbus.NewNoopPublisher(logger)
		} else {
			c.EventPublisher = eventbus.NewBreakerPublisher(publisher, eventbus.DefaultBreakerConfig(), logger)
		}
	} else {
		bus := eventbus.NewInProcessEventBus(logger)
		bus.RegisterConsumer(c.ChangeFeed)
		c.EventPublisher = bus
	}

	// Command handlers.
	c.CreateOrderHandler = commands.NewCreateOrderHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.AdvanceOrderHandler = commands.NewAdvanceOrderHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.CancelOrderHandler = commands.NewCancelOrderHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.AssignStaffHandler = commands.NewAssignStaffHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.AddAttachmentHandler = commands.NewAddAttachmentHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.RemoveAttachmentHandler = commands.NewRemoveAttachmentHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.UpdateLineItemsHandler = commands.NewUpdateLineItemsHandler(c.OrderRepo, c.OutboxRepo, c.UnitOfWork)
	c.DeleteOrderHandler = commands.NewDeleteOrderHandler(c.OrderRepo, c.UnitOfWork)

	// Query handlers.
	c.GetOrderHandler = queries.NewGetOrderHandler(c.OrderRepo, c.StaffDirectory)
	c.ListOrdersHandler = queries.NewListOrdersHandler(c.OrderRepo)
	c.OrderProgressHandler = queries.NewOrderProgressHandler(c.OrderRepo)
	c.OverdueSummaryHandler = queries.NewOverdueSummaryHandler(c.OrderRepo)

	// Outbox processor.
	processorCfg := outbox.DefaultProcessorConfig()
	processorCfg.PollInterval = cfg.OutboxPollInterval
	processorCfg.BatchSize = cfg.OutboxBatchSize
	processorCfg.MaxRetries = cfg.OutboxMaxRetries
	c.OutboxProcessor = outbox.NewProcessor(c.OutboxRepo, c.EventPublisher, processorCfg, logger)

	return c, nil
}

// wrapUpsert binds the directory's clock so CLI callers only supply
// the staff member.
func wrapUpsert(upsert func(ctx context.Context, ref staff.Ref, now time.Time) error) func(ctx context.Context, ref staff.Ref) error {
	return func(ctx context.Context, ref staff.Ref) error {
		return upsert(ctx, ref, time.Now())
	}
}

// Close releases external resources.
func (c *Container) Close() error {
	if c.OutboxProcessor != nil {
		c.OutboxProcessor.Stop()
	}
	if c.RedisClient != nil {
		c.RedisClient.Close()
	}
	if c.EventPublisher != nil {
		c.EventPublisher.Close()
	}
	if c.DBConn != nil {
		return c.DBConn.Close()
	}
	return nil
}
