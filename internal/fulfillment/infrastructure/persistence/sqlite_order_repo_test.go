package persistence

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/database"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/database/sqlite"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/migrations"
)

// setupSQLiteTestDB opens a throwaway database with the schema applied.
func setupSQLiteTestDB(t *testing.T) database.Connection {
	t.Helper()

	conn, err := sqlite.NewConnection(context.Background(), database.Config{
		SQLitePath: filepath.Join(t.TempDir(), "seaops-test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.NoError(t, migrations.Run(context.Background(), conn))
	return conn
}

func newTestOrder(t *testing.T, orderNumber string) *order.Order {
	t.Helper()

	staffID := uuid.New()
	o, err := order.NewOrder(
		orderNumber,
		order.Customer{Name: "Quan Hai San 68", Phone: "0903334455", Address: "12 Tran Phu"},
		[]order.LineItem{
			{ProductName: "Lobster", Quantity: 1.8, Unit: "kg", UnitPrice: 1_650_000},
			{ProductName: "Oyster", Quantity: 12, Unit: "pc", UnitPrice: 35_000, Note: "no.2 size"},
		},
		25_000,
		10_000,
		&staffID,
		time.Date(2026, time.March, 12, 8, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	o.ClearDomainEvents()
	return o
}

func TestSQLiteOrderRepository_SaveAndFind(t *testing.T) {
	conn := setupSQLiteTestDB(t)
	repo := NewSQLiteOrderRepository(conn)
	ctx := context.Background()

	o := newTestOrder(t, "ORD-20260312-AB12")
	require.NoError(t, repo.Save(ctx, o))
	assert.Equal(t, 1, o.Version())

	found, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	assert.Equal(t, o.ID(), found.ID())
	assert.Equal(t, "ORD-20260312-AB12", found.OrderNumber())
	assert.Equal(t, "Quan Hai San 68", found.Customer().Name)
	assert.Equal(t, stage.Created, found.CurrentStage())
	assert.Equal(t, o.Subtotal(), found.Subtotal())
	assert.Equal(t, o.Total(), found.Total())
	assert.Empty(t, found.AssignedStaff())
	require.Len(t, found.LineItems(), 2)
	assert.Equal(t, "no.2 size", found.LineItems()[1].Note)
	require.Len(t, found.History(), 1)
	assert.Equal(t, stage.Created, found.History()[0].Stage)
	require.NotNil(t, found.Deadline())
	assert.True(t, found.Deadline().Equal(*o.Deadline()))
	assert.Equal(t, 1, found.Version())

	byNumber, err := repo.FindByNumber(ctx, "ORD-20260312-AB12")
	require.NoError(t, err)
	assert.Equal(t, o.ID(), byNumber.ID())
}

func TestSQLiteOrderRepository_SavePersistsTransitions(t *testing.T) {
	conn := setupSQLiteTestDB(t)
	repo := NewSQLiteOrderRepository(conn)
	ctx := context.Background()

	o := newTestOrder(t, "ORD-20260312-AB12")
	require.NoError(t, repo.Save(ctx, o))

	staffID := uuid.New()
	_, err := o.Advance(order.TransitionRequest{
		To:        stage.Weighing,
		Confirmed: true,
		StaffID:   &staffID,
	}, time.Date(2026, time.March, 12, 8, 10, 0, 0, time.UTC))
	require.NoError(t, err)
	o.ClearDomainEvents()

	require.NoError(t, repo.Save(ctx, o))
	assert.Equal(t, 2, o.Version())

	found, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	assert.Equal(t, stage.Weighing, found.CurrentStage())
	require.Len(t, found.History(), 2)
	assert.Equal(t, stage.Weighing, found.History()[1].Stage)
	require.NotNil(t, found.History()[1].EnteredBy)
	assert.Equal(t, staffID, *found.History()[1].EnteredBy)
}

func TestSQLiteOrderRepository_OptimisticLocking(t *testing.T) {
	conn := setupSQLiteTestDB(t)
	repo := NewSQLiteOrderRepository(conn)
	ctx := context.Background()

	o := newTestOrder(t, "ORD-20260312-AB12")
	require.NoError(t, repo.Save(ctx, o))

	first, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, o.ID())
	require.NoError(t, err)

	first.SetNotes("call before delivery")
	require.NoError(t, repo.Save(ctx, first))

	second.SetNotes("ring the bell")
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ErrOptimisticLocking)
}

func TestSQLiteOrderRepository_List(t *testing.T) {
	conn := setupSQLiteTestDB(t)
	repo := NewSQLiteOrderRepository(conn)
	ctx := context.Background()

	assignee := uuid.New()

	first := newTestOrder(t, "ORD-20260312-0001")
	first.ReplaceAssignees([]uuid.UUID{assignee})
	first.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, first))

	second := newTestOrder(t, "ORD-20260312-0002")
	staffID := uuid.New()
	_, err := second.Advance(order.TransitionRequest{
		To:        stage.Weighing,
		Confirmed: true,
		StaffID:   &staffID,
	}, time.Date(2026, time.March, 12, 8, 10, 0, 0, time.UTC))
	require.NoError(t, err)
	second.ClearDomainEvents()
	require.NoError(t, repo.Save(ctx, second))

	all, err := repo.List(ctx, order.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	weighing := stage.Weighing
	inWeighing, err := repo.List(ctx, order.ListFilter{Stage: &weighing})
	require.NoError(t, err)
	require.Len(t, inWeighing, 1)
	assert.Equal(t, "ORD-20260312-0002", inWeighing[0].OrderNumber())

	mine, err := repo.List(ctx, order.ListFilter{AssignedTo: &assignee})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ORD-20260312-0001", mine[0].OrderNumber())
}

func TestSQLiteOrderRepository_Delete(t *testing.T) {
	conn := setupSQLiteTestDB(t)
	repo := NewSQLiteOrderRepository(conn)
	ctx := context.Background()

	o := newTestOrder(t, "ORD-20260312-AB12")
	require.NoError(t, repo.Save(ctx, o))

	require.NoError(t, repo.Delete(ctx, o.ID()))

	_, err := repo.FindByID(ctx, o.ID())
	assert.ErrorIs(t, err, ErrOrderNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, o.ID()), ErrOrderNotFound)
}
