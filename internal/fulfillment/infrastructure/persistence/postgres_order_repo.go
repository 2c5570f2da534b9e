package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/database"
)

// PostgresOrderRepository implements order.Repository on PostgreSQL.
type PostgresOrderRepository struct {
	conn database.Connection
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(conn database.Connection) *PostgresOrderRepository {
	return &PostgresOrderRepository{conn: conn}
}

const pgInsertOrder = `
	INSERT INTO orders (
		id, order_number, customer, items, shipping_fee, other_fees,
		current_stage, history, assigned, attachments, deadline, notes,
		failure_reason, payment_method, shipping, version, created_at, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
`

const pgUpdateOrder = `
	UPDATE orders SET
		customer = $1, items = $2, shipping_fee = $3, other_fees = $4,
		current_stage = $5, history = $6, assigned = $7, attachments = $8,
		deadline = $9, notes = $10, failure_reason = $11, payment_method = $12,
		shipping = $13, version = $14, updated_at = $15
	WHERE id = $16 AND version = $17
`

// Save persists an order, bumping its version. A version of zero means
// the order has never been stored.
func (r *PostgresOrderRepository) Save(ctx context.Context, o *order.Order) error {
	rec, err := recordFromOrder(o)
	if err != nil {
		return err
	}

	exec := database.ExecutorFromContext(ctx, r.conn)

	if rec.Version == 0 {
		_, err := exec.Exec(ctx, pgInsertOrder,
			rec.ID, rec.OrderNumber, rec.Customer, rec.Items, rec.ShippingFee, rec.OtherFees,
			rec.CurrentStage, rec.History, rec.Assigned, rec.Attachments, rec.Deadline, rec.Notes,
			rec.FailureReason, rec.PaymentMethod, rec.Shipping, 1, rec.CreatedAt, rec.UpdatedAt,
		)
		if err != nil {
			return err
		}
		o.SetVersion(1)
		return nil
	}

	result, err := exec.Exec(ctx, pgUpdateOrder,
		rec.Customer, rec.Items, rec.ShippingFee, rec.OtherFees,
		rec.CurrentStage, rec.History, rec.Assigned, rec.Attachments,
		rec.Deadline, rec.Notes, rec.FailureReason, rec.PaymentMethod,
		rec.Shipping, rec.Version+1, rec.UpdatedAt,
		rec.ID, rec.Version,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOptimisticLocking
	}

	o.IncrementVersion()
	return nil
}

const pgSelectOrder = `
	SELECT id, order_number, customer, items, shipping_fee, other_fees,
	       current_stage, history, assigned, attachments, deadline, notes,
	       failure_reason, payment_method, shipping, version, created_at, updated_at
	FROM orders
`

// FindByID retrieves an order by its id.
func (r *PostgresOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, pgSelectOrder+` WHERE id = $1`, id)
	return scanPgOrder(row)
}

// FindByNumber retrieves an order by its human-facing number.
func (r *PostgresOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, pgSelectOrder+` WHERE order_number = $1`, orderNumber)
	return scanPgOrder(row)
}

// List retrieves orders matching the filter, newest first.
func (r *PostgresOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	query := pgSelectOrder
	var args []any

	if filter.Stage != nil {
		args = append(args, filter.Stage.String())
		query += fmt.Sprintf(` WHERE current_stage = $%d`, len(args))
	}
	if filter.AssignedTo != nil {
		args = append(args, filter.AssignedTo.String())
		if len(args) == 1 {
			query += ` WHERE`
		} else {
			query += ` AND`
		}
		query += fmt.Sprintf(` assigned @> jsonb_build_array($%d::text)`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	exec := database.ExecutorFromContext(ctx, r.conn)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		rec, err := scanPgOrderRecord(rows)
		if err != nil {
			return nil, err
		}
		o, err := rec.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// Delete removes an order.
func (r *PostgresOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func scanPgOrder(row database.Row) (*order.Order, error) {
	rec, err := scanPgOrderRecord(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return rec.toOrder()
}

func scanPgOrderRecord(row database.Row) (*orderRecord, error) {
	var rec orderRecord
	err := row.Scan(
		&rec.ID, &rec.OrderNumber, &rec.Customer, &rec.Items, &rec.ShippingFee, &rec.OtherFees,
		&rec.CurrentStage, &rec.History, &rec.Assigned, &rec.Attachments, &rec.Deadline, &rec.Notes,
		&rec.FailureReason, &rec.PaymentMethod, &rec.Shipping, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
