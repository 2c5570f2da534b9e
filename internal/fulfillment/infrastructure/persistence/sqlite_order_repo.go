package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/database"
)

// SQLiteOrderRepository implements order.Repository on SQLite. UUIDs
// and timestamps are stored as TEXT.
type SQLiteOrderRepository struct {
	conn database.Connection
}

// NewSQLiteOrderRepository creates a new SQLite order repository.
func NewSQLiteOrderRepository(conn database.Connection) *SQLiteOrderRepository {
	return &SQLiteOrderRepository{conn: conn}
}

const sqliteInsertOrder = `
	INSERT INTO orders (
		id, order_number, customer, items, shipping_fee, other_fees,
		current_stage, history, assigned, attachments, deadline, notes,
		failure_reason, payment_method, shipping, version, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

const sqliteUpdateOrder = `
	UPDATE orders SET
		customer = ?, items = ?, shipping_fee = ?, other_fees = ?,
		current_stage = ?, history = ?, assigned = ?, attachments = ?,
		deadline = ?, notes = ?, failure_reason = ?, payment_method = ?,
		shipping = ?, version = ?, updated_at = ?
	WHERE id = ? AND version = ?
`

// Save persists an order, bumping its version. A version of zero means
// the order has never been stored.
func (r *SQLiteOrderRepository) Save(ctx context.Context, o *order.Order) error {
	rec, err := recordFromOrder(o)
	if err != nil {
		return err
	}

	exec := database.ExecutorFromContext(ctx, r.conn)

	if rec.Version == 0 {
		_, err := exec.Exec(ctx, sqliteInsertOrder,
			rec.ID.String(), rec.OrderNumber, string(rec.Customer), string(rec.Items),
			rec.ShippingFee, rec.OtherFees, rec.CurrentStage, string(rec.History),
			string(rec.Assigned), string(rec.Attachments), formatTimePtr(rec.Deadline),
			rec.Notes, rec.FailureReason, rec.PaymentMethod, nullableJSON(rec.Shipping),
			1, formatTime(rec.CreatedAt), formatTime(rec.UpdatedAt),
		)
		if err != nil {
			return err
		}
		o.SetVersion(1)
		return nil
	}

	result, err := exec.Exec(ctx, sqliteUpdateOrder,
		string(rec.Customer), string(rec.Items), rec.ShippingFee, rec.OtherFees,
		rec.CurrentStage, string(rec.History), string(rec.Assigned), string(rec.Attachments),
		formatTimePtr(rec.Deadline), rec.Notes, rec.FailureReason, rec.PaymentMethod,
		nullableJSON(rec.Shipping), rec.Version+1, formatTime(rec.UpdatedAt),
		rec.ID.String(), rec.Version,
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

const sqliteSelectOrder = `
	SELECT id, order_number, customer, items, shipping_fee, other_fees,
	       current_stage, history, assigned, attachments, deadline, notes,
	       failure_reason, payment_method, shipping, version, created_at, updated_at
	FROM orders
`

// FindByID retrieves an order by its id.
func (r *SQLiteOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, sqliteSelectOrder+` WHERE id = ?`, id.String())
	return scanSQLiteOrder(row)
}

// FindByNumber retrieves an order by its human-facing number.
func (r *SQLiteOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	exec := database.ExecutorFromContext(ctx, r.conn)
	row := exec.QueryRow(ctx, sqliteSelectOrder+` WHERE order_number = ?`, orderNumber)
	return scanSQLiteOrder(row)
}

// List retrieves orders matching the filter, newest first.
func (r *SQLiteOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	query := sqliteSelectOrder
	var args []any
	var clauses []string

	if filter.Stage != nil {
		clauses = append(clauses, `current_stage = ?`)
		args = append(args, filter.Stage.String())
	}
	if filter.AssignedTo != nil {
		clauses = append(clauses, `EXISTS (SELECT 1 FROM json_each(orders.assigned) WHERE json_each.value = ?)`)
		args = append(args, filter.AssignedTo.String())
	}
	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
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
		rec, err := scanSQLiteOrderRecord(rows)
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
func (r *SQLiteOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	exec := database.ExecutorFromContext(ctx, r.conn)
	result, err := exec.Exec(ctx, `DELETE FROM orders WHERE id = ?`, id.String())
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

func scanSQLiteOrder(row database.Row) (*order.Order, error) {
	rec, err := scanSQLiteOrderRecord(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return rec.toOrder()
}

func scanSQLiteOrderRecord(row database.Row) (*orderRecord, error) {
	var (
		rec       orderRecord
		id        string
		customer  string
		items     string
		history   string
		assigned  string
		atts      string
		deadline  *string
		shipping  *string
		createdAt string
		updatedAt string
	)

	err := row.Scan(
		&id, &rec.OrderNumber, &customer, &items, &rec.ShippingFee, &rec.OtherFees,
		&rec.CurrentStage, &history, &assigned, &atts, &deadline, &rec.Notes,
		&rec.FailureReason, &rec.PaymentMethod, &shipping, &rec.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid order id %q: %w", id, err)
	}
	rec.Customer = []byte(customer)
	rec.Items = []byte(items)
	rec.History = []byte(history)
	rec.Assigned = []byte(assigned)
	rec.Attachments = []byte(atts)
	if shipping != nil {
		rec.Shipping = []byte(*shipping)
	}

	if rec.Deadline, err = parseTimePtr(deadline); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if rec.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	return &rec, nil
}

// nullableJSON maps an absent document to NULL instead of an empty string.
func nullableJSON(b []byte) *string {
	if len(b) == 0 {
		return nil
	}
	s := string(b)
	return &s
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", s, err)
	}
	return t, nil
}

func parseTimePtr(s *string) (*time.Time, error) {
	if s == nil {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
