package staffdir

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/staff"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/database"
)

// SQLiteDirectory implements staff.Directory on SQLite.
type SQLiteDirectory struct {
	conn database.Connection
}

// NewSQLiteDirectory creates a new SQLite staff directory.
func NewSQLiteDirectory(conn database.Connection) *SQLiteDirectory {
	return &SQLiteDirectory{conn: conn}
}

// Resolve looks up one staff member.
func (d *SQLiteDirectory) Resolve(ctx context.Context, id uuid.UUID) (staff.Ref, error) {
	row := d.conn.QueryRow(ctx,
		`SELECT id, full_name, phone, role FROM staff WHERE id = ?`, id.String())

	var raw string
	var ref staff.Ref
	if err := row.Scan(&raw, &ref.FullName, &ref.Phone, &ref.Role); err != nil {
		if database.IsNoRows(err) {
			return staff.Ref{}, staff.ErrStaffNotFound
		}
		return staff.Ref{}, err
	}

	parsed, err := uuid.Parse(raw)
	if err != nil {
		return staff.Ref{}, fmt.Errorf("invalid staff id %q: %w", raw, err)
	}
	ref.ID = parsed
	return ref, nil
}

// ResolveMany looks up a set of staff members, skipping unknown ids.
func (d *SQLiteDirectory) ResolveMany(ctx context.Context, ids []uuid.UUID) ([]staff.Ref, error) {
	refs := make([]staff.Ref, 0, len(ids))
	for _, id := range ids {
		ref, err := d.Resolve(ctx, id)
		if err == staff.ErrStaffNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// Upsert stores or refreshes one staff member.
func (d *SQLiteDirectory) Upsert(ctx context.Context, ref staff.Ref, now time.Time) error {
	ts := now.UTC().Format(time.RFC3339Nano)
	_, err := d.conn.Exec(ctx, `
		INSERT INTO staff (id, full_name, phone, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			full_name = excluded.full_name,
			phone = excluded.phone,
			role = excluded.role,
			updated_at = excluded.updated_at
	`, ref.ID.String(), ref.FullName, ref.Phone, ref.Role, ts, ts)
	return err
}

// List returns every staff member ordered by name.
func (d *SQLiteDirectory) List(ctx context.Context) ([]staff.Ref, error) {
	rows, err := d.conn.Query(ctx,
		`SELECT id, full_name, phone, role FROM staff ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []staff.Ref
	for rows.Next() {
		var raw string
		var ref staff.Ref
		if err := rows.Scan(&raw, &ref.FullName, &ref.Phone, &ref.Role); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid staff id %q: %w", raw, err)
		}
		ref.ID = parsed
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
