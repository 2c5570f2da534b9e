// Package staffdir implements the staff directory on both database
// backends. The directory is plain reference data: no aggregate, no
// events, upsert on write.
package staffdir

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/staff"
	"github.com/tuanvu/seaops/internal/shared/infrastructure/database"
)

// PostgresDirectory implements staff.Directory on PostgreSQL.
type PostgresDirectory struct {
	conn database.Connection
}

// NewPostgresDirectory creates a new PostgreSQL staff directory.
func NewPostgresDirectory(conn database.Connection) *PostgresDirectory {
	return &PostgresDirectory{conn: conn}
}

// Resolve looks up one staff member.
func (d *PostgresDirectory) Resolve(ctx context.Context, id uuid.UUID) (staff.Ref, error) {
	row := d.conn.QueryRow(ctx,
		`SELECT id, full_name, phone, role FROM staff WHERE id = $1`, id)

	var ref staff.Ref
	if err := row.Scan(&ref.ID, &ref.FullName, &ref.Phone, &ref.Role); err != nil {
		if database.IsNoRows(err) {
			return staff.Ref{}, staff.ErrStaffNotFound
		}
		return staff.Ref{}, err
	}
	return ref, nil
}

// ResolveMany looks up a set of staff members, skipping unknown ids.
func (d *PostgresDirectory) ResolveMany(ctx context.Context, ids []uuid.UUID) ([]staff.Ref, error) {
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
func (d *PostgresDirectory) Upsert(ctx context.Context, ref staff.Ref, now time.Time) error {
	_, err := d.conn.Exec(ctx, `
		INSERT INTO staff (id, full_name, phone, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			phone = EXCLUDED.phone,
			role = EXCLUDED.role,
			updated_at = EXCLUDED.updated_at
	`, ref.ID, ref.FullName, ref.Phone, ref.Role, now)
	return err
}

// List returns every staff member ordered by name.
func (d *PostgresDirectory) List(ctx context.Context) ([]staff.Ref, error) {
	rows, err := d.conn.Query(ctx,
		`SELECT id, full_name, phone, role FROM staff ORDER BY full_name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []staff.Ref
	for rows.Next() {
		var ref staff.Ref
		if err := rows.Scan(&ref.ID, &ref.FullName, &ref.Phone, &ref.Role); err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
