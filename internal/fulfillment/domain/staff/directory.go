// Package staff defines the read-only collaborator the core uses to
// resolve staff references for display. The core itself only ever
// stores staff ids.
package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrStaffNotFound is returned when an id does not resolve.
var ErrStaffNotFound = errors.New("staff member not found")

// Ref is the resolved display data for one staff member.
type Ref struct {
	ID       uuid.UUID
	FullName string
	Phone    string
	Role     string
}

// Directory resolves staff ids to display data.
type Directory interface {
	Resolve(ctx context.Context, id uuid.UUID) (Ref, error)
	ResolveMany(ctx context.Context, ids []uuid.UUID) ([]Ref, error)
}
