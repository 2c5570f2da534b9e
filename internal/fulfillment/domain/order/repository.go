package order

import (
	"context"

	"github.com/google/uuid"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/stage"
)

// ListFilter narrows List results. Nil fields match everything.
type ListFilter struct {
	Stage      *stage.ID
	AssignedTo *uuid.UUID
}

// Repository defines the interface for order persistence.
type Repository interface {
	Save(ctx context.Context, o *Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByNumber(ctx context.Context, orderNumber string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]*Order, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
