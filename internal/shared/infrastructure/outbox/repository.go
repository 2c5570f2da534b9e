package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages.
type Repository interface {
	// Save stores a new outbox message.
	Save(ctx context.Context, msg *Message) error

	// SaveBatch stores multiple messages, joining the context's
	// transaction when one is present.
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns unpublished messages oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	// MarkPublished records a successful publish.
	MarkPublished(ctx context.Context, id int64) error

	// MarkFailed records a publish failure and the next retry time.
	MarkFailed(ctx context.Context, id int64, err string, nextRetryAt time.Time) error

	// MarkDead dead-letters a message that exhausted its retries.
	MarkDead(ctx context.Context, id int64, reason string) error

	// GetFailed returns failed messages still eligible for retry.
	GetFailed(ctx context.Context, maxRetries, limit int) ([]*Message, error)

	// DeleteOld purges published messages past the retention period.
	DeleteOld(ctx context.Context, olderThanDays int) (int64, error)
}
