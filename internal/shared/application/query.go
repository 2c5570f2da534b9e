package application

import "context"

// Query is a read against committed state. Handlers never mutate.
type Query interface {
	QueryName() string
}

// QueryHandler resolves one query type into its read model.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}
