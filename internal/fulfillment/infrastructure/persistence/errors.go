package persistence

import "errors"

// ErrOrderNotFound is returned when an order does not exist in storage.
var ErrOrderNotFound = errors.New("order not found")

// ErrOptimisticLocking is returned when a save races a concurrent
// update of the same order.
var ErrOptimisticLocking = errors.New("order was modified concurrently")
