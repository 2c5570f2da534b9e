package persistence

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/tuanvu/seaops/internal/fulfillment/domain/order"
)

const (
	listCachePrefix = "seaops:orders:list:"

	// listCacheTTL keeps the board snappy without serving stale rows
	// for long. Writers invalidate eagerly anyway.
	listCacheTTL = 10 * time.Second
)

// CachedOrderRepository decorates an order repository with a Redis
// cache of list results. Single-order reads and writes pass through;
// every write drops the cached lists.
type CachedOrderRepository struct {
	inner  order.Repository
	client *redis.Client
	logger *slog.Logger
}

// NewCachedOrderRepository creates a caching decorator around repo.
func NewCachedOrderRepository(repo order.Repository, client *redis.Client, logger *slog.Logger) *CachedOrderRepository {
	return &CachedOrderRepository{inner: repo, client: client, logger: logger}
}

// Save writes through and invalidates cached lists.
func (r *CachedOrderRepository) Save(ctx context.Context, o *order.Order) error {
	if err := r.inner.Save(ctx, o); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

// FindByID passes through to the inner repository.
func (r *CachedOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.inner.FindByID(ctx, id)
}

// FindByNumber passes through to the inner repository.
func (r *CachedOrderRepository) FindByNumber(ctx context.Context, orderNumber string) (*order.Order, error) {
	return r.inner.FindByNumber(ctx, orderNumber)
}

// List serves from the cache when possible. A cache failure falls back
// to the inner repository; the board never breaks because Redis did.
func (r *CachedOrderRepository) List(ctx context.Context, filter order.ListFilter) ([]*order.Order, error) {
	key := listCacheKey(filter)

	if cached, err := r.client.Get(ctx, key).Bytes(); err == nil {
		orders, err := decodeOrderList(cached)
		if err == nil {
			return orders, nil
		}
		r.logger.Warn("discarding undecodable order list cache entry", "key", key, "error", err)
	} else if err != redis.Nil {
		r.logger.Warn("order list cache read failed", "key", key, "error", err)
	}

	orders, err := r.inner.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	if encoded, err := encodeOrderList(orders); err == nil {
		if err := r.client.Set(ctx, key, encoded, listCacheTTL).Err(); err != nil {
			r.logger.Warn("order list cache write failed", "key", key, "error", err)
		}
	}

	return orders, nil
}

// Delete writes through and invalidates cached lists.
func (r *CachedOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx)
	return nil
}

func (r *CachedOrderRepository) invalidate(ctx context.Context) {
	iter := r.client.Scan(ctx, 0, listCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			r.logger.Warn("order list cache invalidation failed", "key", iter.Val(), "error", err)
			return
		}
	}
	if err := iter.Err(); err != nil {
		r.logger.Warn("order list cache scan failed", "error", err)
	}
}

func listCacheKey(filter order.ListFilter) string {
	stagePart := "all"
	if filter.Stage != nil {
		stagePart = filter.Stage.String()
	}
	assignedPart := "all"
	if filter.AssignedTo != nil {
		assignedPart = filter.AssignedTo.String()
	}
	return listCachePrefix + stagePart + ":" + assignedPart
}

func encodeOrderList(orders []*order.Order) ([]byte, error) {
	records := make([]*orderRecord, 0, len(orders))
	for _, o := range orders {
		rec, err := recordFromOrder(o)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

func decodeOrderList(data []byte) ([]*order.Order, error) {
	var records []*orderRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}

	orders := make([]*order.Order, 0, len(records))
	for _, rec := range records {
		o, err := rec.toOrder()
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
