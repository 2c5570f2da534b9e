package attachments

import (
	"context"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps attachment blobs in Redis. Blobs never expire;
// removal is explicit when the attachment or its order goes away.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed attachment store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Put(ctx context.Context, orderID, attachmentID uuid.UUID, data []byte) (string, error) {
	if len(data) > MaxBlobSize {
		return "", ErrBlobTooLarge
	}

	ref := BlobRef(orderID, attachmentID)
	if err := s.client.Set(ctx, ref, data, 0).Err(); err != nil {
		return "", err
	}
	return ref, nil
}

func (s *RedisStore) Get(ctx context.Context, ref string) ([]byte, error) {
	data, err := s.client.Get(ctx, ref).Bytes()
	if err == redis.Nil {
		return nil, ErrBlobNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *RedisStore) Delete(ctx context.Context, ref string) error {
	deleted, err := s.client.Del(ctx, ref).Result()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrBlobNotFound
	}
	return nil
}

func (s *RedisStore) DeleteOrder(ctx context.Context, orderID uuid.UUID) error {
	iter := s.client.Scan(ctx, 0, orderPrefix(orderID)+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}
