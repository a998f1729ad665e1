package blob

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore keeps blobs in Redis under blob:<uuid> keys. Payload and
// content type live in a hash so a single round trip serves both.

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore { return &RedisStore{rdb: rdb} }

func key(ref Ref) string { return "blob:" + string(ref) }

func (s *RedisStore) Put(ctx context.Context, data []byte, contentType string) (Ref, error) {
	if err := validate(data, contentType); err != nil {
		return "", err
	}
	ref := Ref(uuid.NewString())
	if err := s.rdb.HSet(ctx, key(ref), "data", data, "content_type", contentType).Err(); err != nil {
		return "", fmt.Errorf("blob: redis put failed: %w", err)
	}
	return ref, nil
}

func (s *RedisStore) Get(ctx context.Context, ref Ref) (Blob, error) {
	vals, err := s.rdb.HGetAll(ctx, key(ref)).Result()
	if err != nil {
		return Blob{}, fmt.Errorf("blob: redis get failed: %w", err)
	}
	if len(vals) == 0 {
		return Blob{}, ErrNotFound
	}
	return Blob{Data: []byte(vals["data"]), ContentType: vals["content_type"]}, nil
}
