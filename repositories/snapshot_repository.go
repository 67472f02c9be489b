package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// SnapshotRepository keeps whole-state JSON blobs in Redis. Each Save
// overwrites the key; nothing expires.
type SnapshotRepository struct {
	client *redis.Client
	prefix string
}

func NewSnapshotRepository(client *redis.Client, prefix string) *SnapshotRepository {
	return &SnapshotRepository{client: client, prefix: prefix}
}

func (r *SnapshotRepository) Save(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return r.client.Set(ctx, r.prefix+key, data, 0).Err()
}

// Load decodes the blob into v and reports whether the key existed
func (r *SnapshotRepository) Load(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode snapshot: %w", err)
	}
	return true, nil
}

func (r *SnapshotRepository) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}
