package store

import (
	"context"
	"encoding/json"
	"path"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var logger = xlog.NewPackageLogger("github.com/relforge/genmodel", "store")

// The redis store persists tool results in Redis.
// The keys namespace is organized as follows:
// - `/<prefix>/genmodel/<tool>/info/<id>` for storing one record
// - `/<prefix>/genmodel/<tool>/ids` for the set of record IDs per tool

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore returns a Redis-backed ResultStore.
func NewRedisStore(client *redis.Client, prefix string) ResultStore {
	return &redisStore{
		client: client,
		prefix: prefix,
	}
}

func (m *redisStore) recordKey(tool, id string) string {
	return path.Join(m.prefix, "genmodel", tool, "info", id)
}

func (m *redisStore) idsKey(tool string) string {
	return path.Join(m.prefix, "genmodel", tool, "ids")
}

func (m *redisStore) Save(ctx context.Context, rec *Record) (string, error) {
	if rec.Tool == "" {
		return "", errors.New("tool name is required")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal record")
	}

	pipe := m.client.Pipeline()
	pipe.Set(ctx, m.recordKey(rec.Tool, rec.ID), data, 0)
	pipe.SAdd(ctx, m.idsKey(rec.Tool), rec.ID)
	_, err = pipe.Exec(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to store record in Redis")
	}

	logger.KV(xlog.DEBUG, "status", "saved", "tool", rec.Tool, "id", rec.ID)
	return rec.ID, nil
}

func (m *redisStore) Get(ctx context.Context, tool, id string) (*Record, error) {
	data, err := m.client.Get(ctx, m.recordKey(tool, id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, errors.WithMessagef(ErrNotFound, "tool %q, id %q", tool, id)
		}
		return nil, errors.Wrap(err, "failed to get record from Redis")
	}

	rec := &Record{}
	err = json.Unmarshal([]byte(data), rec)
	if err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal record")
	}
	return rec, nil
}

func (m *redisStore) List(ctx context.Context, tool string) ([]string, error) {
	ids, err := m.client.SMembers(ctx, m.idsKey(tool)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to list records from Redis")
	}
	return ids, nil
}

func (m *redisStore) Reset(ctx context.Context, tool string) error {
	ids, err := m.List(ctx, tool)
	if err != nil {
		return err
	}

	pipe := m.client.Pipeline()
	for _, id := range ids {
		pipe.Del(ctx, m.recordKey(tool, id))
	}
	pipe.Del(ctx, m.idsKey(tool))
	_, err = pipe.Exec(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to reset records in Redis")
	}
	return nil
}

func (m *redisStore) Cleanup(ctx context.Context, tool string, olderThan time.Duration) (uint32, error) {
	ids, err := m.List(ctx, tool)
	if err != nil {
		return 0, err
	}

	var deleted uint32
	cutoff := time.Now().Add(-olderThan)
	for _, id := range ids {
		rec, err := m.Get(ctx, tool, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return deleted, err
		}

		if rec.CreatedAt.Before(cutoff) {
			pipe := m.client.Pipeline()
			pipe.Del(ctx, m.recordKey(tool, id))
			pipe.SRem(ctx, m.idsKey(tool), id)
			_, err = pipe.Exec(ctx)
			if err != nil {
				return deleted, errors.Wrap(err, "failed to delete record from Redis")
			}
			deleted++
		}
	}
	return deleted, nil
}
