package redis

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/fitexperts/experts-api/internal/pkg/metrics"
)

// OrphanKey is the Redis set holding object ids whose delete failed.
const OrphanKey = "orphans:assets"

// OrphanLedger remembers stored objects that could not be deleted so a
// background sweep can retry them. Set semantics make Record idempotent.
type OrphanLedger struct {
	client *redis.Client
}

func NewOrphanLedger(client *redis.Client) *OrphanLedger {
	return &OrphanLedger{client: client}
}

func (l *OrphanLedger) Record(ctx context.Context, objectID string) error {
	if err := l.client.SAdd(ctx, OrphanKey, objectID).Err(); err != nil {
		return errors.Wrap(err, "record orphan")
	}
	metrics.OrphansRecordedTotal.Inc()
	return nil
}

// Pop removes and returns up to n recorded ids.
func (l *OrphanLedger) Pop(ctx context.Context, n int64) ([]string, error) {
	ids, err := l.client.SPopN(ctx, OrphanKey, n).Result()
	if err != nil && err != redis.Nil {
		return nil, errors.Wrap(err, "pop orphans")
	}
	return ids, nil
}

// Requeue puts ids back after a failed retry.
func (l *OrphanLedger) Requeue(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		members[i] = id
	}
	if err := l.client.SAdd(ctx, OrphanKey, members...).Err(); err != nil {
		return errors.Wrap(err, "requeue orphans")
	}
	return nil
}
