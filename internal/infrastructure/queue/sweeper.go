package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/fitexperts/experts-api/internal/pkg/metrics"
)

const (
	defaultBatch   = 50
	requeueTimeout = 5 * time.Second
)

// OrphanSource is the ledger of objects whose delete failed earlier.
type OrphanSource interface {
	Pop(ctx context.Context, n int64) ([]string, error)
	Requeue(ctx context.Context, ids ...string) error
}

// Deleter removes a stored object.
type Deleter interface {
	Delete(ctx context.Context, objectID string) error
}

// Sweeper periodically retries deletion of orphaned objects. Each id is tried
// once per sweep; failures go back to the ledger for the next tick.
type Sweeper struct {
	source   OrphanSource
	store    Deleter
	interval time.Duration
	batch    int64
	log      zerolog.Logger
}

func NewSweeper(source OrphanSource, store Deleter, interval time.Duration, log zerolog.Logger) *Sweeper {
	return &Sweeper{
		source:   source,
		store:    store,
		interval: interval,
		batch:    defaultBatch,
		log:      log,
	}
}

// Start runs sweeps on a ticker until ctx is cancelled. A non-positive
// interval disables the sweeper.
func (s *Sweeper) Start(ctx context.Context) {
	if s.interval <= 0 {
		s.log.Info().Msg("orphan sweeper disabled")
		return
	}
	go s.run(ctx)
}

func (s *Sweeper) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep drains up to one batch and returns how many objects were deleted.
// Once ctx is cancelled no further deletes are attempted; every popped id that
// was not deleted goes back to the ledger.
func (s *Sweeper) Sweep(ctx context.Context) int {
	ids, err := s.source.Pop(ctx, s.batch)
	if err != nil {
		s.log.Error().Err(err).Msg("orphan sweep: pop failed")
		return 0
	}

	var failed []string
	for i, id := range ids {
		if ctx.Err() != nil {
			failed = append(failed, ids[i:]...)
			break
		}
		if err := s.store.Delete(ctx, id); err != nil {
			s.log.Warn().Err(err).Str("object_id", id).Msg("orphan sweep: delete failed")
			failed = append(failed, id)
			continue
		}
		metrics.OrphansSweptTotal.WithLabelValues("deleted").Inc()
	}

	if len(failed) > 0 {
		metrics.OrphansSweptTotal.WithLabelValues("requeued").Add(float64(len(failed)))
		// Popped ids only live in memory now, so the requeue outlives ctx.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), requeueTimeout)
		err := s.source.Requeue(rctx, failed...)
		cancel()
		if err != nil {
			s.log.Error().Err(err).Strs("object_ids", failed).Msg("orphan sweep: requeue failed")
		}
	}

	deleted := len(ids) - len(failed)
	if len(ids) > 0 {
		s.log.Info().Int("deleted", deleted).Int("requeued", len(failed)).Msg("orphan sweep finished")
	}
	return deleted
}
