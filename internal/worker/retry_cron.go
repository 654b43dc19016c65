package worker

// retry_cron.go: once the SMTP breaker has closed again, dead-lettered
// email jobs are moved back to their queue with a fresh attempt count.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Morochief/proyecto-transportadora-web-sub000/internal/circuit"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 5 * time.Minute
	retryBatchSize    = 20
)

// StartRetryCron ticks every retryTickInterval until ctx is done.
func StartRetryCron(ctx context.Context, rdb *redis.Client, cb *circuit.Breaker) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				requeueDLQ(ctx, rdb, cb, QueueEmail)
			}
		}
	}()
}

func requeueDLQ(ctx context.Context, rdb *redis.Client, cb *circuit.Breaker, queue string) {
	if cb.State() == circuit.Open {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	moved := 0
	for i := 0; i < retryBatchSize; i++ {
		raw, err := rdb.RPop(ctx, DLQPrefix+queue).Result()
		if err != nil {
			break // redis.Nil: DLQ drained
		}
		var entry DLQEntry
		if err := json.Unmarshal([]byte(raw), &entry); err != nil {
			log.Error().Err(err).Msg("retry_cron: dropping malformed DLQ entry")
			continue
		}
		entry.Job.Attempts = 0
		data, _ := json.Marshal(entry.Job)
		if err := rdb.LPush(ctx, queue, data).Err(); err != nil {
			log.Error().Err(err).Msg("retry_cron: requeue failed")
			_ = rdb.RPush(ctx, DLQPrefix+queue, raw).Err()
			break
		}
		moved++
	}
	if moved > 0 {
		log.Info().Int("jobs", moved).Str("queue", queue).Msg("retry_cron: dead-lettered jobs requeued")
	}
}
