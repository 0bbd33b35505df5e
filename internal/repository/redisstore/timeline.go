package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sunrisehealth/portal-api/internal/model"
	"github.com/sunrisehealth/portal-api/pkg/metrics"
)

// TimelineStore keeps the activity feed as a capped Redis list, newest
// first.
type TimelineStore struct {
	client  *redis.Client
	key     string
	maxLen  int64
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewTimelineStore(client *redis.Client, key string, maxLen int64, logger *zerolog.Logger, m *metrics.Metrics) *TimelineStore {
	if maxLen <= 0 {
		maxLen = 100
	}
	return &TimelineStore{
		client:  client,
		key:     key,
		maxLen:  maxLen,
		logger:  logger,
		metrics: m,
	}
}

func (s *TimelineStore) Append(ctx context.Context, event model.TimelineEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal timeline event: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, s.key, payload)
	pipe.LTrim(ctx, s.key, 0, s.maxLen-1)
	if _, err := pipe.Exec(ctx); err != nil {
		s.metrics.RecordRedisOp("lpush", "error")
		return fmt.Errorf("failed to append timeline event: %w", err)
	}

	s.metrics.RecordRedisOp("lpush", "ok")
	return nil
}

func (s *TimelineStore) List(ctx context.Context, limit int) ([]model.TimelineEvent, error) {
	if limit <= 0 || int64(limit) > s.maxLen {
		limit = int(s.maxLen)
	}

	raw, err := s.client.LRange(ctx, s.key, 0, int64(limit)-1).Result()
	if err != nil {
		s.metrics.RecordRedisOp("lrange", "error")
		return nil, fmt.Errorf("failed to read timeline: %w", err)
	}

	events := make([]model.TimelineEvent, 0, len(raw))
	for _, item := range raw {
		var event model.TimelineEvent
		if err := json.Unmarshal([]byte(item), &event); err != nil {
			s.logger.Warn().Err(err).Msg("skipping undecodable timeline event")
			continue
		}
		events = append(events, event)
	}

	s.metrics.RecordRedisOp("lrange", "ok")
	return events, nil
}
