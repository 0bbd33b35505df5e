package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/sunrisehealth/portal-api/internal/model"
	apperrors "github.com/sunrisehealth/portal-api/pkg/errors"
	"github.com/sunrisehealth/portal-api/pkg/metrics"
)

// RosterStore keeps the whole roster serialized as one JSON array
// under a single key. The roster is small and always read and written
// as a unit, so there is no per-patient keying.
type RosterStore struct {
	client  *redis.Client
	key     string
	logger  *zerolog.Logger
	metrics *metrics.Metrics
}

func NewRosterStore(client *redis.Client, key string, logger *zerolog.Logger, m *metrics.Metrics) *RosterStore {
	return &RosterStore{
		client:  client,
		key:     key,
		logger:  logger,
		metrics: m,
	}
}

// Load reads the persisted roster. A missing key, an empty value, or a
// value that fails to decode all count as "no prior state" so the
// caller falls through to seeding.
func (s *RosterStore) Load(ctx context.Context) ([]model.Patient, error) {
	raw, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.metrics.RecordRedisOp("get", "miss")
			return nil, apperrors.NewNotFound("roster", err)
		}
		s.metrics.RecordRedisOp("get", "error")
		return nil, fmt.Errorf("failed to read roster: %w", err)
	}

	if raw == "" || raw == "[]" {
		s.metrics.RecordRedisOp("get", "miss")
		return nil, apperrors.NewNotFound("roster", nil)
	}

	var patients []model.Patient
	if err := json.Unmarshal([]byte(raw), &patients); err != nil {
		// Garbage state is treated as absent rather than fatal.
		s.logger.Warn().Err(err).Str("key", s.key).Msg("discarding undecodable roster state")
		s.metrics.RecordRedisOp("get", "miss")
		return nil, apperrors.NewNotFound("roster", err)
	}

	s.metrics.RecordRedisOp("get", "ok")
	return patients, nil
}

// Save overwrites the persisted roster with the full current state.
func (s *RosterStore) Save(ctx context.Context, patients []model.Patient) error {
	payload, err := json.Marshal(patients)
	if err != nil {
		return fmt.Errorf("failed to marshal roster: %w", err)
	}

	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		s.metrics.RecordRedisOp("set", "error")
		return fmt.Errorf("failed to write roster: %w", err)
	}

	s.metrics.RecordRedisOp("set", "ok")
	return nil
}
