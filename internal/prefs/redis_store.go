package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/oakpoint-health/booking-portal/pkg/logging"
)

const (
	patientKey = "portal:prefs:patient"
	debugKey   = "portal:prefs:debug"
)

// RedisStore keeps preferences as JSON values in Redis, for kiosks that share
// identity across machines.
type RedisStore struct {
	client *redis.Client
	logger *logging.Logger
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client, logger *logging.Logger) *RedisStore {
	if client == nil {
		panic("prefs: redis client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisStore{client: client, logger: logger}
}

func (s *RedisStore) LoadPatient(ctx context.Context) (PatientDetails, error) {
	var p PatientDetails
	if !s.load(ctx, patientKey, &p) {
		return PatientDetails{}, nil
	}
	return p, nil
}

func (s *RedisStore) SavePatient(ctx context.Context, p PatientDetails) error {
	return s.save(ctx, patientKey, p)
}

func (s *RedisStore) LoadDebug(ctx context.Context) (DebugSettings, error) {
	var d DebugSettings
	if !s.load(ctx, debugKey, &d) {
		return DebugSettings{}, nil
	}
	return d, nil
}

func (s *RedisStore) SaveDebug(ctx context.Context, d DebugSettings) error {
	return s.save(ctx, debugKey, d)
}

// load reports whether out now holds a trustworthy value. Missing keys,
// unreachable Redis, and garbled values all read as defaults; preferences are
// never worth failing startup over.
func (s *RedisStore) load(ctx context.Context, key string, out any) bool {
	raw, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("preference read failed, using defaults", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		s.logger.Warn("preference value corrupted, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

func (s *RedisStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("prefs: marshal %s: %w", key, err)
	}
	if err := s.client.Set(ctx, key, data, 0).Err(); err != nil {
		return fmt.Errorf("prefs: write %s: %w", key, err)
	}
	return nil
}
