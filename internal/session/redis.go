package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"healthmate/internal/triage"
)

const sessionKeyPrefix = "triage:session:"

// RedisStore keeps profiles in Redis so multiple workers can serve the same
// session pool. Profiles are stored as JSON with a rolling TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a Redis-backed session store. A non-positive ttl
// falls back to 24 hours.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, p *triage.PatientProfile) error {
	val, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}
	return s.client.Set(ctx, s.key(p.SessionID), val, s.ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (*triage.PatientProfile, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var p triage.PatientProfile
	if err := json.Unmarshal([]byte(val), &p); err != nil {
		return nil, fmt.Errorf("unmarshalling profile: %w", err)
	}

	// Refresh the TTL; an active conversation should not expire mid-flight.
	_ = s.client.Expire(ctx, s.key(id), s.ttl).Err()

	return &p, nil
}

func (s *RedisStore) Update(ctx context.Context, p *triage.PatientProfile) error {
	key := s.key(p.SessionID)
	exists, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return err
	}
	if exists == 0 {
		return triage.ErrSessionNotFound
	}

	val, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}
	return s.client.Set(ctx, key, val, s.ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *RedisStore) key(id string) string {
	return sessionKeyPrefix + id
}
