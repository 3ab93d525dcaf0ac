package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis; expiry is delegated to key TTL so
// stale sessions vanish without a sweeper.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(opt *redis.Options) *RedisStore {
	return &RedisStore{Client: redis.NewClient(opt)}
}

func (s *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	b, err := s.Client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out Session
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out.Expired(time.Now().UTC()) {
		_ = s.Delete(ctx, token)
		return nil, nil
	}
	return &out, nil
}

func (s *RedisStore) Save(ctx context.Context, item *Session) error {
	b, err := json.Marshal(item)
	if err != nil {
		return err
	}
	ttl := time.Until(item.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Minute
	}
	return s.Client.Set(ctx, keyPrefix+item.Token, b, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.Client.Del(ctx, keyPrefix+token).Err()
}
