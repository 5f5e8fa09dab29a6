package session

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/murkotick/quiz-authoring-service/internal/app/quiz/domain"
	"github.com/murkotick/quiz-authoring-service/internal/pkg/clock"
)

const (
	redisKeyPrefix = "quiz:editor:sessions:v1:"

	// attempts of an optimistic update before giving up with a conflict
	redisUpdateAttempts = 3
)

// RedisStore keeps sessions as JSON strings in Redis. Updates are optimistic:
// the key is watched and the write is dropped if another client changed it.
type RedisStore struct {
	redis *redis.Client
	ttl   time.Duration
	clock clock.Clock
}

func NewRedisStore(client *redis.Client, ttl time.Duration, clk clock.Clock) *RedisStore {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &RedisStore{redis: client, ttl: ttl, clock: clk}
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	if s == nil || s.ID == "" {
		return errors.New("session: id is required")
	}
	b, err := encode(s)
	if err != nil {
		return err
	}
	ok, err := r.redis.SetNX(ctx, r.key(s.ID), b, r.ttl).Result()
	if err != nil {
		return errors.Wrap(err, "session: redis setnx")
	}
	if !ok {
		return errors.Errorf("session: %s already exists", s.ID)
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	b, err := r.redis.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, domain.ErrSessionNotFound
		}
		return nil, errors.Wrap(err, "session: redis get")
	}
	return decode(b)
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	key := r.key(id)
	var out *Session

	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if err == redis.Nil {
				return domain.ErrSessionNotFound
			}
			return errors.Wrap(err, "session: redis get")
		}
		s, err := decode(b)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		s.ID = id
		s.Version++
		s.UpdatedAt = r.clock.Now()
		enc, err := encode(s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, enc, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		out = s
		return nil
	}

	for i := 0; i < redisUpdateAttempts; i++ {
		err := r.redis.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if err == redis.TxFailedErr {
			continue
		}
		return nil, err
	}
	return nil, domain.ErrSessionConflict
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := r.redis.Del(ctx, r.key(id)).Result()
	if err != nil {
		return errors.Wrap(err, "session: redis del")
	}
	if n == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}

func (r *RedisStore) key(id string) string {
	return redisKeyPrefix + id
}
