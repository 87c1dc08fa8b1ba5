package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/navid-fn/spread-radar/configs"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "radar:prefs:"

// RedisStore keeps preferences as JSON strings with a sliding TTL.
type RedisStore struct {
	client   *redis.Client
	defaults Preferences
	ttl      time.Duration
}

// Connect opens a client and pings it.
func Connect(cfg configs.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr, err)
	}
	return client, nil
}

func NewRedisStore(client *redis.Client, defaults Preferences, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, defaults: defaults, ttl: ttl}
}

func key(id string) string {
	return keyPrefix + id
}

func (s *RedisStore) Init(ctx context.Context, id string) (Preferences, error) {
	p := s.defaults
	p.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(p)
	if err != nil {
		return Preferences{}, err
	}

	created, err := s.client.SetNX(ctx, key(id), data, s.ttl).Result()
	if err != nil {
		return Preferences{}, fmt.Errorf("redis setnx error: %w", err)
	}
	if created {
		return p, nil
	}
	return s.Get(ctx, id)
}

func (s *RedisStore) Get(ctx context.Context, id string) (Preferences, error) {
	data, err := s.client.Get(ctx, key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Preferences{}, ErrNotFound
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("redis get error: %w", err)
	}

	var p Preferences
	if err := json.Unmarshal(data, &p); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}

	if s.ttl > 0 {
		if err := s.client.Expire(ctx, key(id), s.ttl).Err(); err != nil {
			return Preferences{}, fmt.Errorf("redis expire error: %w", err)
		}
	}
	return p, nil
}

func (s *RedisStore) Save(ctx context.Context, id string, p Preferences) (Preferences, error) {
	p = Normalize(p, s.defaults)
	p.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(p)
	if err != nil {
		return Preferences{}, err
	}
	if err := s.client.Set(ctx, key(id), data, s.ttl).Err(); err != nil {
		return Preferences{}, fmt.Errorf("redis set error: %w", err)
	}
	return p, nil
}

func (s *RedisStore) Clear(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, key(id)).Err(); err != nil {
		return fmt.Errorf("redis del error: %w", err)
	}
	return nil
}
