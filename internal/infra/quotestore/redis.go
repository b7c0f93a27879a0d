package quotestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/DevWolk/fop-calc/internal/domain"
	"github.com/DevWolk/fop-calc/internal/usecase/rates"
)

const keyPrefix = "fopcalc:quote:"

type Config struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

func NewClient(cfg Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// RedisStore реализует rates.Store: котировки общие для всех инстансов.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisStore(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisStore{client: client, ttl: ttl, log: log.Named("quotestore")}
}

func quoteKey(pair domain.Pair) string { return keyPrefix + string(pair) }

func (s *RedisStore) Get(ctx context.Context, pair domain.Pair) (rates.Snapshot, error) {
	val, err := s.client.Get(ctx, quoteKey(pair)).Bytes()
	if errors.Is(err, redis.Nil) {
		return rates.Snapshot{}, rates.ErrNotHeld
	}
	if err != nil {
		return rates.Snapshot{}, fmt.Errorf("redis get %s: %w", pair, err)
	}

	var snap rates.Snapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		// битая запись равносильна отсутствию
		s.log.Warn("corrupt held quote", zap.String("pair", string(pair)), zap.Error(err))
		return rates.Snapshot{}, rates.ErrNotHeld
	}
	return snap, nil
}

// Put с TTL 0 хранит запись без срока.
func (s *RedisStore) Put(ctx context.Context, pair domain.Pair, snap rates.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, quoteKey(pair), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", pair, err)
	}
	return nil
}

func (s *RedisStore) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}
