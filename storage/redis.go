package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"healthpulse/config"
	"healthpulse/models"
)

// keyPrefix namespaces all record keys in a shared Redis deployment.
const keyPrefix = "healthpulse:"

// RedisStore keeps each named record as one JSON blob under a namespaced key.
type RedisStore struct {
	rdb *redis.Client
	log *zap.Logger
}

// OpenRedis connects and pings the configured Redis deployment.
func OpenRedis(ctx context.Context, cfg config.RedisConfig, log *zap.Logger) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	log.Info("redis: connected", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return &RedisStore{rdb: rdb, log: log}, nil
}

func (s *RedisStore) LoadResponses(ctx context.Context) ([]models.Response, error) {
	var responses []models.Response
	if _, err := s.load(ctx, keySubmissions, &responses); err != nil {
		return nil, err
	}
	return responses, nil
}

func (s *RedisStore) SaveResponses(ctx context.Context, responses []models.Response) error {
	return s.save(ctx, keySubmissions, responses)
}

func (s *RedisStore) LoadSummary(ctx context.Context) (models.StatisticsSummary, error) {
	summary := models.EmptySummary()
	ok, err := s.load(ctx, keyStatistics, &summary)
	if err != nil || !ok {
		return models.EmptySummary(), err
	}
	return summary, nil
}

func (s *RedisStore) SaveSummary(ctx context.Context, summary models.StatisticsSummary) error {
	return s.save(ctx, keyStatistics, summary)
}

func (s *RedisStore) LoadSettings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	ok, err := s.load(ctx, keySettings, &settings)
	if err != nil || !ok {
		return models.DefaultSettings(), err
	}
	return settings, nil
}

func (s *RedisStore) SaveSettings(ctx context.Context, settings models.Settings) error {
	return s.save(ctx, keySettings, settings)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close(context.Context) error {
	return s.rdb.Close()
}

// load unmarshals one record into dest. A missing key or a blob that no
// longer parses reports ok=false so the caller keeps the default structure.
func (s *RedisStore) load(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := s.rdb.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		s.log.Warn("redis: malformed record, using default",
			zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

func (s *RedisStore) save(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.rdb.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
