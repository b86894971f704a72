package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/annel0/fuelcell/internal/config"
	"github.com/annel0/fuelcell/internal/logging"
	"github.com/annel0/fuelcell/internal/score"
	"github.com/go-redis/redis/v8"
)

// RedisLeaderboard хранит таблицу JSON-строкой под одним ключом
type RedisLeaderboard struct {
	client *redis.Client
	key    string
}

// NewRedisLeaderboard подключается к Redis и проверяет соединение
func NewRedisLeaderboard(ctx context.Context, cfg config.RedisConfig) (*RedisLeaderboard, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.Key == "" {
		cfg.Key = "fuelcell:leaderboard"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Проверяем подключение
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logging.Info("🔴 Connected to Redis at %s", cfg.Addr)
	return &RedisLeaderboard{client: client, key: cfg.Key}, nil
}

// Load читает таблицу; отсутствие ключа даёт пустую таблицу
func (r *RedisLeaderboard) Load(ctx context.Context) ([]score.Entry, error) {
	data, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}

	var entries []score.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to unmarshal leaderboard: %w", err)
	}
	return entries, nil
}

// Save перезаписывает ключ без срока жизни
func (r *RedisLeaderboard) Save(ctx context.Context, entries []score.Entry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	if err := r.client.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save leaderboard: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis
func (r *RedisLeaderboard) Close() error {
	return r.client.Close()
}
