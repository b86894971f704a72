package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/annel0/fuelcell/internal/config"
	"github.com/annel0/fuelcell/internal/logging"
	"github.com/annel0/fuelcell/internal/score"
)

// ErrUnknownBackend неизвестное имя хранилища
var ErrUnknownBackend = errors.New("unknown storage backend")

// Leaderboard хранилище таблицы рекордов с освобождением ресурсов
type Leaderboard interface {
	score.Repository
	io.Closer
}

// Open создаёт хранилище по конфигурации
func Open(ctx context.Context, cfg config.StorageConfig) (Leaderboard, error) {
	var (
		lb  Leaderboard
		err error
	)

	switch cfg.Backend {
	case "", "file":
		lb = NewFileLeaderboard(cfg.Path)
	case "memory":
		lb = NewMemoryLeaderboard()
	case "badger":
		lb, err = NewBadgerLeaderboard(cfg.Path)
	case "redis":
		lb, err = NewRedisLeaderboard(ctx, cfg.Redis)
	case "maria":
		lb, err = NewMariaLeaderboard(ctx, cfg.Maria.DSN)
	case "mongo":
		lb, err = NewMongoLeaderboard(ctx, cfg.Mongo)
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Backend, ErrUnknownBackend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s leaderboard: %w", cfg.Backend, err)
	}

	logging.Info("💾 Хранилище рекордов: %s", backendName(cfg.Backend))
	return lb, nil
}

func backendName(b string) string {
	if b == "" {
		return "file"
	}
	return b
}
