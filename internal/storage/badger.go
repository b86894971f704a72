package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/annel0/fuelcell/internal/score"
	"github.com/dgraph-io/badger/v3"
)

var badgerKey = []byte("leaderboard:v1")

// BadgerLeaderboard хранит таблицу одной JSON-записью в BadgerDB
type BadgerLeaderboard struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerLeaderboard открывает BadgerDB в каталоге dataPath/leaderboard
func NewBadgerLeaderboard(dataPath string) (*BadgerLeaderboard, error) {
	if dataPath == "" {
		dataPath = "data"
	}
	dbPath := filepath.Join(dataPath, "leaderboard")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerLeaderboard{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
	}, nil
}

// Load читает таблицу; отсутствие записи даёт пустую таблицу
func (r *BadgerLeaderboard) Load(ctx context.Context) ([]score.Entry, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return nil, fmt.Errorf("хранилище не готово")
	}

	var data []byte
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = append([]byte{}, val...)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения из BadgerDB: %w", err)
	}

	var entries []score.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("ошибка десериализации таблицы: %w", err)
	}
	return entries, nil
}

// Save перезаписывает таблицу
func (r *BadgerLeaderboard) Save(ctx context.Context, entries []score.Entry) error {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	if !r.isReady {
		return fmt.Errorf("хранилище не готово")
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("ошибка сериализации таблицы: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey, data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}
	return nil
}

// Close закрывает BadgerDB
func (r *BadgerLeaderboard) Close() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.isReady {
		return nil
	}

	r.isReady = false
	return r.db.Close()
}
