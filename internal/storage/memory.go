package storage

import (
	"context"
	"sync"

	"github.com/annel0/fuelcell/internal/score"
)

// MemoryLeaderboard хранит таблицу в памяти.
// Используется в тестах и когда сохранение между запусками не нужно.
type MemoryLeaderboard struct {
	mu      sync.RWMutex
	entries []score.Entry
	saved   bool
}

// NewMemoryLeaderboard создаёт пустое хранилище в памяти
func NewMemoryLeaderboard() *MemoryLeaderboard {
	return &MemoryLeaderboard{}
}

// Load возвращает копию сохранённой таблицы; до первого Save она пуста
func (r *MemoryLeaderboard) Load(ctx context.Context) ([]score.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]score.Entry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}

// Save заменяет таблицу
func (r *MemoryLeaderboard) Save(ctx context.Context, entries []score.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = make([]score.Entry, len(entries))
	copy(r.entries, entries)
	r.saved = true
	return nil
}

// Saved сообщает, вызывался ли Save
func (r *MemoryLeaderboard) Saved() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saved
}

// Close ничего не делает
func (r *MemoryLeaderboard) Close() error {
	return nil
}
