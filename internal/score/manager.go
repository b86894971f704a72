package score

import (
	"context"
	"fmt"
	"sync"

	"github.com/annel0/fuelcell/internal/logging"
)

// Manager текущий счёт и таблица рекордов одной сессии
type Manager struct {
	mu      sync.RWMutex
	repo    Repository
	entries []Entry // всегда по убыванию счёта
	score   int
	pending int // индекс записи, ожидающей имени, или -1
}

// NewManager создаёт менеджер с таблицей по умолчанию. repo может быть nil:
// тогда Load и Save ничего не делают.
func NewManager(repo Repository) *Manager {
	m := &Manager{repo: repo, pending: -1}
	m.setEntries(DefaultEntries())
	return m
}

func (m *Manager) setEntries(entries []Entry) {
	m.entries = make([]Entry, len(entries))
	copy(m.entries, entries)
	SortEntries(m.entries)
	m.pending = -1
}

// Load читает таблицу из хранилища. При ошибке или пустой таблице
// остаётся таблица по умолчанию, ошибка возвращается для логирования.
func (m *Manager) Load(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}

	entries, err := m.repo.Load(ctx)
	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.setEntries(DefaultEntries())
		return fmt.Errorf("load leaderboard: %w", err)
	}
	if len(entries) == 0 {
		m.setEntries(DefaultEntries())
		return nil
	}

	m.setEntries(entries)
	logging.Debug("🏆 Таблица рекордов загружена: %d записей", len(entries))
	return nil
}

// Save записывает таблицу в хранилище
func (m *Manager) Save(ctx context.Context) error {
	if m.repo == nil {
		return nil
	}

	entries := m.Entries()
	if err := m.repo.Save(ctx, entries); err != nil {
		return fmt.Errorf("save leaderboard: %w", err)
	}
	return nil
}

// Score текущий счёт
func (m *Manager) Score() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.score
}

// AddScore меняет текущий счёт на delta (может быть отрицательным)
func (m *Manager) AddScore(delta int) {
	m.mu.Lock()
	m.score += delta
	m.mu.Unlock()
}

// ResetScore обнуляет текущий счёт
func (m *Manager) ResetScore() {
	m.mu.Lock()
	m.score = 0
	m.mu.Unlock()
}

// Entries копия таблицы по убыванию счёта
func (m *Manager) Entries() []Entry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// SignText текст таблички для текущей таблицы
func (m *Manager) SignText() string {
	return SignText(m.Entries())
}

// Qualifies сообщает, превосходит ли текущий счёт хотя бы одну запись
func (m *Manager) Qualifies() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.qualifies(m.score)
}

func (m *Manager) qualifies(score int) bool {
	for _, e := range m.entries {
		if score > e.Score {
			return true
		}
	}
	return false
}

// Submit вносит текущий счёт в таблицу под именем DefaultName, вытесняя
// худшую запись. Возвращает false, если счёт не прошёл в таблицу.
func (m *Manager) Submit() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.qualifies(m.score) {
		return false
	}

	// Худшая запись последняя
	m.entries = m.entries[:len(m.entries)-1]

	at := len(m.entries)
	for i, e := range m.entries {
		if m.score > e.Score {
			at = i
			break
		}
	}

	m.entries = append(m.entries, Entry{})
	copy(m.entries[at+1:], m.entries[at:])
	m.entries[at] = Entry{Name: DefaultName, Score: m.score}
	m.pending = at

	logging.Info("🏆 Новый рекорд %d занимает место %d", m.score, at+1)
	return true
}

// Pending запись, ожидающая имени
func (m *Manager) Pending() (Entry, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.pending < 0 {
		return Entry{}, false
	}
	return m.entries[m.pending], true
}

// Rename задаёт имя ожидающей записи
func (m *Manager) Rename(name string) error {
	if !ValidName(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidName)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending < 0 {
		return ErrNoPendingEntry
	}
	m.entries[m.pending].Name = name
	return nil
}

// Finish сохраняет таблицу, обнуляет счёт и закрывает ввод имени
func (m *Manager) Finish(ctx context.Context) error {
	err := m.Save(ctx)

	m.mu.Lock()
	m.score = 0
	m.pending = -1
	m.mu.Unlock()

	return err
}
