package storage

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/annel0/fuelcell/internal/score"
)

// DefaultScoreFile имя файла таблицы рекордов
const DefaultScoreFile = "scores.txt"

// FileLeaderboard плоский текстовый файл: строка имени, затем строка счёта.
// Записи идут по возрастанию счёта.
type FileLeaderboard struct {
	mu   sync.Mutex
	path string
}

// NewFileLeaderboard создаёт хранилище поверх файла path
func NewFileLeaderboard(path string) *FileLeaderboard {
	if path == "" {
		path = DefaultScoreFile
	}
	return &FileLeaderboard{path: path}
}

// Path путь к файлу
func (r *FileLeaderboard) Path() string {
	return r.path
}

// Load читает файл и возвращает записи от лучшей к худшей.
// Отсутствующий файл, имя без счёта или нечисловой счёт дают ошибку.
func (r *FileLeaderboard) Load(ctx context.Context) ([]score.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []score.Entry
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := strings.TrimRight(scanner.Text(), "\r")
		line++
		if !scanner.Scan() {
			return nil, fmt.Errorf("%s:%d: name %q without score", r.path, line, name)
		}
		line++

		value, err := strconv.Atoi(strings.TrimSpace(scanner.Text()))
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", r.path, line, err)
		}
		entries = append(entries, score.Entry{Name: name, Score: value})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	// В файле счёт возрастает, наружу отдаём лучший первым
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

// Save перезаписывает файл целиком через временный файл
func (r *FileLeaderboard) Save(ctx context.Context, entries []score.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	sorted := make([]score.Entry, len(entries))
	copy(sorted, entries)
	score.SortEntries(sorted)

	var b strings.Builder
	for i := len(sorted) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%s\n%d\n", sorted[i].Name, sorted[i].Score)
	}

	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".scores-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), r.path)
}

// Close ничего не делает: файл открывается на время операции
func (r *FileLeaderboard) Close() error {
	return nil
}
