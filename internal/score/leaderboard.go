package score

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultName имя новой записи до переименования
const DefaultName = "AAA"

// NameLength длина имени в таблице
const NameLength = 3

// ErrNoPendingEntry нет записи, ожидающей ввода имени
var ErrNoPendingEntry = errors.New("no pending leaderboard entry")

// ErrInvalidName имя не из латинских заглавных букв
var ErrInvalidName = errors.New("invalid leaderboard name")

// Entry строка таблицы рекордов
type Entry struct {
	Name  string `json:"name" bson:"name"`
	Score int    `json:"score" bson:"score"`
}

// Repository хранилище таблицы рекордов
type Repository interface {
	// Load возвращает сохранённые записи в любом порядке
	Load(ctx context.Context) ([]Entry, error)
	// Save полностью заменяет сохранённую таблицу
	Save(ctx context.Context, entries []Entry) error
}

// DefaultEntries таблица, используемая когда сохранённой нет
func DefaultEntries() []Entry {
	return []Entry{
		{Name: "Yoshi", Score: 1337},
		{Name: "Bowser", Score: 900},
		{Name: "Peach", Score: 700},
		{Name: "Mario", Score: 400},
		{Name: "Luigi", Score: 200},
		{Name: "Donkey Kong", Score: 100},
		{Name: "Tubba Blubba", Score: 50},
		{Name: "Toad", Score: -500},
	}
}

// SortEntries упорядочивает записи по убыванию счёта. Равные счета
// сохраняют исходный порядок.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
}

// SignText текст таблички: заголовок и строки "n. имя счёт" от лучшего
func SignText(entries []Entry) string {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted)

	var b strings.Builder
	b.WriteString("       -- LeaderBoard --\n")
	for i, e := range sorted {
		fmt.Fprintf(&b, "%d. %s %d\n", i+1, e.Name, e.Score)
	}
	return b.String()
}

// ValidName проверяет имя: от 1 до NameLength букв A..Z
func ValidName(name string) bool {
	if len(name) == 0 || len(name) > NameLength {
		return false
	}
	for _, r := range name {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
