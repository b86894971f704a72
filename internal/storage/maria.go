package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/annel0/fuelcell/internal/score"
	_ "github.com/go-sql-driver/mysql"
)

// MariaLeaderboard реализует таблицу рекордов для MariaDB/MySQL.
// Использует таблицу leaderboard; порядок строк задаёт колонка position.
type MariaLeaderboard struct {
	db *sql.DB
}

// NewMariaLeaderboard подключается к базе и создаёт таблицу, если её нет.
//
// Параметры:
//
//	dsn - строка подключения к базе данных (user:pass@tcp(host:port)/dbname)
func NewMariaLeaderboard(ctx context.Context, dsn string) (*MariaLeaderboard, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	// Проверяем соединение
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo := &MariaLeaderboard{db: db}
	if err := repo.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}

	return repo, nil
}

// NewMariaLeaderboardFromDB использует уже открытое соединение
func NewMariaLeaderboardFromDB(ctx context.Context, db *sql.DB) (*MariaLeaderboard, error) {
	repo := &MariaLeaderboard{db: db}
	if err := repo.createTable(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

// createTable создает таблицу leaderboard, если она не существует.
func (r *MariaLeaderboard) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS leaderboard (
			position   INT          PRIMARY KEY,
			name       VARCHAR(64)  NOT NULL,
			score      INT          NOT NULL,
			updated_at TIMESTAMP    DEFAULT CURRENT_TIMESTAMP
			           ON UPDATE    CURRENT_TIMESTAMP
		) ENGINE=InnoDB
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ошибка создания таблицы leaderboard: %w", err)
	}
	return nil
}

// Load читает строки в порядке position
func (r *MariaLeaderboard) Load(ctx context.Context) ([]score.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, score FROM leaderboard ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения таблицы рекордов: %w", err)
	}
	defer rows.Close()

	var entries []score.Entry
	for rows.Next() {
		var e score.Entry
		if err := rows.Scan(&e.Name, &e.Score); err != nil {
			return nil, fmt.Errorf("ошибка разбора строки: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Save заменяет все строки в одной транзакции
func (r *MariaLeaderboard) Save(ctx context.Context, entries []score.Entry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard`); err != nil {
		return fmt.Errorf("ошибка очистки таблицы: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO leaderboard (position, name, score) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, i, e.Name, e.Score); err != nil {
			return fmt.Errorf("ошибка записи %q: %w", e.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}
	return nil
}

// Close закрывает соединение с базой данных
func (r *MariaLeaderboard) Close() error {
	return r.db.Close()
}
