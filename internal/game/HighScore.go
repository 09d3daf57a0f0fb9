package game

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const tableName = "match_results"

// Result is one bot's line in a finished match.
type Result struct {
	ID         int
	BotName    string
	Navigation string
	ClaimedPct float64
	Kills      int
	Deaths     int
	Turns      int
	CreatedAt  time.Time
}

// ResultRecorder persists finished matches.
type ResultRecorder interface {
	SaveResults(ctx context.Context, results []Result) error
}

// ResultStore keeps match results in sqlite.
type ResultStore struct {
	db *sql.DB
}

func OpenResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open results database %s: %w", path, err)
	}
	store := &ResultStore{db: db}
	if err := store.createTable(); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func (s *ResultStore) Close() error {
	return s.db.Close()
}

func (s *ResultStore) createTable() error {
	const createTableSQL = `
	CREATE TABLE IF NOT EXISTS ` + tableName + ` (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		bot_name TEXT NOT NULL,
		navigation TEXT NOT NULL,
		claimed_pct REAL NOT NULL,
		kills INTEGER NOT NULL,
		deaths INTEGER NOT NULL,
		turns INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	);`

	if _, err := s.db.Exec(createTableSQL); err != nil {
		return fmt.Errorf("failed to execute CREATE TABLE: %w", err)
	}
	return nil
}

// SaveResults writes all lines of one match in a single transaction.
func (s *ResultStore) SaveResults(ctx context.Context, results []Result) error {
	const insertSQL = `
	INSERT INTO ` + tableName + ` (bot_name, navigation, claimed_pct, kills, deaths, turns, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?);`

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin results transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, r := range results {
		createdAt := r.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := tx.ExecContext(ctx, insertSQL, r.BotName, r.Navigation, r.ClaimedPct, r.Kills, r.Deaths, r.Turns, createdAt); err != nil {
			return fmt.Errorf("failed to insert result for %s: %w", r.BotName, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit results: %w", err)
	}
	return nil
}

// TopResults returns a page of results, best claim first.
func (s *ResultStore) TopResults(limit, offset int) ([]Result, error) {
	const selectSQL = `
	SELECT id, bot_name, navigation, claimed_pct, kills, deaths, turns, created_at
	FROM ` + tableName + `
	ORDER BY claimed_pct DESC, kills DESC, id ASC
	LIMIT ? OFFSET ?;`

	rows, err := s.db.Query(selectSQL, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.ID, &r.BotName, &r.Navigation, &r.ClaimedPct, &r.Kills, &r.Deaths, &r.Turns, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}
	return results, nil
}

func (s *ResultStore) Count() (int, error) {
	const countSQL = `SELECT COUNT(*) FROM ` + tableName + `;`
	var count int
	if err := s.db.QueryRow(countSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get result count: %w", err)
	}
	return count, nil
}
