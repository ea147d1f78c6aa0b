package recorder

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists raw datasets and load events to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS dataset_cache (
			source     TEXT PRIMARY KEY,
			fetched_at INTEGER NOT NULL,
			body       BLOB NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS dataset_loads (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			snapshot_id TEXT,
			source      TEXT,
			trigger_type TEXT,
			row_count   INTEGER,
			from_cache  INTEGER,
			error       TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_loads_ts ON dataset_loads(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) SaveDataset(source string, body []byte, fetchedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO dataset_cache (source, fetched_at, body)
		VALUES (?,?,?)
		ON CONFLICT(source) DO UPDATE SET fetched_at = excluded.fetched_at, body = excluded.body`,
		source, fetchedAt.Unix(), body,
	)
	return err
}

func (r *SQLiteRecorder) LoadDataset(source string) ([]byte, time.Time, error) {
	var (
		body []byte
		ts   int64
	)
	err := r.db.QueryRow(`SELECT body, fetched_at FROM dataset_cache WHERE source = ?`, source).Scan(&body, &ts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoCachedDataset
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("load cached dataset: %w", err)
	}
	return body, time.Unix(ts, 0), nil
}

func (r *SQLiteRecorder) RecordLoad(evt *LoadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO dataset_loads
		(timestamp, snapshot_id, source, trigger_type, row_count, from_cache, error)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.SnapshotID, evt.Source, evt.Trigger,
		evt.Rows, boolToInt(evt.FromCache), evt.Err,
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// LoadCount returns how many load events were recorded.
func (r *SQLiteRecorder) LoadCount() (int, error) {
	var n int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM dataset_loads`).Scan(&n)
	return n, err
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
