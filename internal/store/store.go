// Package store persists flash loan execution records to SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// ExecutionRecord is a persisted row for one completed loan cycle.
type ExecutionRecord struct {
	ID          string `json:"id"`
	Timestamp   int64  `json:"ts"`
	AssetSymbol string `json:"asset_symbol"`
	Variant     string `json:"variant"`
	Amount      string `json:"amount"`
	Premium     string `json:"premium"`
	FinalAmount string `json:"final_amount"`
	Profit      string `json:"profit"`
	Committed   bool   `json:"committed"`
	ErrorCode   string `json:"error_code,omitempty"`
	HopCount    int    `json:"hop_count"`
}

// Query filters ListExecutions results.
type Query struct {
	AssetSymbol string
	Variant     string
	OnlyFailed  bool
	Limit       int
	Offset      int
}

// Store wraps a SQLite database holding execution history.
type Store struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open initializes the SQLite store at path, creating directories and
// schema as needed.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path must not be empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&cache=shared", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(2)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: path}, nil
}

// OpenInMemory returns a store backed by an in-memory database. Used in tests
// and when no persistence path is configured.
func OpenInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := ensureSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, path: ":memory:"}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func ensureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS executions (
			id TEXT PRIMARY KEY,
			ts INTEGER NOT NULL,
			asset_symbol TEXT NOT NULL,
			variant TEXT NOT NULL,
			amount TEXT NOT NULL,
			premium TEXT NOT NULL,
			final_amount TEXT NOT NULL,
			profit TEXT NOT NULL,
			committed INTEGER NOT NULL,
			error_code TEXT,
			hop_count INTEGER NOT NULL DEFAULT 0,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_executions_ts ON executions(ts DESC, id);`,
		`CREATE INDEX IF NOT EXISTS idx_executions_asset ON executions(asset_symbol, ts DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_executions_committed ON executions(committed, ts DESC);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Insert writes one execution record.
func (s *Store) Insert(ctx context.Context, rec ExecutionRecord) error {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return fmt.Errorf("store is closed")
	}
	ts := rec.Timestamp
	if ts == 0 {
		ts = time.Now().UnixMilli()
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO executions
			(id, ts, asset_symbol, variant, amount, premium, final_amount, profit, committed, error_code, hop_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		ts,
		rec.AssetSymbol,
		rec.Variant,
		rec.Amount,
		rec.Premium,
		rec.FinalAmount,
		rec.Profit,
		boolToInt(rec.Committed),
		rec.ErrorCode,
		rec.HopCount,
		time.Now().UnixMilli(),
	)
	return err
}

// ListExecutions returns the most recent executions matching the query.
func (s *Store) ListExecutions(ctx context.Context, q Query) ([]ExecutionRecord, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("store is closed")
	}
	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}
	where := " WHERE 1=1"
	var args []interface{}
	if q.AssetSymbol != "" {
		where += " AND asset_symbol=?"
		args = append(args, q.AssetSymbol)
	}
	if q.Variant != "" {
		where += " AND variant=?"
		args = append(args, q.Variant)
	}
	if q.OnlyFailed {
		where += " AND committed=0"
	}
	args = append(args, limit, offset)
	rows, err := db.QueryContext(ctx, `
		SELECT id, ts, asset_symbol, variant, amount, premium, final_amount, profit, committed, error_code, hop_count
		FROM executions`+where+`
		ORDER BY ts DESC, id DESC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ExecutionRecord
	for rows.Next() {
		var (
			rec       ExecutionRecord
			committed int
			errCode   sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.AssetSymbol, &rec.Variant,
			&rec.Amount, &rec.Premium, &rec.FinalAmount, &rec.Profit,
			&committed, &errCode, &rec.HopCount); err != nil {
			return nil, err
		}
		rec.Committed = committed != 0
		rec.ErrorCode = errCode.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

// CountCommitted returns how many executions committed successfully.
func (s *Store) CountCommitted(ctx context.Context) (int64, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return 0, fmt.Errorf("store is closed")
	}
	var n int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM executions WHERE committed=1`).Scan(&n)
	return n, err
}

// Count returns the total number of recorded executions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return 0, fmt.Errorf("store is closed")
	}
	var n int64
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM executions`).Scan(&n)
	return n, err
}

// CommittedProfitByAsset sums committed profits per asset symbol. Profit
// columns hold base-unit integer strings, so sums stay exact in big.Int.
func (s *Store) CommittedProfitByAsset(ctx context.Context) (map[string]*big.Int, error) {
	s.mu.Lock()
	db := s.db
	s.mu.Unlock()
	if db == nil {
		return nil, fmt.Errorf("store is closed")
	}

	rows, err := db.QueryContext(ctx,
		`SELECT asset_symbol, profit FROM executions WHERE committed=1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sums := make(map[string]*big.Int)
	for rows.Next() {
		var symbol, profit string
		if err := rows.Scan(&symbol, &profit); err != nil {
			return nil, err
		}
		v, ok := new(big.Int).SetString(profit, 10)
		if !ok {
			return nil, fmt.Errorf("malformed profit %q for asset %s", profit, symbol)
		}
		sum, exists := sums[symbol]
		if !exists {
			sum = new(big.Int)
			sums[symbol] = sum
		}
		sum.Add(sum, v)
	}
	return sums, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
