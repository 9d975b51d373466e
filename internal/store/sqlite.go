package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)

	"github.com/JonMunkholm/dqi/internal/dqi"
)

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS dqi_reports (
		key        TEXT PRIMARY KEY,
		report     TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS dqi_reports_created_at ON dqi_reports (created_at)`,
}

// SQLite stores reports in a local database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and ensures
// the reports table exists.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}

	// Writes are serialized by SQLite anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite %s: %w", path, err)
	}
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init sqlite schema: %w", err)
		}
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Put(ctx context.Context, key string, r *dqi.Report) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encodeReport(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO dqi_reports (key, report, created_at) VALUES (?, ?, ?)
		 ON CONFLICT (key) DO UPDATE SET report = excluded.report, created_at = excluded.created_at`,
		key, string(data), createdAt(r).UnixMilli())
	if err != nil {
		return fmt.Errorf("put report %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, key string) (*dqi.Report, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var data string
	err := s.db.QueryRowContext(ctx, `SELECT report FROM dqi_reports WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", key, err)
	}
	return decodeReport([]byte(data))
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM dqi_reports WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete report %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM dqi_reports WHERE created_at < ?`, before.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	return res.RowsAffected()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
