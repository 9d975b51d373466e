package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/dqi/internal/config"
	"github.com/JonMunkholm/dqi/internal/dqi"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS dqi_reports (
	key        text PRIMARY KEY,
	report     jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
)`

const postgresIndex = `CREATE INDEX IF NOT EXISTS dqi_reports_created_at ON dqi_reports (created_at)`

// Postgres stores reports as jsonb rows.
type Postgres struct {
	pool *pgxpool.Pool
}

// OpenPostgres connects a pool using cfg and ensures the reports table exists.
func OpenPostgres(ctx context.Context, cfg config.StoreConfig) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Info("connected to database", "name", databaseName(cfg.DatabaseURL))

	pg, err := NewPostgres(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return pg, nil
}

// NewPostgres wraps an existing pool and ensures the reports table exists.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	for _, stmt := range []string{postgresSchema, postgresIndex} {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return nil, fmt.Errorf("init postgres schema: %w", err)
		}
	}
	return &Postgres{pool: pool}, nil
}

func (p *Postgres) Put(ctx context.Context, key string, r *dqi.Report) error {
	if err := checkKey(key); err != nil {
		return err
	}
	data, err := encodeReport(r)
	if err != nil {
		return err
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO dqi_reports (key, report, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (key) DO UPDATE SET report = EXCLUDED.report, created_at = EXCLUDED.created_at`,
		key, data, createdAt(r))
	if err != nil {
		return fmt.Errorf("put report %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Get(ctx context.Context, key string) (*dqi.Report, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}

	var data []byte
	err := p.pool.QueryRow(ctx, `SELECT report FROM dqi_reports WHERE key = $1`, key).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", key, err)
	}
	return decodeReport(data)
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if _, err := p.pool.Exec(ctx, `DELETE FROM dqi_reports WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete report %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Prune(ctx context.Context, before time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM dqi_reports WHERE created_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("prune reports: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

// databaseName extracts the database name from a connection URL for logging,
// never the credentials.
func databaseName(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Path, "/")
}
