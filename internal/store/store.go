// Package store persists analysis reports.
//
// A report is stored as one opaque JSON document under its evaluation id.
// Backends differ only in where the document lives: process memory, a local
// SQLite file, a PostgreSQL table or Redis keys with a TTL.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonMunkholm/dqi/internal/config"
	"github.com/JonMunkholm/dqi/internal/dqi"
)

var (
	// ErrNotFound is returned by Get when no report is stored under the key.
	ErrNotFound = errors.New("report not found")

	// ErrEmptyKey is returned when an operation is given an empty key.
	ErrEmptyKey = errors.New("empty report key")
)

// ReportStore is implemented by every backend.
//
// Delete of a missing key is not an error. Prune removes reports created
// before the cutoff and returns how many were removed; backends that expire
// keys on their own return zero.
type ReportStore interface {
	Put(ctx context.Context, key string, r *dqi.Report) error
	Get(ctx context.Context, key string) (*dqi.Report, error)
	Delete(ctx context.Context, key string) error
	Prune(ctx context.Context, before time.Time) (int64, error)
	Close() error
}

// Open returns the backend selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StoreConfig) (ReportStore, error) {
	switch strings.ToLower(cfg.Driver) {
	case config.DriverMemory:
		return NewMemory(), nil
	case config.DriverSQLite:
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverPostgres:
		s, err := OpenPostgres(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.DriverRedis:
		s, err := OpenRedis(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// encodeReport serializes a report into the stored document.
func encodeReport(r *dqi.Report) ([]byte, error) {
	if r == nil {
		return nil, errors.New("encode report: nil report")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return data, nil
}

// decodeReport parses a stored document.
func decodeReport(data []byte) (*dqi.Report, error) {
	var r dqi.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &r, nil
}

// createdAt is the instant a report is aged from: its audit timestamp, or
// now for reports that carry none.
func createdAt(r *dqi.Report) time.Time {
	if r.AuditTrail.Timestamp.IsZero() {
		return time.Now().UTC()
	}
	return r.AuditTrail.Timestamp.UTC()
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrEmptyKey
	}
	return nil
}
