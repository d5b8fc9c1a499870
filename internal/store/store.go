// Package store keeps the OCR cache and sync run reports in SQLite.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 1 - ocr_cache and sync_runs
const currentSchemaVersion = 1

// Store provides durable storage backed by SQLite in WAL mode.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path, applying pragmas and schema.
// It is safe to call repeatedly on the same file.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, errors.Wrapf(err, "create directory %s", dir)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connect to database")
	}

	// SQLite has a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply pragmas")
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "execute %q", pragma)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return errors.Wrap(err, "execute schema")
	}
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return errors.Wrap(err, "set user_version")
	}
	return nil
}

// OCRText returns the cached text for key, and false on a miss.
func (s *Store) OCRText(ctx context.Context, key string) (string, bool, error) {
	var text string
	err := s.db.QueryRowContext(ctx, `SELECT text FROM ocr_cache WHERE cache_key = ?`, key).Scan(&text)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrapf(err, "read ocr cache %s", key)
	}
	return text, true, nil
}

// PutOCRText stores text under key, replacing an earlier entry.
func (s *Store) PutOCRText(ctx context.Context, key, text string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ocr_cache (cache_key, text, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(cache_key) DO UPDATE SET text = excluded.text, created_at = excluded.created_at`,
		key, text, time.Now().Unix())
	if err != nil {
		return errors.Wrapf(err, "write ocr cache %s", key)
	}
	return nil
}

// Run is the report of one sync pass.
type Run struct {
	ID           string    `json:"id"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	Reservations int       `json:"reservations"`
	Created      int       `json:"created"`
	Deleted      int       `json:"deleted"`
	Kept         int       `json:"kept"`
	Glitched     int       `json:"glitched"`
	Errors       []string  `json:"errors"`
}

// SaveRun records r, assigning an ID when it has none.
func (s *Store) SaveRun(ctx context.Context, r *Run) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Errors == nil {
		r.Errors = []string{}
	}
	errs, err := json.Marshal(r.Errors)
	if err != nil {
		return errors.Wrap(err, "marshal run errors")
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sync_runs (id, started_at, finished_at, reservations, created, deleted, kept, glitched, errors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli(),
		r.Reservations, r.Created, r.Deleted, r.Kept, r.Glitched, string(errs))
	if err != nil {
		return errors.Wrap(err, "insert sync run")
	}
	return nil
}

// Runs returns up to limit reports, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, reservations, created, deleted, kept, glitched, errors
		 FROM sync_runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query sync runs")
	}
	defer rows.Close()

	out := make([]Run, 0)
	for rows.Next() {
		var (
			r                 Run
			started, finished int64
			errs              string
		)
		if err := rows.Scan(&r.ID, &started, &finished, &r.Reservations,
			&r.Created, &r.Deleted, &r.Kept, &r.Glitched, &errs); err != nil {
			return nil, errors.Wrap(err, "scan sync run")
		}
		r.StartedAt = time.UnixMilli(started).UTC()
		r.FinishedAt = time.UnixMilli(finished).UTC()
		if err := json.Unmarshal([]byte(errs), &r.Errors); err != nil {
			return nil, errors.Wrapf(err, "decode errors of run %s", r.ID)
		}
		out = append(out, r)
	}
	return out, errors.Wrap(rows.Err(), "iterate sync runs")
}

// LatestRun returns the newest report, and false when there is none.
func (s *Store) LatestRun(ctx context.Context) (Run, bool, error) {
	runs, err := s.Runs(ctx, 1)
	if err != nil || len(runs) == 0 {
		return Run{}, false, err
	}
	return runs[0], true, nil
}
