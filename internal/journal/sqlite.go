// Package journal records mutating CLI operations in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"keybin-go/internal/journal/migrations"
	"keybin-go/internal/kb"
)

const timeLayout = time.RFC3339Nano

// SQLiteJournal implements kb.Journal using SQLite.
type SQLiteJournal struct {
	db   *sql.DB
	path string
}

var _ kb.Journal = (*SQLiteJournal)(nil)

// NewSQLiteJournal opens the journal at path and brings its schema up to date.
// path can be a file path or ":memory:" for an in-memory journal.
func NewSQLiteJournal(path string) (*SQLiteJournal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// A single connection keeps ":memory:" databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating journal: %w", err)
	}
	if err := migrations.CheckStatus(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema out of date: %w", err)
	}

	return &SQLiteJournal{db: db, path: path}, nil
}

// Path returns the database location.
func (j *SQLiteJournal) Path() string {
	return j.path
}

func (j *SQLiteJournal) Begin(op *kb.Operation) (int64, error) {
	status := op.Status
	if status == "" {
		status = "running"
	}

	res, err := j.db.ExecContext(context.Background(),
		`INSERT INTO operations (op_id, operation, profile, status, started_at) VALUES (?, ?, ?, ?, ?)`,
		op.OpID, op.Name, op.Profile, status, op.StartedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return 0, fmt.Errorf("recording operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading operation id: %w", err)
	}
	return id, nil
}

func (j *SQLiteJournal) Finish(id int64, status string, finishedAt time.Time) error {
	res, err := j.db.ExecContext(context.Background(),
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`,
		status, finishedAt.UTC().Format(timeLayout), id,
	)
	if err != nil {
		return fmt.Errorf("finishing operation %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing operation %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("operation %d not found", id)
	}
	return nil
}

func (j *SQLiteJournal) List(limit int) ([]*kb.Operation, error) {
	rows, err := j.db.QueryContext(context.Background(),
		`SELECT id, op_id, operation, profile, status, started_at, finished_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*kb.Operation
	for rows.Next() {
		var (
			op         kb.Operation
			startedAt  string
			finishedAt sql.NullString
		)
		if err := rows.Scan(&op.ID, &op.OpID, &op.Name, &op.Profile, &op.Status, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		if op.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at of operation %d: %w", op.ID, err)
		}
		if finishedAt.Valid {
			if op.FinishedAt, err = time.Parse(timeLayout, finishedAt.String); err != nil {
				return nil, fmt.Errorf("parsing finished_at of operation %d: %w", op.ID, err)
			}
		}
		ops = append(ops, &op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	return ops, nil
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
