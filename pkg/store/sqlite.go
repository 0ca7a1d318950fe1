package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/harrisonrobin/timecoach/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	position   INTEGER NOT NULL,
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL,
	priority   INTEGER NOT NULL,
	duration   INTEGER NOT NULL,
	category   TEXT NOT NULL,
	scheduled  INTEGER NOT NULL DEFAULT 0,
	start_time TEXT,
	end_time   TEXT,
	completed  INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);
`

// SQLiteStore keeps tasks in a SQLite table, ordered by position.
type SQLiteStore struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the database at path and ensures the
// schema exists. The caller is responsible for calling Close.
func NewSQLiteStore(path string, log zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // prevent SQLITE_BUSY
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) Load(ctx context.Context) ([]model.Task, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, priority, duration, category, scheduled, start_time, end_time, completed, created_at
		FROM tasks ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.log.Debug().Int("tasks", len(tasks)).Msg("tasks loaded")
	return tasks, nil
}

// Save replaces the stored snapshot in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, tasks []model.Task) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks`); err != nil {
		return fmt.Errorf("clear tasks: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO tasks
			(position, id, title, priority, duration, category, scheduled, start_time, end_time, completed, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range tasks {
		_, err := stmt.ExecContext(ctx,
			i, t.ID, t.Title, t.Priority, t.Duration, string(t.Category),
			t.Scheduled, nullTime(t.StartTime), nullTime(t.EndTime), t.Completed,
			t.CreatedAt.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("insert task %s: %w", t.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Debug().Int("tasks", len(tasks)).Msg("tasks saved")
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (model.Task, error) {
	var (
		t          model.Task
		category   string
		start, end sql.NullString
		createdAt  string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Priority, &t.Duration, &category,
		&t.Scheduled, &start, &end, &t.Completed, &createdAt)
	if err != nil {
		return model.Task{}, fmt.Errorf("scan task: %w", err)
	}
	t.Category = model.Category(category)
	if t.StartTime, err = parseNullTime(start); err != nil {
		return model.Task{}, err
	}
	if t.EndTime, err = parseNullTime(end); err != nil {
		return model.Task{}, err
	}
	if t.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return model.Task{}, fmt.Errorf("parse created_at: %w", err)
	}
	return t, nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339Nano)
}

func parseNullTime(ns sql.NullString) (*time.Time, error) {
	if !ns.Valid || ns.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, ns.String)
	if err != nil {
		return nil, fmt.Errorf("parse time %q: %w", ns.String, err)
	}
	return &t, nil
}
