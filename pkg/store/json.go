package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

// JSONStore keeps tasks as an indented JSON array, one object per task.
type JSONStore struct {
	Path string
	log  zerolog.Logger
	mu   sync.Mutex
}

func NewJSONStore(path string, log zerolog.Logger) *JSONStore {
	return &JSONStore{Path: path, log: log}
}

// Load returns an empty list when the file does not exist yet.
func (s *JSONStore) Load(ctx context.Context) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Debug().Str("path", s.Path).Msg("no task file yet")
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var tasks []model.Task
	if err := json.NewDecoder(f).Decode(&tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks from %s: %w", s.Path, err)
	}
	s.log.Debug().Str("path", s.Path).Int("tasks", len(tasks)).Msg("tasks loaded")
	return tasks, nil
}

// Save writes to a temp file first and renames it over the old one.
func (s *JSONStore) Save(ctx context.Context, tasks []model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	if tasks == nil {
		tasks = []model.Task{}
	}
	tmp, err := os.CreateTemp(dir, ".tasks-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	encoder := json.NewEncoder(tmp)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(tasks); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return err
	}
	s.log.Debug().Str("path", s.Path).Int("tasks", len(tasks)).Msg("tasks saved")
	return nil
}

func (s *JSONStore) Close() error { return nil }
