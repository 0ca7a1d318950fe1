package busy

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

type fileEntry struct {
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
}

// FileSource reads busy blocks from a JSON array of {"start","end"} objects
// with RFC 3339 timestamps.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (s *FileSource) Busy(ctx context.Context, from, to time.Time) (Batch, error) {
	b, err := os.ReadFile(s.Path)
	if err != nil {
		return Batch{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	var entries []fileEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return Batch{}, fmt.Errorf("%w: decode %s: %w", ErrFetchFailed, s.Path, err)
	}

	var batch Batch
	loc := from.Location()
	for _, e := range entries {
		if e.Start == nil || e.End == nil {
			batch.Skipped++
			continue
		}
		iv := model.Interval{Start: e.Start.In(loc), End: e.End.In(loc)}
		if !iv.Start.Before(to) || !iv.End.After(from) {
			continue
		}
		batch.Intervals = append(batch.Intervals, iv)
	}
	return batch, nil
}
