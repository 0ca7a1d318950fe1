// Package busy defines where busy intervals come from.
package busy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

// ErrFetchFailed wraps every failure of a busy interval source.
var ErrFetchFailed = errors.New("fetch failed")

// Batch is the outcome of one fetch. Skipped counts entries that were
// dropped because they lacked a usable start or end.
type Batch struct {
	Intervals []model.Interval
	Skipped   int
}

// Source supplies busy intervals overlapping [from, to), already converted to
// from's location.
type Source interface {
	Busy(ctx context.Context, from, to time.Time) (Batch, error)
}

// Fetch calls src and wraps any error in ErrFetchFailed.
func Fetch(ctx context.Context, src Source, from, to time.Time) (Batch, error) {
	b, err := src.Busy(ctx, from, to)
	if err != nil {
		if errors.Is(err, ErrFetchFailed) {
			return Batch{}, err
		}
		return Batch{}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	return b, nil
}
