package google

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/timecoach/pkg/busy"
)

const (
	// pageSize is the maxResults requested per Events.List page.
	pageSize = 250
	// maxPages bounds one fetch; a single day never gets close.
	maxPages = 20
)

// CalendarClient reads events from one Google calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// NewCalendarClient wraps an existing service. limiter may be nil.
func NewCalendarClient(srv *calendar.Service, calendarID string, limiter *rate.Limiter, log zerolog.Logger) *CalendarClient {
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &CalendarClient{srv: srv, calendarID: calendarID, limiter: limiter, log: log}
}

func (c *CalendarClient) CalendarID() string { return c.calendarID }

// ListEvents fetches the expanded single events overlapping [timeMin, timeMax),
// following page tokens.
func (c *CalendarClient) ListEvents(ctx context.Context, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	var all []*calendar.Event
	pageToken := ""
	for page := 0; page < maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
		call := c.srv.Events.List(c.calendarID).
			Context(ctx).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			MaxResults(pageSize)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve events from calendar: %w", err)
		}
		all = append(all, events.Items...)
		if events.NextPageToken == "" {
			return all, nil
		}
		pageToken = events.NextPageToken
	}
	c.log.Warn().Int("pages", maxPages).Msg("event listing truncated")
	return all, nil
}

// Busy implements busy.Source.
func (c *CalendarClient) Busy(ctx context.Context, from, to time.Time) (busy.Batch, error) {
	start := time.Now()
	events, err := c.ListEvents(ctx, from, to)
	if err != nil {
		return busy.Batch{}, fmt.Errorf("%w: %w", busy.ErrFetchFailed, err)
	}
	batch := EventsToBatch(events, from.Location())
	c.log.Debug().
		Str("calendar", c.calendarID).
		Int("events", len(events)).
		Int("busy", len(batch.Intervals)).
		Int("skipped", batch.Skipped).
		Dur("took", time.Since(start)).
		Msg("calendar fetched")
	return batch, nil
}
