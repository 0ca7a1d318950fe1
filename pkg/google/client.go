package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
	"google.golang.org/api/calendar/v3"

	"github.com/harrisonrobin/timecoach/pkg/auth"
)

// requestsPerSecond keeps well under the Calendar API per-user quota.
const requestsPerSecond = 5

// NewClient authenticates and returns a client for calendarName, which is
// either "primary" or the summary of a calendar in the user's list.
func NewClient(ctx context.Context, a *auth.Authenticator, calendarName string, log zerolog.Logger) (*CalendarClient, error) {
	srv, err := a.CalendarService(ctx)
	if err != nil {
		return nil, err
	}
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), 1)

	calendarID, err := ResolveCalendarID(ctx, srv, calendarName, limiter)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("calendar", calendarName).Str("id", calendarID).Msg("calendar resolved")
	return NewCalendarClient(srv, calendarID, limiter, log), nil
}

// ResolveCalendarID maps a calendar summary to its id. "primary" and ids
// containing '@' are returned unchanged. limiter may be nil.
func ResolveCalendarID(ctx context.Context, srv *calendar.Service, calendarName string, limiter *rate.Limiter) (string, error) {
	if calendarName == "" || calendarName == "primary" {
		return "primary", nil
	}
	if strings.Contains(calendarName, "@") {
		return calendarName, nil
	}

	pageToken := ""
	for {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return "", err
			}
		}
		call := srv.CalendarList.List().Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		calendarList, err := call.Do()
		if err != nil {
			return "", fmt.Errorf("unable to retrieve calendar list: %w", err)
		}
		for _, item := range calendarList.Items {
			if item.Summary == calendarName || item.SummaryOverride == calendarName {
				return item.Id, nil
			}
		}
		if calendarList.NextPageToken == "" {
			break
		}
		pageToken = calendarList.NextPageToken
	}
	return "", fmt.Errorf("calendar '%s' not found", calendarName)
}
