package util

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var isoDurationPart = regexp.MustCompile(`(\d+)([HMS])`)

// ParseDuration parses ISO 8601 time durations (PT1H, PT30M, PT1H30M).
func ParseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}

	if len(s) < 2 || s[0] != 'P' {
		return 0, fmt.Errorf("invalid ISO 8601 duration format: %s", s)
	}

	s = s[1:]
	if len(s) == 0 || s[0] != 'T' {
		return 0, fmt.Errorf("invalid ISO 8601 duration (missing T): P%s", s)
	}
	s = s[1:]

	var total time.Duration
	for _, match := range isoDurationPart.FindAllStringSubmatch(s, -1) {
		value, _ := strconv.Atoi(match[1])
		switch match[2] {
		case "H":
			total += time.Duration(value) * time.Hour
		case "M":
			total += time.Duration(value) * time.Minute
		case "S":
			total += time.Duration(value) * time.Second
		}
	}

	if total == 0 {
		return 0, fmt.Errorf("invalid ISO 8601 duration: PT%s", s)
	}

	return total, nil
}

// ParseMinutes reads a task duration typed by a user and returns whole
// minutes. Accepted forms: bare minutes ("45"), Go durations ("1h30m") and
// ISO 8601 ("PT1H30M"). Sub-minute remainders are rounded up.
func ParseMinutes(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n <= 0 {
			return 0, fmt.Errorf("duration must be positive: %s", s)
		}
		return n, nil
	}

	var d time.Duration
	var err error
	if strings.HasPrefix(strings.ToUpper(s), "P") {
		d, err = ParseDuration(strings.ToUpper(s))
	} else {
		d, err = time.ParseDuration(s)
	}
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("duration must be positive: %s", s)
	}
	minutes := int(d / time.Minute)
	if d%time.Minute != 0 {
		minutes++
	}
	return minutes, nil
}

// FormatMinutes renders minutes the way the timeline shows them ("1h30m", "45m").
func FormatMinutes(m int) string {
	if m < 60 {
		return fmt.Sprintf("%dm", m)
	}
	if m%60 == 0 {
		return fmt.Sprintf("%dh", m/60)
	}
	return fmt.Sprintf("%dh%02dm", m/60, m%60)
}
