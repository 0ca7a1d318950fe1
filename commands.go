package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harrisonrobin/timecoach/pkg/auth"
	"github.com/harrisonrobin/timecoach/pkg/busy"
	"github.com/harrisonrobin/timecoach/pkg/config"
	"github.com/harrisonrobin/timecoach/pkg/google"
	"github.com/harrisonrobin/timecoach/pkg/logx"
	"github.com/harrisonrobin/timecoach/pkg/render"
	"github.com/harrisonrobin/timecoach/pkg/schedule"
	"github.com/harrisonrobin/timecoach/pkg/stats"
	"github.com/harrisonrobin/timecoach/pkg/store"
	"github.com/harrisonrobin/timecoach/pkg/tasklist"
	"github.com/harrisonrobin/timecoach/pkg/taskwarrior"
	"github.com/harrisonrobin/timecoach/pkg/util"
)

// Bounds of the duration accepted from the command line, in minutes.
const (
	minTaskMinutes = 15
	maxTaskMinutes = 180
)

// withTasks loads the task snapshot, hands it to fn and saves it back when fn
// reports a change.
func (a *app) withTasks(ctx context.Context, fn func(l *tasklist.List) (bool, error)) error {
	path, err := a.cfg.StorePath()
	if err != nil {
		return err
	}
	st, err := store.Open(a.cfg.Store.Driver, path, a.log)
	if err != nil {
		return err
	}
	defer st.Close()

	tasks, err := st.Load(ctx)
	if err != nil {
		return err
	}
	l := tasklist.New(tasks)
	changed, err := fn(l)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return st.Save(ctx, l.Tasks)
}

func taskMinutes(s string) (int, error) {
	m, err := util.ParseMinutes(s)
	if err != nil {
		return 0, err
	}
	if m < minTaskMinutes || m > maxTaskMinutes {
		return 0, fmt.Errorf("duration must be between %d and %d minutes, got %d", minTaskMinutes, maxTaskMinutes, m)
	}
	return m, nil
}

// splitRef takes the leading task id off args so flags may follow it.
func splitRef(args []string) (string, []string, error) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", nil, errors.New("missing task id")
	}
	return args[0], args[1:], nil
}

func cmdAdd(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	priority := fs.Int("priority", 2, "priority: 1 (high), 2 (medium) or 3 (low)")
	duration := fs.String("duration", "30", "duration in minutes, or like 1h30m or PT45M")
	category := fs.String("category", "", "Work, Personal, Health, Learning or Other")
	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.Join(fs.Args(), " ")

	minutes, err := taskMinutes(*duration)
	if err != nil {
		return err
	}
	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		t, err := l.Add(title, *priority, minutes, *category)
		if err != nil {
			return false, err
		}
		a.log.Info().Str("id", t.ID).Str("title", t.Title).Msg("task added")
		fmt.Print(render.TaskLine(t), "\n")
		return true, nil
	})
}

func cmdList(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	pending := fs.Bool("pending", false, "hide completed tasks")
	if err := fs.Parse(args); err != nil {
		return err
	}
	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		tasks := l.Tasks
		if *pending {
			tasks = l.Prioritized()
		}
		fmt.Print(render.TaskList(tasks))
		return false, nil
	})
}

func cmdEdit(ctx context.Context, a *app, args []string) error {
	ref, rest, err := splitRef(args)
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	title := fs.String("title", "", "new title")
	priority := fs.Int("priority", 0, "new priority")
	duration := fs.String("duration", "", "new duration")
	category := fs.String("category", "", "new category")
	if err := fs.Parse(rest); err != nil {
		return err
	}

	var e tasklist.Edit
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			e.Title = title
		case "priority":
			e.Priority = priority
		case "category":
			e.Category = category
		case "duration":
			m, err := taskMinutes(*duration)
			if err != nil {
				parseErr = err
				return
			}
			e.Duration = &m
		}
	})
	if parseErr != nil {
		return parseErr
	}

	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		t, err := l.Update(ref, e)
		if err != nil {
			return false, err
		}
		fmt.Print(render.TaskLine(t), "\n")
		return true, nil
	})
}

func cmdDone(ctx context.Context, a *app, args []string) error {
	ref, _, err := splitRef(args)
	if err != nil {
		return err
	}
	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		t, err := l.ToggleCompleted(ref)
		if err != nil {
			return false, err
		}
		fmt.Print(render.TaskLine(t), "\n")
		return true, nil
	})
}

func cmdRemove(ctx context.Context, a *app, args []string) error {
	ref, _, err := splitRef(args)
	if err != nil {
		return err
	}
	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		t, err := l.Delete(ref)
		if err != nil {
			return false, err
		}
		a.log.Info().Str("id", t.ID).Str("title", t.Title).Msg("task deleted")
		return true, nil
	})
}

func cmdClear(ctx context.Context, a *app, args []string) error {
	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		n := l.Clear()
		a.log.Info().Int("count", n).Msg("tasks cleared")
		return n > 0, nil
	})
}

func cmdSchedule(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("schedule", flag.ContinueOnError)
	calendarName := fs.String("calendar", "", "Google Calendar name to read (overrides config)")
	busyFile := fs.String("busy", "", "read busy intervals from a JSON file instead of Google Calendar")
	buffer := fs.Int("buffer", 0, "minutes kept free after each task (overrides config)")
	date := fs.String("date", "", "day to schedule as YYYY-MM-DD (default today)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := *a.cfg
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "calendar":
			cfg.Calendar = *calendarName
		case "buffer":
			cfg.BufferMinutes = buffer
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	now := time.Now()
	if *date != "" {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		if now, err = time.ParseInLocation(time.DateOnly, *date, loc); err != nil {
			return fmt.Errorf("invalid date %q: %w", *date, err)
		}
	}
	dayStart, dayEnd, err := cfg.Window(now)
	if err != nil {
		return err
	}

	var src busy.Source
	if *busyFile != "" {
		src = busy.NewFileSource(*busyFile)
	} else {
		authn, err := auth.New(a.log)
		if err != nil {
			return err
		}
		client, err := google.NewClient(ctx, authn, cfg.Calendar, a.log)
		if err != nil {
			return fmt.Errorf("%w: %w", busy.ErrFetchFailed, err)
		}
		src = client
	}

	start := time.Now()
	batch, err := busy.Fetch(ctx, src, dayStart, dayEnd)
	if err != nil {
		return err
	}
	if batch.Skipped > 0 {
		a.log.Warn().Int("skipped", batch.Skipped).Msg("ignored calendar entries without start or end time")
	}

	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		req := schedule.Request{
			Tasks:    l.Tasks,
			DayStart: dayStart,
			DayEnd:   dayEnd,
			Busy:     batch.Intervals,
			Buffer:   cfg.Buffer(),
		}
		res, err := req.Run()
		if errors.Is(err, schedule.ErrNoFreeTime) {
			fmt.Println("No free time left between", dayStart.Format("15:04"), "and", dayEnd.Format("15:04"))
			return false, nil
		}
		if err != nil {
			return false, err
		}
		a.log.Debug().
			Int("busy", len(batch.Intervals)).
			Int("free", len(res.Free)).
			Int("scheduled", res.Scheduled).
			Dur("took", logx.Took(start)).
			Msg("schedule computed")

		fmt.Print(render.Timeline(l.Timeline()))
		fmt.Print(render.Report(res, batch.Skipped))
		return res.Scheduled > 0, nil
	})
}

func cmdTimeline(ctx context.Context, a *app, args []string) error {
	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		fmt.Print(render.Timeline(l.Timeline()))
		return false, nil
	})
}

func cmdStats(ctx context.Context, a *app, args []string) error {
	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		fmt.Print(render.Stats(stats.Compute(l.Tasks)))
		return false, nil
	})
}

func cmdConfig(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	calendarName := fs.String("calendar", "", "default Google Calendar name")
	timezone := fs.String("timezone", "", "IANA timezone of the working day")
	dayStart := fs.Int("start", 0, "hour the working day starts (5-12)")
	dayEnd := fs.Int("end", 0, "hour the working day ends (16-23)")
	buffer := fs.Int("buffer", 0, "minutes kept free after each task (0-30)")
	driver := fs.String("store", "", "task store driver: json or sqlite")
	storePath := fs.String("store-path", "", "task store location")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg := a.cfg
	changed := false
	fs.Visit(func(f *flag.Flag) {
		changed = true
		switch f.Name {
		case "calendar":
			cfg.Calendar = *calendarName
		case "timezone":
			cfg.Timezone = *timezone
		case "start":
			cfg.DayStartHour = *dayStart
		case "end":
			cfg.DayEndHour = *dayEnd
		case "buffer":
			cfg.BufferMinutes = buffer
		case "store":
			cfg.Store.Driver = *driver
		case "store-path":
			cfg.Store.Path = *storePath
		}
	})

	if changed {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		a.log.Info().Msg("config saved")
	}

	path, err := config.GetConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "config:   %s\n", path)
	fmt.Fprintf(os.Stdout, "calendar: %s\n", cfg.Calendar)
	fmt.Fprintf(os.Stdout, "timezone: %s\n", cfg.Timezone)
	fmt.Fprintf(os.Stdout, "day:      %02d:00-%02d:00\n", cfg.DayStartHour, cfg.DayEndHour)
	fmt.Fprintf(os.Stdout, "buffer:   %s\n", util.FormatMinutes(int(cfg.Buffer().Minutes())))
	fmt.Fprintf(os.Stdout, "store:    %s\n", cfg.Store.Driver)
	return nil
}

func cmdImport(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	stdin := fs.Bool("stdin", false, "read 'task export' JSON from stdin instead of running task")
	duration := fs.Int("duration", 30, "minutes for tasks without an estimate")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *duration < minTaskMinutes || *duration > maxTaskMinutes {
		return fmt.Errorf("duration must be between %d and %d minutes, got %d", minTaskMinutes, maxTaskMinutes, *duration)
	}

	client := taskwarrior.NewClient()
	var (
		twTasks []taskwarrior.Task
		err     error
	)
	if *stdin {
		twTasks, err = client.ParseTasks(os.Stdin)
	} else {
		filter := append([]string{"status:pending"}, fs.Args()...)
		twTasks, err = client.Export(ctx, filter)
	}
	if err != nil {
		return err
	}
	drafts, skipped := taskwarrior.ToDrafts(twTasks, *duration)

	return a.withTasks(ctx, func(l *tasklist.List) (bool, error) {
		added := 0
		for _, d := range drafts {
			if l.HasOpen(d.Title) {
				skipped++
				continue
			}
			if _, err := l.Add(d.Title, d.Priority, d.Duration, string(d.Category)); err != nil {
				a.log.Warn().Err(err).Str("title", d.Title).Msg("could not import task")
				skipped++
				continue
			}
			added++
		}
		a.log.Info().Int("added", added).Int("skipped", skipped).Msg("taskwarrior import finished")
		return added > 0, nil
	})
}

func cmdAuth(ctx context.Context, a *app, args []string) error {
	authn, err := auth.New(a.log)
	if err != nil {
		return fmt.Errorf("could not find path to configuration file: %w", err)
	}
	if err := authn.Reset(); err != nil {
		return err
	}
	if _, err := authn.CalendarService(ctx); err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	a.log.Info().Str("token", authn.TokenPath()).Msg("authentication successful")
	return nil
}
