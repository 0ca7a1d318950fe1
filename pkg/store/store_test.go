package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/harrisonrobin/timecoach/pkg/model"
)

func sampleTasks() []model.Task {
	created := time.Date(2024, 3, 4, 7, 0, 0, 0, time.UTC)
	start := time.Date(2024, 3, 4, 9, 0, 0, 0, time.FixedZone("EST", -5*3600))
	end := start.Add(35 * time.Minute)
	return []model.Task{
		{ID: "b-second", Title: "Gym", Priority: 2, Duration: 45, Category: model.CategoryHealth, CreatedAt: created},
		{
			ID: "a-first", Title: "Write report", Priority: 1, Duration: 30, Category: model.CategoryWork,
			Scheduled: true, StartTime: &start, EndTime: &end, Completed: true, CreatedAt: created,
		},
	}
}

func openStores(t *testing.T) map[string]Store {
	t.Helper()
	dir := t.TempDir()
	stores := map[string]Store{}
	for _, driver := range []string{"json", "sqlite"} {
		s, err := Open(driver, filepath.Join(dir, "sub", "tasks."+driver), zerolog.Nop())
		if err != nil {
			t.Fatalf("Open(%s): %v", driver, err)
		}
		t.Cleanup(func() { s.Close() })
		stores[driver] = s
	}
	return stores
}

func TestStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	for driver, s := range openStores(t) {
		t.Run(driver, func(t *testing.T) {
			is := is.New(t)

			empty, err := s.Load(ctx)
			is.NoErr(err)
			is.Equal(len(empty), 0)

			want := sampleTasks()
			is.NoErr(s.Save(ctx, want))

			got, err := s.Load(ctx)
			is.NoErr(err)
			is.Equal(len(got), 2)
			is.Equal(got[0].ID, "b-second") // order preserved
			is.Equal(got[0].Category, model.CategoryHealth)
			is.True(got[0].StartTime == nil)
			is.True(!got[0].Scheduled)

			is.Equal(got[1].Title, "Write report")
			is.True(got[1].Scheduled)
			is.True(got[1].Completed)
			is.True(got[1].StartTime.Equal(*want[1].StartTime))
			is.True(got[1].EndTime.Equal(*want[1].EndTime))
			is.True(got[1].CreatedAt.Equal(want[1].CreatedAt))
		})
	}
}

func TestStore_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	for driver, s := range openStores(t) {
		t.Run(driver, func(t *testing.T) {
			is := is.New(t)
			is.NoErr(s.Save(ctx, sampleTasks()))
			is.NoErr(s.Save(ctx, sampleTasks()[:1]))
			got, err := s.Load(ctx)
			is.NoErr(err)
			is.Equal(len(got), 1)

			is.NoErr(s.Save(ctx, nil))
			got, err = s.Load(ctx)
			is.NoErr(err)
			is.Equal(len(got), 0)
		})
	}
}

func TestJSONStore_FieldNames(t *testing.T) {
	is := is.New(t)
	path := filepath.Join(t.TempDir(), "tasks.json")
	s := NewJSONStore(path, zerolog.Nop())
	is.NoErr(s.Save(context.Background(), sampleTasks()))

	b, err := os.ReadFile(path)
	is.NoErr(err)
	body := string(b)
	is.True(strings.HasPrefix(body, "["))
	for _, field := range []string{`"title"`, `"priority"`, `"duration"`, `"category"`, `"scheduled"`, `"start_time": null`, `"end_time"`, `"completed"`} {
		is.True(strings.Contains(body, field)) // missing field in task file
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	is := is.New(t)
	_, err := Open("mongo", "x", zerolog.Nop())
	is.True(err != nil)
}
