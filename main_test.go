package main

import (
	"context"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/matryer/is"
	"github.com/rs/zerolog"

	"github.com/harrisonrobin/timecoach/pkg/config"
)

func testApp() *app {
	return &app{cfg: config.Default(), log: zerolog.Nop()}
}

func TestCommandsMatchUsage(t *testing.T) {
	is := is.New(t)
	var listed []string
	for _, line := range strings.Split(usage, "\n") {
		if !strings.HasPrefix(line, "  ") {
			continue
		}
		name := strings.Fields(line)[0]
		listed = append(listed, name)
		_, ok := commands[name]
		is.True(ok) // usage names a command that has no handler
	}
	is.Equal(len(listed), len(commands))
}

func TestCommandFlags(t *testing.T) {
	for name, args := range map[string][]string{
		"add":      {"-h"},
		"list":     {"-h"},
		"edit":     {"abc", "-h"},
		"schedule": {"-h"},
		"import":   {"-h"},
		"config":   {"-h"},
	} {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			err := commands[name](context.Background(), testApp(), args)
			is.True(errors.Is(err, flag.ErrHelp))
		})
	}
}

func TestSplitRef(t *testing.T) {
	is := is.New(t)
	ref, rest, err := splitRef([]string{"1a2b", "-title", "x"})
	is.NoErr(err)
	is.Equal(ref, "1a2b")
	is.Equal(rest, []string{"-title", "x"})

	_, _, err = splitRef(nil)
	is.True(err != nil)
	_, _, err = splitRef([]string{"-title", "x"})
	is.True(err != nil)
}

func TestTaskMinutes(t *testing.T) {
	for in, want := range map[string]int{
		"15":      15,
		"1h30m":   90,
		"PT3H":    180,
		"45m":     45,
		"PT1H15M": 75,
	} {
		t.Run(in, func(t *testing.T) {
			is := is.New(t)
			got, err := taskMinutes(in)
			is.NoErr(err)
			is.Equal(got, want)
		})
	}
	for _, in := range []string{"10", "181", "4h", "soon"} {
		t.Run("rejects "+in, func(t *testing.T) {
			is := is.New(t)
			_, err := taskMinutes(in)
			is.True(err != nil)
		})
	}
}

func TestImportRejectsDefaultDurationOutOfRange(t *testing.T) {
	is := is.New(t)
	err := cmdImport(context.Background(), testApp(), []string{"-duration", "5"})
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "between 15 and 180"))
}
