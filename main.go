package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/harrisonrobin/timecoach/pkg/config"
	"github.com/harrisonrobin/timecoach/pkg/logx"
)

const usage = `Usage: timecoach <command> [flags] [args]

Commands:
  add       add a task: add [-priority N] [-duration D] [-category C] <title>
  list      list tasks
  edit      edit a task: edit <id> [-title T] [-priority N] [-duration D] [-category C]
  done      toggle a task's completed flag: done <id>
  rm        delete a task: rm <id>
  clear     delete every task
  schedule  fit unscheduled tasks into today's free time
  timeline  show today's scheduled tasks
  stats     show productivity statistics
  import    import pending Taskwarrior tasks: import [-stdin] [filter...]
  config    show or change settings
  auth      (re)authenticate with Google Calendar
`

// app carries what every command needs.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"add":      cmdAdd,
	"list":     cmdList,
	"edit":     cmdEdit,
	"done":     cmdDone,
	"rm":       cmdRemove,
	"clear":    cmdClear,
	"schedule": cmdSchedule,
	"timeline": cmdTimeline,
	"stats":    cmdStats,
	"import":   cmdImport,
	"config":   cmdConfig,
	"auth":     cmdAuth,
}

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	// Config errors are reported with a default logger; `config` itself
	// must still run so a broken file can be fixed.
	cfg, err := config.Load()
	log := logx.New(logx.Config{}, os.Stderr)
	if err == nil {
		log = logx.New(cfg.Log, os.Stderr)
	} else if flag.Arg(0) != "config" {
		log.Fatal().Err(err).Msg("could not load config")
	} else {
		log.Warn().Err(err).Msg("config is invalid, starting from defaults")
		cfg = config.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, log: log}
	if err := cmd(ctx, a, flag.Args()[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		stop()
		log.Fatal().Err(err).Str("command", flag.Arg(0)).Msg("command failed")
	}
}
