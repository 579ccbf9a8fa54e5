package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"

	"github.com/PiranhaCodes/ptygen/internal/config"
	"github.com/PiranhaCodes/ptygen/internal/logger"
	"github.com/PiranhaCodes/ptygen/internal/pty"
)

// Options are the command line flags. None are required; a bare invocation
// allocates a pair, prints its path and spins.
type Options struct {
	Config string `long:"config" description:"Path to configuration file (default: ~/.ptygen/config.yml)"`
	Hold   string `long:"hold" choice:"spin" choice:"block" description:"How to hold the pair after printing its path (overrides config)"`
	Debug  bool   `long:"debug" description:"Emit debug logs to stderr"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, nil))
}

// run executes ptygen and returns the process exit status. stdout receives
// only the slave path; everything else goes to stderr.
func run(args []string, stdout, stderr io.Writer, opener pty.Opener) int {
	var opts Options

	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			fmt.Fprintln(stderr, err)
			return 0
		}
		fmt.Fprintln(stderr, err)
		return 2
	}
	if len(rest) > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", rest)
		return 2
	}

	// An explicit --config must load; the default file is advisory.
	cfgPath, explicit := opts.Config, opts.Config != ""
	if !explicit {
		cfgPath = config.DefaultPath
	}

	cfg, found, err := config.Load(cfgPath)
	if err != nil && !explicit {
		logger.New(stderr, opts.Debug, "[PTY] ").Errorf("Warning: ignoring %s: %v", cfgPath, err)
		cfg, found, err = config.Default(), false, nil
	}

	log := logger.New(stderr, opts.Debug || cfg.Debug, "[PTY] ")
	if err != nil {
		log.Errorf("Failed to load config: %v", err)
		return 1
	}
	if found {
		log.Debugf("Loaded config from %s", cfgPath)
	} else {
		log.Debugf("Config file not found at %s, using defaults", cfgPath)
	}

	if opts.Hold != "" {
		cfg.Hold = opts.Hold
	}
	mode := pty.HoldMode(cfg.Hold)

	ctx := context.Background()
	if mode == pty.HoldBlock {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
		defer stop()
	}

	announcer := &pty.Announcer{
		Opener: opener,
		Hold:   mode,
		Out:    stdout,
		Logger: log,
	}

	if err := announcer.Run(ctx); err != nil {
		log.Errorln(err.Error())
		return 1
	}

	return 0
}
