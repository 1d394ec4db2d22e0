package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/Makepad-fr/lister/internal/cli"
	"github.com/Makepad-fr/lister/internal/config"
	"github.com/Makepad-fr/lister/internal/logging"
	"github.com/Makepad-fr/lister/internal/ui"
)

func main() {
	// Root flags (apply to every subcommand)
	fs := flag.NewFlagSet("lister", flag.ContinueOnError)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	cfg, err := config.Load(fs, os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		ui.Fail(os.Stderr, err.Error())
		os.Exit(2)
	}

	ui.SetTheme(cfg.Theme)
	if cfg.NoColor {
		ui.DisableColor()
	}

	// Hand the remaining args to the CLI runner.
	args := fs.Args()
	if len(args) == 0 {
		cli.PrintHelp(os.Stderr)
		os.Exit(2)
	}

	interactive := args[0] == "tui"
	logger, closeLog, err := logging.Open(cfg.LogLevel, cfg.LogFormat, cfg.LogFile, interactive)
	if err != nil {
		ui.Fail(os.Stderr, err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Run(ctx, args, cli.Options{
		Group:  cfg.Group,
		Key:    cfg.Key,
		Store:  cfg.StoreOptions(),
		Logger: logger,
	})
	stop()
	if err := closeLog(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(code)
}
