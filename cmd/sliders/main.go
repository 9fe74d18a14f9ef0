package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/idilsaglam/sliders/internal/cli"
	"github.com/idilsaglam/sliders/internal/config"
	"github.com/idilsaglam/sliders/internal/logging"
	"github.com/idilsaglam/sliders/internal/store/jsonstore"
	"github.com/idilsaglam/sliders/internal/ui"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		ui.Fail(err.Error())
		return 2
	}

	// Root flags (apply to every subcommand); they win over the environment.
	fs := pflag.NewFlagSet("sliders", pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.Usage = func() { cli.PrintHelp(os.Stderr) }
	maxFlag := fs.String("max", cfg.Max.String(), "upper bound for the total")
	minFlag := fs.String("min", cfg.Min.String(), "lower bound for the total")
	stepFlag := fs.String("step", cfg.Step.String(), "slider increment")
	fs.StringVar(&cfg.Store, "store", cfg.Store, "storage backend (json|sqlite)")
	fs.StringVar(&cfg.DataPath, "data", cfg.DataPath, "data file path")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "color theme (classic|neon|mono)")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write JSON logs to this file")
	group := fs.Bool("group", false, "group output by allocated/unallocated")
	forceColor := fs.Bool("color", false, "force ANSI colors")
	noColor := fs.Bool("no-color", false, "disable ANSI colors")
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.Decimal
	}{
		{"max", *maxFlag, &cfg.Max},
		{"min", *minFlag, &cfg.Min},
		{"step", *stepFlag, &cfg.Step},
	} {
		v, err := decimal.NewFromString(f.raw)
		if err != nil {
			ui.Fail(fmt.Sprintf("--%s: not a number: %s", f.name, f.raw))
			return 2
		}
		*f.dst = v
	}
	if err := cfg.Validate(); err != nil {
		ui.Fail(err.Error())
		return 2
	}

	if *forceColor || *noColor {
		ui.SetColorForcing(*forceColor, *noColor)
	}
	ui.SetTheme(cfg.Theme)

	logger, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		ui.Fail(err.Error())
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	args := fs.Args()
	logger.Debug("start", zap.Strings("args", args), zap.String("store", cfg.Store))

	code := cli.Run(ctx, args, cli.Options{
		Config:     cfg,
		Group:      *group,
		Logger:     logger,
		HTTPClient: jsonstore.BearerClient(&http.Client{Timeout: 15 * time.Second}, cfg.Token),
	})
	if code != 0 {
		fmt.Fprintln(os.Stderr)
	}
	return code
}
