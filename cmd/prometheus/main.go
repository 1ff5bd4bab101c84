// Command prometheus prints GLORY and GLORB rankings and the fitted model
// weights behind them.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/prometheus/internal/app"
	"github.com/riskibarqy/prometheus/internal/config"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
	"github.com/riskibarqy/prometheus/internal/usecase"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const noDataMessage = "No data found for given criteria."

type cli struct {
	services *app.Services
	stdout   io.Writer
	stderr   io.Writer
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("prometheus", flag.ContinueOnError)
	global.SetOutput(stderr)
	verbose := global.Bool("v", false, "log at the configured APP_LOG_LEVEL instead of warn")
	global.Usage = func() { printUsage(stderr) }
	if err := global.Parse(args); err != nil {
		return exitUsage
	}
	if global.NArg() == 0 {
		printUsage(stderr)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return exitUsage
	}
	level := cfg.LogLevel
	if !*verbose && level < logging.LevelWarn {
		level = logging.LevelWarn
	}
	logger := logging.New(logging.Options{Level: level, Format: logging.FormatConsole, Output: stderr})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.Build(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(stderr, "build services: %v\n", err)
		return exitFailure
	}
	defer services.Close()

	c := &cli{services: services, stdout: stdout, stderr: stderr}
	return c.dispatch(ctx, global.Args())
}

func (c *cli) dispatch(ctx context.Context, args []string) int {
	switch args[0] {
	case "rankings":
		return c.rankings(ctx, args[1:])
	case "weights":
		return c.weights(ctx, args[1:])
	case "help", "-h", "--help":
		printUsage(c.stdout)
		return exitOK
	default:
		fmt.Fprintf(c.stderr, "unknown command %q\n", args[0])
		printUsage(c.stderr)
		return exitUsage
	}
}

// exitCode reports err and maps it to the process exit status.
func (c *cli) exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, usecase.ErrInvalidInput):
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return exitUsage
	case errors.Is(err, usecase.ErrEmptyResult):
		fmt.Fprintln(c.stdout, noDataMessage)
		return exitFailure
	default:
		fmt.Fprintf(c.stderr, "error: %v\n", err)
		return exitFailure
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: prometheus [-v] <command> [flags]")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  rankings <glory|glorb> [--league L]... [--year Y]... [--n 10] [--min-matches 0]")
	fmt.Fprintln(w, "           [--zscores] [--sort-by score] [--no-rescale] [--baseline] [--skip-empty-years]")
	fmt.Fprintln(w, "  weights [--year Y]... [--league L]...")
}
