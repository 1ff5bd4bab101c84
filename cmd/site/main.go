// Command site writes the static GLORY and GLORB pages.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/prometheus/internal/app"
	"github.com/riskibarqy/prometheus/internal/config"
	"github.com/riskibarqy/prometheus/internal/interfaces/site"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	out := flag.String("out", cfg.SiteOutputDir, "output directory")
	minMatches := flag.Int("min-matches", cfg.SiteMinMatches, "minimum games per team-season")
	flag.Parse()

	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: logging.FormatConsole, Output: os.Stderr})
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	written, err := site.NewBuilder(services.Rankings, logger, *minMatches).Build(ctx, *out)
	if err != nil {
		logger.Error("build site", "error", err)
		os.Exit(1)
	}
	logger.Info("static site generated", "dir", *out, "files", len(written))
}
