// Command ingest loads Oracle's Elixir match exports into storage.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/riskibarqy/prometheus/external/oracleselixir"
	"github.com/riskibarqy/prometheus/internal/app"
	"github.com/riskibarqy/prometheus/internal/config"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
	"github.com/riskibarqy/prometheus/internal/usecase"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "usage: %s <file.csv|dir>...\n", filepath.Base(os.Args[0]))
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := logging.New(logging.Options{Level: cfg.LogLevel, Format: logging.FormatConsole, Output: os.Stderr})
	defer func() { _ = logger.Sync() }()

	sources, err := expandSources(os.Args[1:])
	if err != nil {
		logger.Error("resolve sources", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	services, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("build services", "error", err)
		os.Exit(1)
	}
	defer services.Close()

	ingestion := usecase.NewIngestionService(oracleselixir.NewReader(), services.Writer, logger, cfg.IngestWorkers)
	result, err := ingestion.Ingest(ctx, usecase.IngestInput{Sources: sources})
	if err != nil {
		logger.Error("ingest matches", "error", err)
		os.Exit(1)
	}

	for _, src := range result.Sources {
		logger.Info("source ingested",
			"source", src.Name,
			"read", src.Read,
			"skipped", src.Skipped,
			"rejected", src.Rejected,
			"duplicates", src.Duplicates,
			"written", src.Written,
		)
	}
	logger.Info("ingestion finished", "sources", len(result.Sources), "written", result.Written)
}

// expandSources replaces each directory argument with the .csv files it
// directly contains. Other files in a directory are ignored.
func expandSources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("read dir %s: %w", arg, err)
		}
		var files []string
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
				continue
			}
			files = append(files, filepath.Join(arg, entry.Name()))
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no csv files found in %v", args)
	}
	return out, nil
}
