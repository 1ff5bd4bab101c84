// Package site renders the static ranking pages.
package site

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/sourcegraph/conc/pool"
	"github.com/valyala/bytebufferpool"

	"github.com/riskibarqy/prometheus/internal/domain/league"
	"github.com/riskibarqy/prometheus/internal/domain/ranking"
	"github.com/riskibarqy/prometheus/internal/platform/logging"
	"github.com/riskibarqy/prometheus/internal/usecase"
)

const (
	cssFile    = "style.css"
	scriptFile = "filters.js"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var templates = template.Must(template.New("site").Funcs(template.FuncMap{
	"inc":      func(i int) int { return i + 1 },
	"fixed":    func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) },
	"optional": formatOptional,
}).ParseFS(templateFS, "templates/*.tmpl"))

// Ranker produces a ranking table; *usecase.RankingService satisfies it.
type Ranker interface {
	Rank(ctx context.Context, input usecase.RankInput) (ranking.Table, error)
}

type metricPage struct {
	Key         string
	Name        string
	Description string
	metric      ranking.Metric
}

var metricPages = []metricPage{
	{
		Key:         string(ranking.MetricGlory),
		Name:        ranking.MetricGlory.Title(),
		Description: "Global League Offensive Rankings Yield (GLORY): Weights gold/objectives by their importance in the meta, and calculates the best teams at securing those advantages across all regions.",
		metric:      ranking.MetricGlory,
	},
	{
		Key:         string(ranking.MetricGlorb),
		Name:        ranking.MetricGlorb.Title(),
		Description: "Global League Offensive Rankings Baseline (GLORB): Baseline for GLORY. Weights all objective/gold equally.",
		metric:      ranking.MetricGlorb,
	},
}

type Builder struct {
	ranker         Ranker
	logger         *logging.Logger
	minimumMatches int
	now            func() time.Time
}

func NewBuilder(ranker Ranker, logger *logging.Logger, minimumMatches int) *Builder {
	if logger == nil {
		logger = logging.Default()
	}
	return &Builder{
		ranker:         ranker,
		logger:         logger,
		minimumMatches: minimumMatches,
		now:            time.Now,
	}
}

// Build writes the index, one page per metric and the static assets into
// dir. It returns the written file names, sorted.
func (b *Builder) Build(ctx context.Context, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create site dir: %w", err)
	}

	p := pool.NewWithResults[string]().WithContext(ctx).WithCancelOnError()
	p.Go(func(context.Context) (string, error) {
		return b.writeIndex(dir)
	})
	for _, page := range metricPages {
		p.Go(func(ctx context.Context) (string, error) {
			return b.writeMetric(ctx, dir, page)
		})
	}
	for _, name := range []string{cssFile, scriptFile} {
		p.Go(func(context.Context) (string, error) {
			return copyStatic(dir, name)
		})
	}

	written, err := p.Wait()
	if err != nil {
		return nil, err
	}
	sort.Strings(written)
	b.logger.InfoContext(ctx, "site generated", "dir", dir, "files", written)
	return written, nil
}

func (b *Builder) writeIndex(dir string) (string, error) {
	return render(dir, "index.html", "index.html.tmpl", map[string]any{
		"CSSFile":    cssFile,
		"LastUpdate": b.now().Format("January 02, 2006"),
		"Metrics":    metricPages,
	})
}

type pageRow struct {
	TeamName    string             `json:"team_name"`
	Year        int                `json:"year"`
	League      string             `json:"league"`
	Games       int                `json:"games"`
	Score       float64            `json:"score"`
	EraScore    *float64           `json:"era_score"`
	LeagueScore *float64           `json:"league_score"`
	Features    map[string]float64 `json:"features"`
}

type pageData struct {
	Features []string  `json:"features"`
	Rows     []pageRow `json:"rows"`
}

func (b *Builder) writeMetric(ctx context.Context, dir string, page metricPage) (string, error) {
	table, err := b.ranker.Rank(ctx, usecase.RankInput{
		Metric:         string(page.metric),
		Leagues:        []string{string(league.Major)},
		MinimumMatches: b.minimumMatches,
		ZScores:        true,
		SkipEmptyYears: true,
	})
	if err != nil {
		return "", fmt.Errorf("rank %s: %w", page.Key, err)
	}

	data := pageData{Features: table.Features, Rows: make([]pageRow, 0, len(table.Rows))}
	var (
		years   []int
		leagues []string
	)
	for _, r := range table.Rows {
		data.Rows = append(data.Rows, pageRow{
			TeamName:    r.TeamName,
			Year:        r.Year,
			League:      r.League,
			Games:       r.Games,
			Score:       r.Score,
			EraScore:    r.EraScore,
			LeagueScore: r.LeagueScore,
			Features:    r.Features,
		})
		if !slices.Contains(years, r.Year) {
			years = append(years, r.Year)
		}
		if !slices.Contains(leagues, r.League) {
			leagues = append(leagues, r.League)
		}
	}
	slices.Sort(years)
	slices.Sort(leagues)

	// ConfigStd escapes <, > and & so the payload cannot close the script tag.
	payload, err := sonic.ConfigStd.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode %s rows: %w", page.Key, err)
	}

	return render(dir, page.Key+".html", "metric.html.tmpl", map[string]any{
		"CSSFile":    cssFile,
		"ScriptFile": scriptFile,
		"Metric":     page,
		"Years":      years,
		"Leagues":    leagues,
		"Features":   table.Features,
		"Rows":       table.Rows,
		"Data":       template.JS(payload),
	})
}

func render(dir, name, tmpl string, data any) (string, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := templates.ExecuteTemplate(buf, tmpl, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), buf.B, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

func copyStatic(dir, name string) (string, error) {
	content, err := staticFS.ReadFile("static/" + name)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	return name, nil
}

func formatOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}
