package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("RANKING_STAT_SOURCE", "match_glory_stats")

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRankings_PrintsTitledTable(t *testing.T) {
	code, out, errOut := runCLI(t, "rankings", "glory", "--year", "2022")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr=%s)", code, errOut)
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "GLORY Rankings (2022)" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if len(lines) != 7 {
		t.Fatalf("expected title, rule, header and 4 rows, got %d lines:\n%s", len(lines), out)
	}
	want := []string{"B", "A", "D", "C"}
	for i, team := range want {
		fields := strings.Fields(lines[3+i])
		if fields[1] != team {
			t.Fatalf("row %d: expected team %s, got %v", i, team, fields)
		}
	}
}

func TestRankings_FlagsBeforeMetricAndLimit(t *testing.T) {
	code, out, errOut := runCLI(t, "rankings", "--year=2022", "--league", "lck,lpl", "--n", "1", "glorb")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr=%s)", code, errOut)
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if lines[0] != "GLORB Rankings (LCK, LPL | 2022)" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if len(lines) != 4 {
		t.Fatalf("expected a single row, got:\n%s", out)
	}
	if fields := strings.Fields(lines[3]); fields[1] != "B" {
		t.Fatalf("expected B first, got %v", fields)
	}
}

func TestRankings_ExitCodes(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "no data", args: []string{"rankings", "glory", "--year", "2014"}, want: exitFailure},
		{name: "unknown metric", args: []string{"rankings", "elo"}, want: exitUsage},
		{name: "missing metric", args: []string{"rankings"}, want: exitUsage},
		{name: "bad year flag", args: []string{"rankings", "glory", "--year", "soon"}, want: exitUsage},
		{name: "unknown league", args: []string{"rankings", "glory", "--league", "EPL"}, want: exitUsage},
		{name: "unknown command", args: []string{"predict"}, want: exitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, _ := runCLI(t, tt.args...)
			if code != tt.want {
				t.Fatalf("expected exit %d, got %d", tt.want, code)
			}
		})
	}

	_, out, _ := runCLI(t, "rankings", "glory", "--year", "2014")
	if strings.TrimSpace(out) != noDataMessage {
		t.Fatalf("expected no data message, got %q", out)
	}
}

func TestWeights_PrintsPerYearModel(t *testing.T) {
	code, out, errOut := runCLI(t, "weights", "--year", "2022")
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d (stderr=%s)", code, errOut)
	}
	for _, want := range []string{
		"Weights 2022 (LCK, LPL, LEC, LCS)",
		"gpm",
		"intercept",
		"train rows: 3, test rows: 1",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q:\n%s", want, out)
		}
	}
}

func TestStringListAndIntList(t *testing.T) {
	var leagues stringList
	_ = leagues.Set("LCK, LPL")
	_ = leagues.Set("EU LCS")
	if got := leagues.String(); got != "LCK,LPL,EU LCS" {
		t.Fatalf("unexpected leagues %q", got)
	}

	var years intList
	if err := years.Set("2022,2023"); err != nil {
		t.Fatalf("set years: %v", err)
	}
	if err := years.Set("later"); err == nil {
		t.Fatalf("expected non-numeric year to fail")
	}
	if got := years.String(); got != "2022,2023" {
		t.Fatalf("unexpected years %q", got)
	}
}
