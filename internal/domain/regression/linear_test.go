package regression

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/riskibarqy/prometheus/internal/domain/match"
)

func linearDataset(n int) Dataset {
	d := Dataset{Features: []string{"x"}}
	for i := 1; i <= n; i++ {
		x := float64(i)
		d.X = append(d.X, []float64{x})
		d.Y = append(d.Y, 2+3*x)
	}
	return d
}

func TestSplitSizesAndCoverage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		n, wantTest int
	}{
		{n: 2, wantTest: 1},
		{n: 4, wantTest: 1},
		{n: 10, wantTest: 2},
		{n: 11, wantTest: 3},
	}
	for _, tc := range tests {
		train, test, err := Split(tc.n, DefaultOptions())
		if err != nil {
			t.Fatalf("split %d: %v", tc.n, err)
		}
		if len(test) != tc.wantTest || len(train) != tc.n-tc.wantTest {
			t.Fatalf("split %d: train=%d test=%d", tc.n, len(train), len(test))
		}
		all := append(append([]int(nil), train...), test...)
		slices.Sort(all)
		for i, v := range all {
			if v != i {
				t.Fatalf("split %d does not cover every row: %v", tc.n, all)
			}
		}
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	t.Parallel()

	trainA, testA, _ := Split(50, DefaultOptions())
	trainB, testB, _ := Split(50, DefaultOptions())
	if !slices.Equal(trainA, trainB) || !slices.Equal(testA, testB) {
		t.Fatalf("expected identical splits for identical seed")
	}
}

func TestSplitErrors(t *testing.T) {
	t.Parallel()

	if _, _, err := Split(0, DefaultOptions()); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
	if _, _, err := Split(1, DefaultOptions()); !errors.Is(err, ErrTooFewRows) {
		t.Fatalf("expected ErrTooFewRows, got %v", err)
	}
}

func TestFitRecoversLinearRelation(t *testing.T) {
	t.Parallel()

	result, err := Fit(linearDataset(20), DefaultOptions())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if result.Train.Len() != 16 || result.Test.Len() != 4 {
		t.Fatalf("unexpected split sizes: train=%d test=%d", result.Train.Len(), result.Test.Len())
	}
	for _, x := range []float64{0, 7.5, 40} {
		got := result.Pipeline.Predict([]float64{x})
		if math.Abs(got-(2+3*x)) > 1e-8 {
			t.Fatalf("Predict(%v)=%v, want %v", x, got, 2+3*x)
		}
	}
}

func TestFitIsDeterministic(t *testing.T) {
	t.Parallel()

	d := Dataset{Features: []string{"a", "b"}}
	for i := 0; i < 30; i++ {
		a := float64(i%7) + 0.1*float64(i)
		b := float64((i*5)%11) - 3
		y := 0.0
		if a > b {
			y = 1
		}
		d.X = append(d.X, []float64{a, b})
		d.Y = append(d.Y, y)
	}

	first, err := Fit(d, DefaultOptions())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	second, err := Fit(d, DefaultOptions())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !slices.Equal(first.Pipeline.Weights, second.Pipeline.Weights) || first.Pipeline.Intercept != second.Pipeline.Intercept {
		t.Fatalf("expected identical fits, got %+v and %+v", first.Pipeline, second.Pipeline)
	}
}

func TestFitHandlesCollinearFeatures(t *testing.T) {
	t.Parallel()

	d := Dataset{Features: []string{"gpm", "double_gpm"}}
	for i := 1; i <= 10; i++ {
		x := float64(i * 10)
		y := 0.0
		if i > 5 {
			y = 1
		}
		d.X = append(d.X, []float64{x, 2 * x})
		d.Y = append(d.Y, y)
	}

	result, err := Fit(d, DefaultOptions())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}
	w := result.Pipeline.Weights
	if math.Abs(w[0]-w[1]) > 1e-8 {
		t.Fatalf("expected minimum-norm solution to share weight, got %v", w)
	}
	if w[0] <= 0 {
		t.Fatalf("expected positive weight for a feature that tracks wins, got %v", w)
	}
	if result.Pipeline.Predict([]float64{100, 200}) <= result.Pipeline.Predict([]float64{10, 20}) {
		t.Fatalf("expected higher values to predict higher win probability")
	}
}

func TestFitEmptyDataset(t *testing.T) {
	t.Parallel()

	if _, err := Fit(Dataset{Features: []string{"x"}}, DefaultOptions()); !errors.Is(err, ErrNoData) {
		t.Fatalf("expected ErrNoData, got %v", err)
	}
}

func TestScalerConstantColumn(t *testing.T) {
	t.Parallel()

	s := FitScaler([][]float64{{5, 1}, {5, 3}}, 2)
	if s.Scale[0] != 1 {
		t.Fatalf("expected constant column scale 1, got %v", s.Scale[0])
	}
	if s.Mean[1] != 2 || s.Scale[1] != 1 {
		t.Fatalf("unexpected scaler for second column: mean=%v scale=%v", s.Mean[1], s.Scale[1])
	}
	z := s.Transform([]float64{5, 3})
	if z[0] != 0 || z[1] != 1 {
		t.Fatalf("unexpected transform: %v", z)
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	p := Pipeline{
		Features:  []string{"x"},
		Scaler:    Scaler{Mean: []float64{0}, Scale: []float64{1}},
		Weights:   []float64{1},
		Intercept: 0,
	}
	eval := p.Evaluate(Dataset{
		Features: []string{"x"},
		X:        [][]float64{{0.9}, {0.1}, {0.8}, {0.7}},
		Y:        []float64{1, 0, 0, 1},
	})
	if eval.Samples != 4 {
		t.Fatalf("unexpected samples: %d", eval.Samples)
	}
	if eval.Accuracy != 0.75 {
		t.Fatalf("unexpected accuracy: %v", eval.Accuracy)
	}
}

func TestNewDatasetSkipsNonFinite(t *testing.T) {
	t.Parallel()

	rows := []match.StatRow{
		{GameID: "g1", Result: 1, Features: map[string]float64{"gpm": 1}},
		{GameID: "g2", Result: 0, Features: map[string]float64{"gpm": math.NaN()}},
		{GameID: "g3", Result: 0, Features: map[string]float64{}},
	}
	d := NewDataset(rows, []string{"gpm"})
	if d.Len() != 1 || d.Y[0] != 1 {
		t.Fatalf("expected only the finite row, got %+v", d)
	}
}

func columnMeanStd(x [][]float64, j int) (float64, float64) {
	mean := 0.0
	for _, row := range x {
		mean += row[j]
	}
	mean /= float64(len(x))
	variance := 0.0
	for _, row := range x {
		variance += (row[j] - mean) * (row[j] - mean)
	}
	return mean, math.Sqrt(variance / float64(len(x)))
}

func TestFitScalesWithTrainingStatisticsOnly(t *testing.T) {
	t.Parallel()

	d := Dataset{Features: []string{"cube", "linear"}}
	for i := 0; i < 10; i++ {
		x := float64(i)
		d.X = append(d.X, []float64{x * x * x, x})
		d.Y = append(d.Y, float64(i%2))
	}

	result, err := Fit(d, DefaultOptions())
	if err != nil {
		t.Fatalf("fit: %v", err)
	}

	scaler := result.Pipeline.Scaler
	for j := range d.Features {
		mean, std := columnMeanStd(result.Train.X, j)
		if math.Abs(scaler.Mean[j]-mean) > 1e-9 || math.Abs(scaler.Scale[j]-std) > 1e-9 {
			t.Fatalf("column %d: scaler=(%v, %v) want training (%v, %v)", j, scaler.Mean[j], scaler.Scale[j], mean, std)
		}
	}

	allMean, allStd := columnMeanStd(d.X, 0)
	if math.Abs(scaler.Mean[0]-allMean) < 1e-6 && math.Abs(scaler.Scale[0]-allStd) < 1e-6 {
		t.Fatalf("scaler matches full-dataset statistics (%v, %v); held-out rows leaked", allMean, allStd)
	}
}
