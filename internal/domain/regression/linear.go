package regression

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultSeed         int64 = 42
	DefaultTestFraction       = 0.2

	// rankTolerance is the relative singular value cutoff for the
	// minimum-norm least squares solve.
	rankTolerance = 1e-10
)

var (
	ErrNoData      = errors.New("no rows to fit")
	ErrTooFewRows  = errors.New("not enough rows to split into train and test sets")
	ErrFactorizing = errors.New("svd factorization failed")
)

// Options controls the train/test split.
type Options struct {
	Seed         int64
	TestFraction float64
}

func DefaultOptions() Options {
	return Options{Seed: DefaultSeed, TestFraction: DefaultTestFraction}
}

// Pipeline standardizes inputs and applies a fitted linear combination.
type Pipeline struct {
	Features  []string
	Scaler    Scaler
	Weights   []float64
	Intercept float64
}

// Transform applies only the standardization step.
func (p Pipeline) Transform(x []float64) []float64 {
	return p.Scaler.Transform(x)
}

func (p Pipeline) Predict(x []float64) float64 {
	z := p.Scaler.Transform(x)
	out := p.Intercept
	for j, w := range p.Weights {
		out += w * z[j]
	}
	return out
}

// Coefficients maps each feature to its weight on the standardized scale.
func (p Pipeline) Coefficients() map[string]float64 {
	out := make(map[string]float64, len(p.Features))
	for j, name := range p.Features {
		out[name] = p.Weights[j]
	}
	return out
}

// Evaluation summarizes held-out performance. RSquared is NaN when the test
// target has no variance.
type Evaluation struct {
	Samples  int
	Accuracy float64
	RSquared float64
}

// Evaluate scores the pipeline on d, classifying predictions above 0.5 as wins.
func (p Pipeline) Evaluate(d Dataset) Evaluation {
	n := d.Len()
	if n == 0 {
		return Evaluation{Accuracy: math.NaN(), RSquared: math.NaN()}
	}
	predictions := make([]float64, n)
	correct := 0
	for i, x := range d.X {
		predictions[i] = p.Predict(x)
		class := 0.0
		if predictions[i] > 0.5 {
			class = 1
		}
		if class == d.Y[i] {
			correct++
		}
	}
	return Evaluation{
		Samples:  n,
		Accuracy: float64(correct) / float64(n),
		RSquared: stat.RSquaredFrom(predictions, d.Y, nil),
	}
}

// Result is a fitted pipeline with the split it was trained and tested on.
type Result struct {
	Pipeline Pipeline
	Train    Dataset
	Test     Dataset
}

// Split returns a deterministic permutation of row indexes divided into
// train and test parts. The test part holds ceil(fraction*n) rows.
func Split(n int, opts Options) (train, test []int, err error) {
	if n == 0 {
		return nil, nil, ErrNoData
	}
	nTest := int(math.Ceil(opts.TestFraction * float64(n)))
	if nTest < 1 {
		nTest = 1
	}
	if n-nTest < 1 {
		return nil, nil, fmt.Errorf("%w: have %d", ErrTooFewRows, n)
	}

	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // deterministic split, not security sensitive.
	perm := rng.Perm(n)
	return perm[nTest:], perm[:nTest], nil
}

// Fit splits d, standardizes on the training part and solves ordinary least
// squares for the 0/1 target. Collinear columns are resolved with the
// minimum-norm solution.
func Fit(d Dataset, opts Options) (Result, error) {
	trainIdx, testIdx, err := Split(d.Len(), opts)
	if err != nil {
		return Result{}, err
	}
	train := d.subset(trainIdx)
	test := d.subset(testIdx)
	width := len(d.Features)

	scaler := FitScaler(train.X, width)
	n := train.Len()

	yMean := stat.Mean(train.Y, nil)
	design := mat.NewDense(n, width, nil)
	target := mat.NewVecDense(n, nil)
	colMeans := make([]float64, width)
	for i, x := range train.X {
		z := scaler.Transform(x)
		for j, v := range z {
			colMeans[j] += v / float64(n)
		}
		design.SetRow(i, z)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < width; j++ {
			design.Set(i, j, design.At(i, j)-colMeans[j])
		}
		target.SetVec(i, train.Y[i]-yMean)
	}

	weights, err := minimumNormSolve(design, target)
	if err != nil {
		return Result{}, err
	}

	intercept := yMean
	for j, w := range weights {
		intercept -= colMeans[j] * w
	}

	return Result{
		Pipeline: Pipeline{
			Features:  append([]string(nil), d.Features...),
			Scaler:    scaler,
			Weights:   weights,
			Intercept: intercept,
		},
		Train: train,
		Test:  test,
	}, nil
}

func minimumNormSolve(a *mat.Dense, b *mat.VecDense) ([]float64, error) {
	_, width := a.Dims()
	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, ErrFactorizing
	}
	rank := svd.Rank(rankTolerance)
	out := make([]float64, width)
	if rank == 0 {
		return out, nil
	}

	var x mat.VecDense
	svd.SolveVecTo(&x, b, rank)
	for j := range out {
		out[j] = x.AtVec(j)
	}
	return out, nil
}
