package regression

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// zeroScale is the deviation below which a column is treated as constant.
const zeroScale = 10 * 2.220446049250313e-16

// Scaler standardizes columns with statistics learned from a training set.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler learns per-column mean and population standard deviation.
// Constant columns get a scale of 1 so they transform to zero.
func FitScaler(x [][]float64, width int) Scaler {
	s := Scaler{Mean: make([]float64, width), Scale: make([]float64, width)}
	col := make([]float64, len(x))
	for j := 0; j < width; j++ {
		for i := range x {
			col[i] = x[i][j]
		}
		s.Mean[j], s.Scale[j] = popMeanStd(col)
		if s.Scale[j] < zeroScale || math.IsNaN(s.Scale[j]) {
			s.Scale[j] = 1
		}
	}
	return s
}

func popMeanStd(col []float64) (float64, float64) {
	n := len(col)
	if n == 0 {
		return 0, 1
	}
	if n == 1 {
		return col[0], 0
	}
	mean, variance := stat.MeanVariance(col, nil)
	return mean, math.Sqrt(variance * float64(n-1) / float64(n))
}

func (s Scaler) Transform(x []float64) []float64 {
	out := make([]float64, len(x))
	for j := range x {
		out[j] = (x[j] - s.Mean[j]) / s.Scale[j]
	}
	return out
}
