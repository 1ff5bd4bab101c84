package regression

import "github.com/riskibarqy/prometheus/internal/domain/match"

// Dataset is a design matrix with a binary target, one row per team-game.
type Dataset struct {
	Features []string
	X        [][]float64
	Y        []float64
}

// NewDataset keeps rows whose requested features are all finite, in input order.
func NewDataset(rows []match.StatRow, features []string) Dataset {
	out := Dataset{
		Features: append([]string(nil), features...),
		X:        make([][]float64, 0, len(rows)),
		Y:        make([]float64, 0, len(rows)),
	}
	for _, row := range rows {
		if !row.Finite(features) {
			continue
		}
		x := make([]float64, len(features))
		for i, name := range features {
			x[i] = row.Features[name]
		}
		out.X = append(out.X, x)
		out.Y = append(out.Y, float64(row.Result))
	}
	return out
}

func (d Dataset) Len() int {
	return len(d.Y)
}

func (d Dataset) subset(idx []int) Dataset {
	out := Dataset{
		Features: d.Features,
		X:        make([][]float64, 0, len(idx)),
		Y:        make([]float64, 0, len(idx)),
	}
	for _, i := range idx {
		out.X = append(out.X, d.X[i])
		out.Y = append(out.Y, d.Y[i])
	}
	return out
}
