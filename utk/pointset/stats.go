package pointset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// DimStats summarizes one coordinate axis of a point set.
type DimStats struct {
	Dim    int     `yaml:"dim"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"std_dev"`
}

// Summarize returns per-dimension statistics, or nil for an empty set. The
// standard deviation of a single point is reported as 0.
func Summarize(ps *PointSet) []DimStats {
	m := ps.Dense()
	if m == nil {
		return nil
	}
	_, d := m.Dims()
	out := make([]DimStats, d)
	col := make([]float64, ps.N())
	for j := 0; j < d; j++ {
		mat.Col(col, j, m)
		mean, std := stat.MeanStdDev(col, nil)
		if len(col) < 2 {
			std = 0
		}
		out[j] = DimStats{
			Dim:    j,
			Min:    floats.Min(col),
			Max:    floats.Max(col),
			Mean:   mean,
			StdDev: std,
		}
	}
	return out
}

// InUnitCube reports whether every coordinate lies in [0, 1], the domain
// UTK samplers generate into.
func InUnitCube(ps *PointSet) bool {
	data := ps.Data()
	if len(data) == 0 {
		return true
	}
	return floats.Min(data) >= 0 && floats.Max(data) <= 1
}
