// Package pointset holds point sets produced or consumed by UTK executables
// and the readers/writers for their on-disk formats.
package pointset

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ErrShape reports a point count or dimension that does not match the data.
var ErrShape = errors.New("point set shape mismatch")

// PointSet is an ordered sequence of N points of dimension D stored row-major.
type PointSet struct {
	n, d int
	data []float64
}

// New allocates a zero-filled point set of n points in dimension d.
func New(n, d int) *PointSet {
	return &PointSet{n: n, d: d, data: make([]float64, n*d)}
}

// FromData wraps a row-major slice. len(data) must equal n*d.
func FromData(n, d int, data []float64) (*PointSet, error) {
	if n < 0 || d < 0 || len(data) != n*d {
		return nil, fmt.Errorf("%w: %d values for %d points of dimension %d", ErrShape, len(data), n, d)
	}
	return &PointSet{n: n, d: d, data: data}, nil
}

// FromRows copies rows into a new point set. All rows must share a length.
func FromRows(rows [][]float64) (*PointSet, error) {
	if len(rows) == 0 {
		return New(0, 0), nil
	}
	d := len(rows[0])
	ps := New(len(rows), d)
	for i, row := range rows {
		if len(row) != d {
			return nil, fmt.Errorf("%w: row %d has %d coordinates, want %d", ErrShape, i, len(row), d)
		}
		copy(ps.data[i*d:], row)
	}
	return ps, nil
}

// N returns the number of points.
func (ps *PointSet) N() int { return ps.n }

// Dim returns the dimension of every point.
func (ps *PointSet) Dim() int { return ps.d }

// At returns coordinate j of point i.
func (ps *PointSet) At(i, j int) float64 { return ps.data[i*ps.d+j] }

// Set assigns coordinate j of point i.
func (ps *PointSet) Set(i, j int, v float64) { ps.data[i*ps.d+j] = v }

// Row returns point i. The slice aliases the point set storage.
func (ps *PointSet) Row(i int) []float64 { return ps.data[i*ps.d : (i+1)*ps.d] }

// Rows returns a copy of the points as a slice of rows.
func (ps *PointSet) Rows() [][]float64 {
	rows := make([][]float64, ps.n)
	for i := range rows {
		rows[i] = append([]float64(nil), ps.Row(i)...)
	}
	return rows
}

// Data returns the row-major backing slice.
func (ps *PointSet) Data() []float64 { return ps.data }

// Dense returns a gonum matrix view sharing storage with the point set,
// or nil when the set is empty (gonum rejects zero-sized matrices).
func (ps *PointSet) Dense() *mat.Dense {
	if ps.n == 0 || ps.d == 0 {
		return nil
	}
	return mat.NewDense(ps.n, ps.d, ps.data)
}

// Reshape reinterprets the storage as n points of dimension d.
func (ps *PointSet) Reshape(n, d int) error {
	if n*d != len(ps.data) {
		return fmt.Errorf("%w: cannot reshape %d values into (%d, %d)", ErrShape, len(ps.data), n, d)
	}
	ps.n, ps.d = n, d
	return nil
}
