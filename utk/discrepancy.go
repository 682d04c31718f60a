package utk

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/utk-tools/goutk/utk/discovery"
	"github.com/utk-tools/goutk/utk/pointset"
	"github.com/utk-tools/goutk/utk/results"
)

// AllPoints evaluates the discrepancy on the whole point set.
const AllPoints = -1

// Discrepancy runs one discrepancy executable.
type Discrepancy struct {
	Name    string
	Dim     int
	Variant discovery.Variant
	Args    []Arg

	tk *Toolkit
}

// NewDiscrepancy returns a discrepancy bound to t. An empty variant means "d".
func (t *Toolkit) NewDiscrepancy(name string, dim int, v discovery.Variant, args ...Arg) *Discrepancy {
	if v == "" {
		v = discovery.VariantD
	}
	return &Discrepancy{Name: name, Dim: dim, Variant: v, Args: args, tk: t}
}

// NewDiscrepancy returns a discrepancy bound to the process-wide Toolkit.
func NewDiscrepancy(name string, dim int, v discovery.Variant, args ...Arg) *Discrepancy {
	return std.NewDiscrepancy(name, dim, v, args...)
}

// toolkit falls back to the process-wide Toolkit for literal values.
func (d *Discrepancy) toolkit() *Toolkit {
	if d.tk == nil {
		return std
	}
	return d.tk
}

// Executable is the discrepancy's file name.
func (d *Discrepancy) Executable() string {
	return discovery.DiscrepancyExecutableName(d.Name, d.Dim, d.Variant)
}

// Path is the discrepancy's location under the configured UTK directory.
func (d *Discrepancy) Path() string {
	return filepath.Join(d.toolkit().Config().DiscrepancyDir(), d.Executable())
}

// Compute writes ps to a temporary text file and evaluates it. subset limits
// the evaluation to the first points; AllPoints uses them all.
func (d *Discrepancy) Compute(ctx context.Context, ps *pointset.PointSet, subset int, clean bool) (*results.Table, error) {
	if ps.Dim() != d.Dim {
		return nil, fmt.Errorf("%w: %s expects dimension %d, got %d", pointset.ErrShape, d.Executable(), d.Dim, ps.Dim())
	}
	input := d.toolkit().tempFile(pointset.TextExt)
	if clean {
		defer removeTemp(input)
	}
	if err := pointset.WriteText(input, ps); err != nil {
		return nil, err
	}
	return d.ComputeFromFile(ctx, input, subset, clean)
}

// ComputeFromFile evaluates the points stored in input, writing results to
// a temporary file that is removed when clean is set.
func (d *Discrepancy) ComputeFromFile(ctx context.Context, input string, subset int, clean bool) (*results.Table, error) {
	out := d.toolkit().tempFile(pointset.TextExt)
	if clean {
		defer removeTemp(out)
	}
	return d.ComputeTo(ctx, out, input, subset)
}

// ComputeTo evaluates the points in input and keeps the results in out.
func (d *Discrepancy) ComputeTo(ctx context.Context, out, input string, subset int) (*results.Table, error) {
	exitErr, err := d.toolkit().run(ctx, d.Path(), d.argv(out, input, subset))
	if err != nil {
		return nil, err
	}
	table, err := results.NewReader().Read(out)
	if err != nil {
		return nil, withExit(err, exitErr)
	}
	return table, nil
}

// argv is: -i input -o out [-s subset] [--silent] <extra args>
func (d *Discrepancy) argv(out, input string, subset int) []string {
	args := []string{"-i", input, "-o", out}
	if subset > AllPoints {
		args = append(args, "-s", strconv.Itoa(subset))
	}
	args = append(args, d.toolkit().Config().SilenceArgs()...)
	return append(args, Flatten(d.Args)...)
}
