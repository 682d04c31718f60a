package utk

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/utk-tools/goutk/utk/discovery"
	"github.com/utk-tools/goutk/utk/pointset"
)

// DefaultSampleCount is the number of points sampled when callers have no
// preference.
const DefaultSampleCount = 1024

// Sampler runs one sampler executable.
type Sampler struct {
	Name    string
	Dim     int
	Variant discovery.Variant
	Args    []Arg

	tk *Toolkit
}

// NewSampler returns a sampler bound to t. An empty variant means "d".
func (t *Toolkit) NewSampler(name string, dim int, v discovery.Variant, args ...Arg) *Sampler {
	if v == "" {
		v = discovery.VariantD
	}
	return &Sampler{Name: name, Dim: dim, Variant: v, Args: args, tk: t}
}

// NewSampler returns a sampler bound to the process-wide Toolkit.
func NewSampler(name string, dim int, v discovery.Variant, args ...Arg) *Sampler {
	return std.NewSampler(name, dim, v, args...)
}

// toolkit falls back to the process-wide Toolkit for literal values.
func (s *Sampler) toolkit() *Toolkit {
	if s.tk == nil {
		return std
	}
	return s.tk
}

// Executable is the sampler's file name.
func (s *Sampler) Executable() string {
	return discovery.ExecutableName(s.Name, s.Dim, s.Variant)
}

// Path is the sampler's location under the configured UTK directory.
func (s *Sampler) Path() string {
	return filepath.Join(s.toolkit().Config().SamplersDir(), s.Executable())
}

// Sample generates n points into a temporary text file and reads them back.
// The file is removed when clean is set.
func (s *Sampler) Sample(ctx context.Context, n int, clean bool) (*pointset.PointSet, error) {
	out := s.toolkit().tempFile(pointset.TextExt)
	if clean {
		defer removeTemp(out)
	}
	return s.SampleTo(ctx, out, n)
}

// SampleTo generates n points into out and reads them back. The extension of
// out selects the text or binary reader.
func (s *Sampler) SampleTo(ctx context.Context, out string, n int) (*pointset.PointSet, error) {
	exitErr, err := s.toolkit().run(ctx, s.Path(), s.argv(out, n, 1))
	if err != nil {
		return nil, err
	}
	ps, err := pointset.NewReader(n, s.Dim).Read(out)
	if err != nil {
		return nil, withExit(err, exitErr)
	}
	return ps, nil
}

// SampleSets generates m point sets of n points each into a temporary text
// file and reads them back.
func (s *Sampler) SampleSets(ctx context.Context, n, m int, clean bool) ([]*pointset.PointSet, error) {
	out := s.toolkit().tempFile(pointset.TextExt)
	if clean {
		defer removeTemp(out)
	}
	return s.SampleSetsTo(ctx, out, n, m)
}

// SampleSetsTo generates m point sets into out, which must be a text file.
func (s *Sampler) SampleSetsTo(ctx context.Context, out string, n, m int) ([]*pointset.PointSet, error) {
	if !pointset.IsText(out) {
		return nil, fmt.Errorf("multiple point sets need a %s output, got %s", pointset.TextExt, out)
	}
	exitErr, err := s.toolkit().run(ctx, s.Path(), s.argv(out, n, m))
	if err != nil {
		return nil, err
	}
	sets, err := pointset.NewReader(n, s.Dim).ReadSets(out)
	if err != nil {
		return nil, withExit(err, exitErr)
	}
	if len(sets) != m {
		return nil, withExit(fmt.Errorf("%w: %s produced %d point sets, want %d", pointset.ErrShape, s.Executable(), len(sets), m), exitErr)
	}
	return sets, nil
}

// argv is: -o out -n n -m m [--silent] <extra args>
func (s *Sampler) argv(out string, n, m int) []string {
	args := []string{"-o", out, "-n", strconv.Itoa(n), "-m", strconv.Itoa(m)}
	args = append(args, s.toolkit().Config().SilenceArgs()...)
	return append(args, Flatten(s.Args)...)
}
