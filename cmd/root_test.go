package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/utk-tools/goutk/utk"
	"github.com/utk-tools/goutk/utk/discovery"
	"github.com/utk-tools/goutk/utk/pointset"
	"github.com/utk-tools/goutk/utk/results"
)

// scriptedRunner plays the part of UTK executables by writing output files.
type scriptedRunner struct {
	calls [][]string
}

func flagAfter(args []string, flag string) string {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}

func (r *scriptedRunner) Run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, append([]string{name}, args...))
	out := flagAfter(args, "-o")
	if in := flagAfter(args, "-i"); in != "" {
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		return results.Write(f, &results.Table{
			Columns: []string{"nbpts", "l2"},
			Rows:    []results.Row{{"nbpts": 2, "l2": 0.5}},
		})
	}
	ps, _ := pointset.FromRows([][]float64{{0.25, 0.75}, {0.5, 0.5}})
	if flagAfter(args, "-m") != "1" {
		w, err := pointset.Create(out, false)
		if err != nil {
			return err
		}
		if err := w.WriteSets([]*pointset.PointSet{ps, ps}); err != nil {
			return err
		}
		return w.Close()
	}
	return pointset.Write(out, ps)
}

func newScriptedToolkit(t *testing.T) (*utk.Toolkit, *scriptedRunner) {
	t.Helper()
	r := &scriptedRunner{}
	return utk.New(utk.Config{Dir: t.TempDir(), WorkDir: t.TempDir(), Silent: true}, r), r
}

// resetRootFlags restores the package-level flag variables after a test.
func resetRootFlags(t *testing.T) {
	saved := []any{configPath, utkDir, workDir, silent}
	t.Cleanup(func() {
		configPath = saved[0].(string)
		utkDir = saved[1].(string)
		workDir = saved[2].(string)
		silent = saved[3].(bool)
	})
}

func newFlagCommand() *cobra.Command {
	c := &cobra.Command{Use: "test"}
	c.Flags().StringVar(&utkDir, "utk-dir", "", "")
	c.Flags().StringVar(&workDir, "work-dir", "", "")
	c.Flags().BoolVar(&silent, "silent", true, "")
	return c
}

func TestConfigure_FlagsOverrideConfigFile(t *testing.T) {
	resetRootFlags(t)

	// GIVEN a config file naming one UTK dir and silent=false
	fileDir := t.TempDir()
	flagDir := t.TempDir()
	work := filepath.Join(t.TempDir(), "work")
	configPath = filepath.Join(t.TempDir(), "utk.yaml")
	require.NoError(t, os.WriteFile(configPath,
		[]byte("utk_dir: "+fileDir+"\nwork_dir: "+work+"\nsilent: false\n"), 0644))

	// AND an explicit --utk-dir flag
	c := newFlagCommand()
	require.NoError(t, c.Flags().Set("utk-dir", flagDir))

	// WHEN the toolkit is configured
	tk := utk.New(utk.Config{WorkDir: t.TempDir(), Silent: true}, nil)
	require.NoError(t, configure(c, tk))

	// THEN the flag wins over the file, and unset flags keep file values
	cfg := tk.Config()
	assert.Equal(t, flagDir, cfg.Dir)
	assert.Equal(t, work, cfg.WorkDir)
	assert.False(t, cfg.Silent)
	assert.DirExists(t, work)
}

func TestConfigure_MissingUTKDirFails(t *testing.T) {
	resetRootFlags(t)
	configPath = ""

	c := newFlagCommand()
	require.NoError(t, c.Flags().Set("utk-dir", filepath.Join(t.TempDir(), "absent")))

	tk := utk.New(utk.Config{WorkDir: t.TempDir()}, nil)
	assert.ErrorIs(t, configure(c, tk), os.ErrNotExist)
}

func TestWriteCatalog_PrintsYAML(t *testing.T) {
	tk, _ := newScriptedToolkit(t)
	dir := tk.Config().SamplersDir()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range []string{"foo_2dd", "foo_3dd", "foo_2di"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0755))
		require.NoError(t, os.Chmod(filepath.Join(dir, name), 0755))
	}

	var buf bytes.Buffer
	require.NoError(t, writeCatalog(&buf, tk, false, false))
	var merged map[string][]int
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &merged))
	assert.Equal(t, map[string][]int{"foo": {2, 3}}, merged)

	buf.Reset()
	require.NoError(t, writeCatalog(&buf, tk, true, false))
	var split map[string]discovery.Dims
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &split))
	assert.Equal(t, []int{2, 3}, split["foo"].D)
	assert.Equal(t, []int{2}, split["foo"].I)
}

func TestRunSample_PrintsPoints(t *testing.T) {
	tk, r := newScriptedToolkit(t)
	var buf bytes.Buffer
	err := runSample(context.Background(), &buf, tk, sampleOptions{
		Name: "stratified", Dim: 2, Variant: "d", N: 2, M: 1, Args: []string{"--seed=4"},
	})
	require.NoError(t, err)

	assert.Equal(t, "0.25\t0.75\n0.5\t0.5\n", buf.String())
	require.Len(t, r.calls, 1)
	assert.Equal(t, []string{"--seed", "4"}, r.calls[0][len(r.calls[0])-2:])
}

func TestRunSample_MultipleSetsSeparatedBySentinel(t *testing.T) {
	tk, _ := newScriptedToolkit(t)
	var buf bytes.Buffer
	require.NoError(t, runSample(context.Background(), &buf, tk, sampleOptions{
		Name: "stratified", Dim: 2, Variant: "d", N: 2, M: 2,
	}))
	assert.Equal(t, "0.25\t0.75\n0.5\t0.5\n#\n0.25\t0.75\n0.5\t0.5\n", buf.String())
}

func TestRunSample_OutKeepsFileAndPrintsNothing(t *testing.T) {
	tk, _ := newScriptedToolkit(t)
	out := filepath.Join(t.TempDir(), "pts.bin")
	var buf bytes.Buffer
	require.NoError(t, runSample(context.Background(), &buf, tk, sampleOptions{
		Name: "stratified", Dim: 2, Variant: "d", N: 2, M: 1, Out: out,
	}))
	assert.Empty(t, buf.String())
	assert.FileExists(t, out)
}

func TestRunSample_InvalidInput(t *testing.T) {
	tk, r := newScriptedToolkit(t)
	var buf bytes.Buffer
	assert.Error(t, runSample(context.Background(), &buf, tk, sampleOptions{Name: "x", Dim: 2, Variant: "q", N: 2, M: 1}))
	assert.Error(t, runSample(context.Background(), &buf, tk, sampleOptions{Name: "x", Dim: 2, Variant: "d", N: 2, M: 1, Args: []string{"novalue"}}))
	assert.Empty(t, r.calls)
}

func TestRunDiscrepancy_PrintsRows(t *testing.T) {
	tk, r := newScriptedToolkit(t)
	var buf bytes.Buffer
	require.NoError(t, runDiscrepancy(context.Background(), &buf, tk, discrepancyOptions{
		Name: "L2", Dim: 2, Variant: "d", Input: "pts.dat", Subset: 16,
	}))

	var rows []map[string]float64
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, []map[string]float64{{"nbpts": 2, "l2": 0.5}}, rows)
	assert.Equal(t, "16", flagAfter(r.calls[0][1:], "-s"))
	assert.Equal(t, filepath.Join(tk.Config().DiscrepancyDir(), "L2_fromfile_2dd"), r.calls[0][0])
}

func TestConvertPoints_BinaryToText(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "pts.bin")
	out := filepath.Join(dir, "pts.dat")
	ps, _ := pointset.FromRows([][]float64{{0.1, 0.2}, {0.3, 0.4}, {0.5, 0.6}})
	require.NoError(t, pointset.WriteBinary(in, ps))

	got, err := convertPoints(pointFileOptions{In: in, Dim: 2}, out)
	require.NoError(t, err)
	assert.Equal(t, 3, got.N())

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "0.1\t0.2\n0.3\t0.4\n0.5\t0.6\n", string(raw))
}

func TestWriteStats_Report(t *testing.T) {
	in := filepath.Join(t.TempDir(), "pts.dat")
	ps, _ := pointset.FromRows([][]float64{{0, 0.5}, {1, 0.5}})
	require.NoError(t, pointset.WriteText(in, ps))

	var buf bytes.Buffer
	require.NoError(t, writeStats(&buf, pointFileOptions{In: in, Dim: 2}))

	var report statsReport
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
	assert.Equal(t, 2, report.Points)
	assert.True(t, report.UnitCube)
	require.Len(t, report.Axes, 2)
	assert.InDelta(t, 0.5, report.Axes[0].Mean, 1e-12)
	assert.Equal(t, 1.0, report.Axes[0].Max)
}

func TestWriteStats_EmptyFile(t *testing.T) {
	in := filepath.Join(t.TempDir(), "empty.dat")
	require.NoError(t, os.WriteFile(in, nil, 0644))
	var buf bytes.Buffer
	assert.Error(t, writeStats(&buf, pointFileOptions{In: in, Dim: 2}))
}
