package cmd

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/utk-tools/goutk/utk/pointset"
)

// pointFileOptions locates and shapes a point file on disk.
type pointFileOptions struct {
	In  string
	N   int
	Dim int
	Sep string
}

func (o pointFileOptions) read() (*pointset.PointSet, error) {
	r := pointset.NewReader(o.N, o.Dim)
	if o.Sep != "" {
		r.Sep = o.Sep
	}
	return r.Read(o.In)
}

// --- goutk convert ---

var (
	convertOpts pointFileOptions
	convertOut  string
)

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a point file between the binary and text formats",
	Long:  "Read --in and write --out. Files ending in .dat are text (tab-separated, one point per line); anything else is the binary big-endian format.",
	Run: func(cmd *cobra.Command, args []string) {
		ps, err := convertPoints(convertOpts, convertOut)
		if err != nil {
			logrus.Fatalf("Conversion failed: %v", err)
		}
		logrus.Infof("Converted %d points of dimension %d to %s", ps.N(), ps.Dim(), convertOut)
	},
}

func convertPoints(opts pointFileOptions, out string) (*pointset.PointSet, error) {
	ps, err := opts.read()
	if err != nil {
		return nil, err
	}
	if err := pointset.Write(out, ps); err != nil {
		return nil, err
	}
	return ps, nil
}

// --- goutk stats ---

var statsOpts pointFileOptions

// statsReport is the YAML document printed by `goutk stats`.
type statsReport struct {
	Points   int                 `yaml:"points"`
	Dim      int                 `yaml:"dim"`
	UnitCube bool                `yaml:"unit_cube"`
	Axes     []pointset.DimStats `yaml:"axes"`
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print per-dimension statistics of a point file",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeStats(cmd.OutOrStdout(), statsOpts); err != nil {
			logrus.Fatalf("Stats failed: %v", err)
		}
	},
}

func writeStats(w io.Writer, opts pointFileOptions) error {
	ps, err := opts.read()
	if err != nil {
		return err
	}
	if ps.N() == 0 {
		return fmt.Errorf("%s holds no points", opts.In)
	}
	return writeYAML(w, statsReport{
		Points:   ps.N(),
		Dim:      ps.Dim(),
		UnitCube: pointset.InUnitCube(ps),
		Axes:     pointset.Summarize(ps),
	})
}

func addPointFileFlags(cmd *cobra.Command, opts *pointFileOptions) {
	cmd.Flags().StringVar(&opts.In, "in", "", "Point file to read (.dat = text, otherwise binary)")
	cmd.Flags().IntVarP(&opts.N, "points", "n", 0, "Number of points (0 = infer from the file)")
	cmd.Flags().IntVar(&opts.Dim, "dim", 2, "Point dimension")
	cmd.Flags().StringVar(&opts.Sep, "sep", "", "Text coordinate separator (default tab)")
	_ = cmd.MarkFlagRequired("in")
}

func init() {
	addPointFileFlags(convertCmd, &convertOpts)
	convertCmd.Flags().StringVar(&convertOut, "out", "", "Destination point file (.dat = text, otherwise binary)")
	_ = convertCmd.MarkFlagRequired("out")

	addPointFileFlags(statsCmd, &statsOpts)

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(statsCmd)
}
