package cmd

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/utk-tools/goutk/utk"
	"github.com/utk-tools/goutk/utk/discovery"
	"github.com/utk-tools/goutk/utk/results"
)

type discrepancyOptions struct {
	Name    string
	Dim     int
	Variant string
	Input   string
	Subset  int
	Out     string
	Args    []string
}

var discrepancyOpts discrepancyOptions

var discrepancyCmd = &cobra.Command{
	Use:   "discrepancy",
	Short: "Compute a discrepancy of a point file",
	Long:  "Run a UTK discrepancy executable on --input and print one YAML mapping per result line.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runDiscrepancy(cmd.Context(), cmd.OutOrStdout(), utk.Default(), discrepancyOpts); err != nil {
			logrus.Fatalf("Discrepancy failed: %v", err)
		}
	},
}

func runDiscrepancy(ctx context.Context, w io.Writer, tk *utk.Toolkit, opts discrepancyOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	variant, err := discovery.ParseVariant(opts.Variant)
	if err != nil {
		return err
	}
	extra, err := utk.ParseArgs(opts.Args)
	if err != nil {
		return err
	}
	d := tk.NewDiscrepancy(opts.Name, opts.Dim, variant, extra...)

	var table *results.Table
	if opts.Out != "" {
		table, err = d.ComputeTo(ctx, opts.Out, opts.Input, opts.Subset)
	} else {
		table, err = d.ComputeFromFile(ctx, opts.Input, opts.Subset, true)
	}
	if err != nil {
		return err
	}
	return writeYAML(w, table.Rows)
}

func init() {
	discrepancyCmd.Flags().StringVar(&discrepancyOpts.Name, "name", "", "Discrepancy name (see `goutk list --discrepancy`)")
	discrepancyCmd.Flags().IntVar(&discrepancyOpts.Dim, "dim", 2, "Dimension of the input points")
	discrepancyCmd.Flags().StringVar(&discrepancyOpts.Variant, "variant", string(discovery.VariantD), "Executable variant (d or i)")
	discrepancyCmd.Flags().StringVar(&discrepancyOpts.Input, "input", "", "Point file to evaluate")
	discrepancyCmd.Flags().IntVarP(&discrepancyOpts.Subset, "subset", "s", utk.AllPoints, "Evaluate only the first s points (-1 = all)")
	discrepancyCmd.Flags().StringVar(&discrepancyOpts.Out, "out", "", "Keep the raw result file at this path")
	discrepancyCmd.Flags().StringArrayVar(&discrepancyOpts.Args, "arg", nil, "Extra executable argument as key=value (can be repeated)")
	_ = discrepancyCmd.MarkFlagRequired("name")
	_ = discrepancyCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(discrepancyCmd)
}
