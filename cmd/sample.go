package cmd

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/utk-tools/goutk/utk"
	"github.com/utk-tools/goutk/utk/discovery"
	"github.com/utk-tools/goutk/utk/pointset"
)

// sampleOptions carries the `goutk sample` flags.
type sampleOptions struct {
	Name    string
	Dim     int
	Variant string
	N       int
	M       int
	Out     string
	Args    []string
}

var sampleOpts sampleOptions

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Run a sampler and print the generated points",
	Long:  "Run a UTK sampler. Points are printed to stdout as tab-separated text, or kept in --out when given.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := runSample(cmd.Context(), cmd.OutOrStdout(), utk.Default(), sampleOpts); err != nil {
			logrus.Fatalf("Sampling failed: %v", err)
		}
	},
}

func runSample(ctx context.Context, w io.Writer, tk *utk.Toolkit, opts sampleOptions) error {
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
	s := tk.NewSampler(opts.Name, opts.Dim, variant, extra...)

	var sets []*pointset.PointSet
	switch {
	case opts.M > 1 && opts.Out != "":
		sets, err = s.SampleSetsTo(ctx, opts.Out, opts.N, opts.M)
	case opts.M > 1:
		sets, err = s.SampleSets(ctx, opts.N, opts.M, true)
	case opts.Out != "":
		var ps *pointset.PointSet
		ps, err = s.SampleTo(ctx, opts.Out, opts.N)
		sets = []*pointset.PointSet{ps}
	default:
		var ps *pointset.PointSet
		ps, err = s.Sample(ctx, opts.N, true)
		sets = []*pointset.PointSet{ps}
	}
	if err != nil {
		return err
	}

	if opts.Out != "" {
		logrus.Infof("%s wrote %d point set(s) of %d points to %s", s.Executable(), len(sets), opts.N, opts.Out)
		return nil
	}
	for i, ps := range sets {
		if i > 0 {
			if _, err := io.WriteString(w, pointset.DefaultSentinel+"\n"); err != nil {
				return err
			}
		}
		if err := pointset.EncodeText(w, ps, pointset.DefaultSep); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	sampleCmd.Flags().StringVar(&sampleOpts.Name, "name", "", "Sampler name (see `goutk list`)")
	sampleCmd.Flags().IntVar(&sampleOpts.Dim, "dim", 2, "Dimension of the generated points")
	sampleCmd.Flags().StringVar(&sampleOpts.Variant, "variant", string(discovery.VariantD), "Executable variant (d or i)")
	sampleCmd.Flags().IntVarP(&sampleOpts.N, "points", "n", utk.DefaultSampleCount, "Number of points per set")
	sampleCmd.Flags().IntVarP(&sampleOpts.M, "sets", "m", 1, "Number of point sets")
	sampleCmd.Flags().StringVar(&sampleOpts.Out, "out", "", "Keep the sampler output at this path (.dat for text, anything else binary)")
	sampleCmd.Flags().StringArrayVar(&sampleOpts.Args, "arg", nil, "Extra executable argument as key=value (can be repeated)")
	_ = sampleCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(sampleCmd)
}
