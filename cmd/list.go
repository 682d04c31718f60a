package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/utk-tools/goutk/utk"
)

var (
	listSplit       bool
	listDiscrepancy bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available samplers (or discrepancies) and their dimensions",
	Long:  "Scan the UTK build directory and print a YAML map of executable name to supported dimensions.",
	Run: func(cmd *cobra.Command, args []string) {
		if err := writeCatalog(cmd.OutOrStdout(), utk.Default(), listSplit, listDiscrepancy); err != nil {
			logrus.Fatalf("Listing failed: %v", err)
		}
	},
}

// writeCatalog prints the sampler catalog, split per variant when asked, or
// the discrepancy catalog.
func writeCatalog(w io.Writer, tk *utk.Toolkit, split, discrepancies bool) error {
	var (
		catalog any
		err     error
	)
	switch {
	case discrepancies:
		catalog, err = tk.Discrepancies()
	case split:
		catalog, err = tk.SamplersSplit()
	default:
		catalog, err = tk.Samplers()
	}
	if err != nil {
		return err
	}
	return writeYAML(w, catalog)
}

func init() {
	listCmd.Flags().BoolVar(&listSplit, "split", false, "Report the d and i variants separately")
	listCmd.Flags().BoolVar(&listDiscrepancy, "discrepancy", false, "List discrepancy executables instead of samplers")

	rootCmd.AddCommand(listCmd)
}
