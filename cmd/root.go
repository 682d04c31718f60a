package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/utk-tools/goutk/utk"
)

var (
	logLevel   string // Log verbosity level
	configPath string // Optional YAML config file
	utkDir     string // UTK build directory (holds samplers/ and discrepancy/)
	workDir    string // Where temporary point and result files go
	silent     bool   // Pass --silent to executables
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "goutk",
	Short: "Run UTK samplers and discrepancy executables",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if err := configure(cmd, utk.Default()); err != nil {
			logrus.Fatalf("Configuration failed: %v", err)
		}
		// Executables chatter on stdout; keep ours for results.
		utk.Default().SetRunner(&utk.ExecRunner{Stdout: os.Stderr, Stderr: os.Stderr})
	},
}

// configure layers the config file and explicitly set flags over the
// toolkit's current settings, then applies them.
func configure(cmd *cobra.Command, tk *utk.Toolkit) error {
	cfg := tk.Config()
	if configPath != "" {
		loaded, err := utk.LoadConfig(configPath, cfg)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if cmd.Flags().Changed("utk-dir") {
		cfg.Dir = utkDir
	}
	if cmd.Flags().Changed("work-dir") {
		cfg.WorkDir = workDir
	}
	if cmd.Flags().Changed("silent") {
		cfg.Silent = silent
	}

	if cfg.Dir != "" {
		if err := tk.SetDir(cfg.Dir); err != nil {
			return err
		}
	}
	if err := tk.SetWorkDir(cfg.WorkDir); err != nil {
		return err
	}
	tk.SetSilence(cfg.Silent)
	logrus.Debugf("UTK directory %q, working directory %q, silent=%v", cfg.Dir, cfg.WorkDir, cfg.Silent)
	return nil
}

// writeYAML marshals v to w.
func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("YAML marshal failed: %w", err)
	}
	return enc.Close()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (utk_dir, work_dir, silent)")
	rootCmd.PersistentFlags().StringVar(&utkDir, "utk-dir", "", "UTK build directory (default from "+utk.EnvDir+" or build settings)")
	rootCmd.PersistentFlags().StringVar(&workDir, "work-dir", "", "Directory for temporary files (default from "+utk.EnvWorkDir+" or the system temp dir)")
	rootCmd.PersistentFlags().BoolVar(&silent, "silent", true, "Pass --silent to executables")
}
