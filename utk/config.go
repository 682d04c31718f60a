package utk

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/utk-tools/goutk/utk/discovery"
)

// DefaultDir is the UTK build directory used when nothing else is configured.
// Release builds set it with
//
//	-ldflags "-X github.com/utk-tools/goutk/utk.DefaultDir=/path/to/utk/build"
var DefaultDir = ""

const (
	// EnvDir overrides DefaultDir.
	EnvDir = "UTK_DIR"
	// EnvWorkDir overrides the system temp directory as working directory.
	EnvWorkDir = "UTK_WORK_DIR"

	samplersSubdir    = "samplers"
	discrepancySubdir = "discrepancy"
)

// Config holds the settings every façade call reads.
type Config struct {
	Dir     string `yaml:"utk_dir"`
	WorkDir string `yaml:"work_dir"`
	Silent  bool   `yaml:"silent"`
}

// DefaultConfig resolves DefaultDir, the environment and the temp directory.
// Samplers run silenced by default.
func DefaultConfig() Config {
	cfg := Config{Dir: DefaultDir, WorkDir: os.TempDir(), Silent: true}
	if dir := os.Getenv(EnvDir); dir != "" {
		cfg.Dir = dir
	}
	if dir := os.Getenv(EnvWorkDir); dir != "" {
		cfg.WorkDir = dir
	}
	return cfg
}

// LoadConfig overlays the YAML file at path onto base. Keys absent from the
// file keep the base value; unknown keys are rejected.
func LoadConfig(path string, base Config) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("reading config: %w", err)
	}
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// SamplersDir is where sampler executables live.
func (c Config) SamplersDir() string {
	return filepath.Join(c.Dir, samplersSubdir)
}

// DiscrepancyDir is where discrepancy executables live.
func (c Config) DiscrepancyDir() string {
	return filepath.Join(c.Dir, discrepancySubdir)
}

// SilenceArgs returns the flag asking an executable to keep quiet. Some
// samplers print regardless.
func (c Config) SilenceArgs() []string {
	if c.Silent {
		return []string{"--silent"}
	}
	return nil
}

// Toolkit is a configured UTK build plus the Runner used to execute it.
// Reconfiguring a Toolkit while calls are in flight is not supported.
type Toolkit struct {
	mu     sync.RWMutex
	cfg    Config
	runner Runner
}

// New returns a Toolkit. A nil runner means NewExecRunner().
func New(cfg Config, runner Runner) *Toolkit {
	if runner == nil {
		runner = NewExecRunner()
	}
	return &Toolkit{cfg: cfg, runner: runner}
}

// Config returns a snapshot of the current settings.
func (t *Toolkit) Config() Config {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cfg
}

// SetDir points the toolkit at a UTK build directory, which must exist.
func (t *Toolkit) SetDir(dir string) error {
	if _, err := os.Stat(dir); err != nil {
		abs, _ := filepath.Abs(dir)
		return fmt.Errorf("UTK directory %s: %w", abs, err)
	}
	t.mu.Lock()
	t.cfg.Dir = dir
	t.mu.Unlock()
	return nil
}

// SetWorkDir sets where temporary point and result files go, creating the
// directory when needed.
func (t *Toolkit) SetWorkDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating working directory: %w", err)
	}
	t.mu.Lock()
	t.cfg.WorkDir = dir
	t.mu.Unlock()
	return nil
}

// SetSilence toggles the --silent flag passed to executables.
func (t *Toolkit) SetSilence(silent bool) {
	t.mu.Lock()
	t.cfg.Silent = silent
	t.mu.Unlock()
}

// SetRunner replaces the process runner.
func (t *Toolkit) SetRunner(r Runner) {
	t.mu.Lock()
	t.runner = r
	t.mu.Unlock()
}

// Samplers lists the available samplers and their dimensions.
func (t *Toolkit) Samplers() (discovery.Catalog, error) {
	return discovery.Scan(t.Config().SamplersDir())
}

// SamplersSplit lists the available samplers per variant.
func (t *Toolkit) SamplersSplit() (discovery.SplitCatalog, error) {
	return discovery.ScanSplit(t.Config().SamplersDir())
}

// Discrepancies lists the available discrepancy executables.
func (t *Toolkit) Discrepancies() (discovery.Catalog, error) {
	return discovery.ScanDiscrepancies(t.Config().DiscrepancyDir())
}

// tempFile returns a fresh path in the working directory.
func (t *Toolkit) tempFile(ext string) string {
	name := strings.ReplaceAll(uuid.NewString(), "-", "")
	return filepath.Join(t.Config().WorkDir, name+ext)
}

func (t *Toolkit) getRunner() Runner {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.runner
}

var std = New(DefaultConfig(), nil)

// Default returns the process-wide Toolkit used by the package-level functions.
func Default() *Toolkit { return std }

// SetDir configures the process-wide Toolkit. See Toolkit.SetDir.
func SetDir(dir string) error { return std.SetDir(dir) }

// SetWorkDir configures the process-wide Toolkit. See Toolkit.SetWorkDir.
func SetWorkDir(dir string) error { return std.SetWorkDir(dir) }

// SetSilence configures the process-wide Toolkit. See Toolkit.SetSilence.
func SetSilence(silent bool) { std.SetSilence(silent) }

// Samplers lists the samplers of the process-wide Toolkit.
func Samplers() (discovery.Catalog, error) { return std.Samplers() }

// SamplersSplit lists the samplers of the process-wide Toolkit per variant.
func SamplersSplit() (discovery.SplitCatalog, error) { return std.SamplersSplit() }

// Discrepancies lists the discrepancy executables of the process-wide Toolkit.
func Discrepancies() (discovery.Catalog, error) { return std.Discrepancies() }
