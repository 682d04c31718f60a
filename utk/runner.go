package utk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Runner starts an executable and waits for it.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) error
}

// ExecRunner runs executables as child processes. Nil writers inherit the
// parent's stdout and stderr.
type ExecRunner struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner returns an ExecRunner inheriting the parent's output.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = r.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = r.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}
	return cmd.Run()
}

// exitCoder is satisfied by *exec.ExitError.
type exitCoder interface {
	ExitCode() int
}

// run executes name and splits the outcome: err is set when the process
// could not run at all, exitErr when it ran and exited non-zero. The output
// file of a failed run is still worth reading, so exitErr is only reported
// alongside a read failure.
func (t *Toolkit) run(ctx context.Context, name string, args []string) (exitErr, err error) {
	logrus.Debugf("running %s %s", name, strings.Join(args, " "))
	runErr := t.getRunner().Run(ctx, name, args...)
	if runErr == nil {
		return nil, nil
	}
	var ec exitCoder
	if errors.As(runErr, &ec) {
		logrus.Warnf("%s exited with status %d", name, ec.ExitCode())
		return runErr, nil
	}
	return nil, fmt.Errorf("running %s: %w", name, runErr)
}

// withExit attaches the child's exit status to a read error.
func withExit(readErr, exitErr error) error {
	if exitErr == nil {
		return readErr
	}
	return fmt.Errorf("%w (child process: %w)", readErr, exitErr)
}

// removeTemp deletes a temporary file, tolerating one that was never created.
func removeTemp(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("removing temporary file %s: %v", path, err)
	}
}
