package shell

import (
	"context"
	"fmt"
	"io"
	"os/exec"

	"github.com/facewatch/toolkit/pkg/process"
)

// Runner executes commands. It is the seam between installers and the
// host: tests substitute a mock, the CLI uses ExecRunner.
//
//go:generate mockgen -source=runner.go -destination=mocks/mock_runner.go -package=mocks Runner
type Runner interface {
	// Run executes cmd, streaming its output, and fails on a non-zero exit.
	Run(ctx context.Context, cmd Command) error
	// Output executes cmd and returns its standard output.
	Output(ctx context.Context, cmd Command) ([]byte, error)
}

// ExecRunner runs commands as host processes.
type ExecRunner struct {
	// Logger receives lifecycle messages.
	Logger process.Logger
	// Stdout receives the streamed output of Run. It may be nil.
	Stdout io.Writer
	// Input feeds prompts from installers (sudo, pacman). It may be nil.
	Input io.Reader
}

// NewExecRunner creates a Runner backed by os/exec.
func NewExecRunner(log process.Logger, output io.Writer, input io.Reader) *ExecRunner {
	return &ExecRunner{Logger: log, Stdout: output, Input: input}
}

// Run implements Runner.Run.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	if len(cmd.Args) == 0 {
		return ErrEmptyCommand
	}
	return process.Run(ctx, process.Config{
		Name:   cmd.Name(),
		Binary: cmd.Args[0],
		Args:   cmd.Args[1:],
		Logger: r.Logger,
		Output: r.Stdout,
		Input:  r.Input,
	})
}

// Output implements Runner.Output.
func (r *ExecRunner) Output(ctx context.Context, cmd Command) ([]byte, error) {
	if len(cmd.Args) == 0 {
		return nil, ErrEmptyCommand
	}
	out, err := exec.CommandContext(ctx, cmd.Args[0], cmd.Args[1:]...).Output()
	if err != nil {
		return out, fmt.Errorf("%s: %w", cmd, err)
	}
	return out, nil
}
