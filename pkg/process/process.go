// Package process runs external tools to completion with output streaming,
// interrupt-on-cancel and an output tail attached to failures.
package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/facewatch/toolkit/pkg/internal/utils"
	"github.com/facewatch/toolkit/pkg/tailbuffer"
)

const (
	// tailSize is the amount of trailing output attached to a failure.
	tailSize = 2048
	// waitDelay bounds how long an interrupted child may take to exit
	// before it is killed.
	waitDelay = 10 * time.Second
)

// Config holds configuration for a single external process run.
type Config struct {
	// Name is the display name of the process (e.g., "yolo train").
	Name string
	// Binary is the executable name or path.
	Binary string
	// Args are the command line arguments.
	Args []string
	// Dir is the working directory; empty means the current directory.
	Dir string
	// Env is appended to the current environment.
	Env []string
	// Logger provides logging functionality.
	Logger Logger
	// Output receives the combined stdout and stderr of the process. It may
	// be nil.
	Output io.Writer
	// Input is connected to the process's stdin. It may be nil.
	Input io.Reader
}

// Logger interface for process logging.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// ExitError reports a process that ran but exited unsuccessfully.
type ExitError struct {
	// Name is the display name of the process.
	Name string
	// Code is the exit status, or -1 if the process was terminated by a
	// signal.
	Code int
	// Output is the tail of the combined process output.
	Output string
	// Err is the underlying *exec.ExitError.
	Err error
}

func (e *ExitError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s exit status: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("%s exit status: %v\nwith output: %s", e.Name, e.Err, e.Output)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the exit status carried by err, and whether err carried
// one at all.
func ExitCode(err error) (int, bool) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code > 0 {
		return exitErr.Code, true
	}
	return 0, false
}

// Run starts the configured process and blocks until it exits or ctx is
// cancelled. A non-zero exit yields an *ExitError.
func Run(ctx context.Context, config Config) error {
	sanitizedArgs := make([]string, len(config.Args))
	for i, arg := range config.Args {
		sanitizedArgs[i] = utils.SanitizeForLog(arg)
	}
	config.Logger.Infof("%s: %s %v", config.Name, config.Binary, sanitizedArgs)

	tailBuf := tailbuffer.NewTailBuffer(tailSize)
	out := io.Writer(tailBuf)
	if config.Output != nil {
		out = io.MultiWriter(config.Output, tailBuf)
	}

	command := exec.CommandContext(ctx, config.Binary, config.Args...)
	command.Cancel = func() error {
		if runtime.GOOS == "windows" {
			return command.Process.Kill()
		}
		return command.Process.Signal(os.Interrupt)
	}
	command.WaitDelay = waitDelay
	command.Dir = config.Dir
	if len(config.Env) > 0 {
		command.Env = append(os.Environ(), config.Env...)
	}
	command.Stdin = config.Input
	command.Stdout = out
	command.Stderr = out

	if err := command.Start(); err != nil {
		return fmt.Errorf("unable to start %s: %w", config.Name, err)
	}

	err := command.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s interrupted: %w", config.Name, ctxErr)
	}
	if err == nil {
		config.Logger.Debugf("%s finished", config.Name)
		return nil
	}

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return fmt.Errorf("%s failed: %w", config.Name, err)
	}
	var tail strings.Builder
	if _, err := io.Copy(&tail, tailBuf); err != nil {
		config.Logger.Warnf("Failed to read %s output: %v", config.Name, err)
	}
	return &ExitError{
		Name:   config.Name,
		Code:   exitErr.ExitCode(),
		Output: strings.TrimSpace(tail.String()),
		Err:    exitErr,
	}
}
