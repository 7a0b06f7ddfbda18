package commands

import (
	"errors"
	"io"
	"os"

	"github.com/facewatch/toolkit/pkg/process"
	"github.com/facewatch/toolkit/pkg/status"
	"github.com/moby/term"
	pkgerrors "github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const (
	// exitFailure is the exit status for any failure without a more
	// specific one.
	exitFailure = 1
)

// exitError pins the process exit status for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

// withExitCode makes the process exit with code when err reaches main.
func withExitCode(err error, code int) error {
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by the command tree onto a process exit
// status: a pinned code first, then the exit status of a failed external
// tool, then 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pinned *exitError
	if errors.As(err, &pinned) {
		return pinned.code
	}
	if code, ok := process.ExitCode(err); ok {
		return code
	}
	return exitFailure
}

// handleError adds the user-facing context for a failed operation.
func handleError(err error, message string) error {
	if errors.Is(err, os.ErrNotExist) {
		return pkgerrors.Wrapf(err, "%s (check the path)", message)
	}
	return pkgerrors.Wrap(err, message)
}

// commandPrinter wraps a cobra.Command to implement status.Printer
type commandPrinter struct {
	cmd *cobra.Command
}

// Printf implements Printer.Printf by delegating to cobra.Command.Printf
func (cp *commandPrinter) Printf(format string, args ...any) {
	cp.cmd.Printf(format, args...)
}

// Println implements Printer.Println by delegating to cobra.Command.Println
func (cp *commandPrinter) Println(args ...any) {
	cp.cmd.Println(args...)
}

// Write implements Printer.Write by delegating to cobra.Command's output writer
func (cp *commandPrinter) Write(p []byte) (n int, err error) {
	return cp.cmd.OutOrStdout().Write(p)
}

// asPrinter wraps a cobra.Command to implement status.Printer
func asPrinter(cmd *cobra.Command) status.Printer {
	return &commandPrinter{cmd: cmd}
}

// isTerminal reports whether w is attached to a terminal.
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		_, isTerm := term.GetFdInfo(f)
		return isTerm
	}
	return false
}
