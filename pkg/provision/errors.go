package provision

import (
	"errors"
	"fmt"

	"github.com/facewatch/toolkit/pkg/process"
	"github.com/facewatch/toolkit/pkg/shell"
)

// ErrUnknownDependency is returned when a dependency is selected by a name
// that is not in the catalog.
var ErrUnknownDependency = errors.New("unknown dependency")

// CommandError reports the install command that aborted provisioning.
type CommandError struct {
	// Dependency is the dependency being installed.
	Dependency string
	// Command is the failing command.
	Command shell.Command
	// Err is the underlying failure.
	Err error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("installing %s: %q failed: %v", e.Dependency, e.Command.String(), e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExitCode returns the command's exit status, when it ran at all.
func (e *CommandError) ExitCode() (int, bool) {
	return process.ExitCode(e.Err)
}
