package provision

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// State is the outcome of probing a dependency.
type State int

const (
	// StateAbsent means the tool is missing or its version could not be
	// determined.
	StateAbsent State = iota
	// StateMismatched means the tool is present at a different version.
	StateMismatched
	// StateInstalled means the tool is present and satisfies the
	// requirement.
	StateInstalled
)

func (s State) String() string {
	switch s {
	case StateInstalled:
		return "installed"
	case StateMismatched:
		return "mismatched"
	default:
		return "absent"
	}
}

// Probe is the detected state of one dependency.
type Probe struct {
	State State
	// Version is the detected version, empty when absent.
	Version string
	// Err is the reason the version could not be determined. It is kept
	// for diagnostics only; an absent tool is never fatal.
	Err error
}

var errNoVersion = errors.New("no version in output")

// ParseVersion extracts the version at position token from the output of
// a version query. The token must start with a digit.
func ParseVersion(output string, token int) (string, error) {
	fields := strings.Fields(output)
	if token < 0 || token >= len(fields) {
		return "", fmt.Errorf("%w: %d words", errNoVersion, len(fields))
	}
	version := fields[token]
	if r := []rune(version)[0]; !unicode.IsDigit(r) {
		return "", fmt.Errorf("%w: unexpected token %q", errNoVersion, version)
	}
	return version, nil
}

// probe runs the dependency's version query. It never fails: every error
// collapses into StateAbsent.
func (p *Provisioner) probe(ctx context.Context, dep Dependency) Probe {
	out, err := p.runner.Output(ctx, dep.Query.Command)
	if err != nil {
		return Probe{State: StateAbsent, Err: err}
	}
	version, err := ParseVersion(string(out), dep.Query.Token)
	if err != nil {
		return Probe{State: StateAbsent, Err: err}
	}
	if dep.Required == AnyVersion || version == dep.Required {
		return Probe{State: StateInstalled, Version: version}
	}
	return Probe{State: StateMismatched, Version: version}
}
