// Package shell turns declarative command lines into argv and runs them.
package shell

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-shellwords"
)

// ErrEmptyCommand is returned when a command line contains no words.
var ErrEmptyCommand = errors.New("empty command")

// Command is a single external command, already split into argv.
type Command struct {
	Args []string
}

// Name returns the executable name.
func (c Command) Name() string {
	if len(c.Args) == 0 {
		return ""
	}
	return c.Args[0]
}

// String renders the command for display.
func (c Command) String() string {
	quoted := make([]string, len(c.Args))
	for i, arg := range c.Args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			quoted[i] = fmt.Sprintf("%q", arg)
		} else {
			quoted[i] = arg
		}
	}
	return strings.Join(quoted, " ")
}

// Parse splits line into words with POSIX-like quoting, then expands
// ${NAME} references in each word from vars. Expansion happens after
// splitting so substituted values (e.g. Windows paths) are never re-quoted
// or re-split.
func Parse(line string, vars map[string]string) (Command, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return Command{}, fmt.Errorf("parsing %q: %w", line, err)
	}
	if len(words) == 0 {
		return Command{}, ErrEmptyCommand
	}
	for i, word := range words {
		words[i] = os.Expand(word, func(name string) string {
			return vars[name]
		})
	}
	return Command{Args: words}, nil
}

// MustParse is like Parse but panics on error. It is meant for static
// command tables.
func MustParse(line string) Command {
	cmd, err := Parse(line, nil)
	if err != nil {
		panic(err)
	}
	return cmd
}
