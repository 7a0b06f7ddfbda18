package commands

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/facewatch/toolkit/pkg/logging"
	"github.com/facewatch/toolkit/pkg/platform"
	"github.com/facewatch/toolkit/pkg/shell"
	"github.com/facewatch/toolkit/pkg/training"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns its combined
// output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root, release := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.ExecuteContext(context.Background())
	require.NoError(t, release())
	return out.String(), err
}

// stubHost pins host detection for the duration of the test.
func stubHost(t *testing.T, host platform.Host) {
	t.Helper()
	orig := detectHost
	detectHost = func(context.Context, shell.Runner) platform.Host { return host }
	t.Cleanup(func() { detectHost = orig })
}

func stubRunner(t *testing.T, runner shell.Runner) {
	t.Helper()
	orig := newRunner
	newRunner = func(logging.Logger, io.Writer) shell.Runner { return runner }
	t.Cleanup(func() { newRunner = orig })
}

func stubFramework(t *testing.T, framework training.Framework) {
	t.Helper()
	orig := newFramework
	newFramework = func(logging.Logger, io.Writer, string) training.Framework { return framework }
	t.Cleanup(func() { newFramework = orig })
}

func stubHardware(t *testing.T, hw platform.Hardware, err error) {
	t.Helper()
	orig := detectHardware
	detectHardware = func() (platform.Hardware, error) { return hw, err }
	t.Cleanup(func() { detectHardware = orig })
}

var ubuntu = platform.Host{OS: platform.Linux, Arch: "amd64", Distro: "ubuntu", TempDir: "/tmp"}
