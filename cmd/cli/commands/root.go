package commands

import (
	"context"
	"io"
	"os"

	"github.com/facewatch/toolkit/pkg/config"
	"github.com/facewatch/toolkit/pkg/logging"
	"github.com/facewatch/toolkit/pkg/platform"
	"github.com/facewatch/toolkit/pkg/shell"
	"github.com/facewatch/toolkit/pkg/training"
	"github.com/facewatch/toolkit/pkg/training/ultralytics"
	"github.com/spf13/cobra"
)

// Seams replaced by tests.
var (
	newRunner = func(log logging.Logger, output io.Writer) shell.Runner {
		return shell.NewExecRunner(log, output, os.Stdin)
	}
	detectHost   = platform.Detect
	newFramework = func(log logging.Logger, output io.Writer, binary string) training.Framework {
		return ultralytics.New(log, output, ultralytics.WithBinary(binary))
	}
	detectHardware = platform.DetectHardware
	newLogger      = logging.New
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	debug      bool
	logFile    string
	configFile string
}

// session is what every command runs with once persistent flags are
// resolved.
type session struct {
	log      logging.Logger
	settings config.File
	closer   io.Closer
}

type sessionKey struct{}

func sessionFrom(ctx context.Context) *session {
	if s, ok := ctx.Value(sessionKey{}).(*session); ok {
		return s
	}
	return &session{log: logging.Discard(), settings: config.Default()}
}

// NewRootCmd builds the facewatch command tree.
func NewRootCmd() *cobra.Command {
	root, _ := newRootCmd()
	return root
}

// Execute runs the command tree with args. The session opened for the
// command, log file included, is released whether or not it failed.
func Execute(ctx context.Context, args []string) error {
	root, release := newRootCmd()
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if closeErr := release(); err == nil {
		err = closeErr
	}
	return err
}

func newRootCmd() (*cobra.Command, func() error) {
	var (
		opts   globalOptions
		opened *session
	)
	root := &cobra.Command{
		Use:   "facewatch",
		Short: "Prepare a build host and train the face detector",
		Long: `facewatch prepares a machine to build the native face detector viewer and
produces the detector model it loads.

  facewatch setup    install CMake, OpenCV and Qt with the platform package manager
  facewatch train    fine-tune the pretrained detector and export it to ONNX
  facewatch status   show host identity and dependency state`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := config.Load(opts.configFile)
			if err != nil {
				return err
			}
			log, closer := newLogger(logging.Options{
				Debug:  opts.debug,
				File:   opts.logFile,
				Output: cmd.ErrOrStderr(),
			})
			opened = &session{
				log:      log,
				settings: settings,
				closer:   closer,
			}
			cmd.SetContext(context.WithValue(cmd.Context(), sessionKey{}, opened))
			return nil
		},
	}

	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write logs to a rotated file instead of stderr")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "Path to a YAML configuration file")

	root.AddCommand(
		newSetupCmd(),
		newTrainCmd(),
		newStatusCmd(),
	)
	release := func() error {
		if opened == nil {
			return nil
		}
		return opened.close()
	}
	return root, release
}

func (s *session) close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
