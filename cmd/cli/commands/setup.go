package commands

import (
	"strings"

	"github.com/facewatch/toolkit/pkg/provision"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newSetupCmd() *cobra.Command {
	var (
		cmakeVersion string
		only         []string
		dryRun       bool
	)
	c := &cobra.Command{
		Use:   "setup",
		Short: "Install the build dependencies of the detector viewer",
		Long: `Checks CMake, OpenCV and Qt and installs whatever is missing with the
platform package manager (apt, pacman, brew or winget). The first failing
install command aborts setup with exit status 1.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd.Context())
			settings := s.settings.Setup
			if cmd.Flags().Changed("cmake-version") {
				settings.CMakeVersion = cmakeVersion
			}
			if cmd.Flags().Changed("only") {
				settings.Only = only
			}

			deps, err := provision.Select(provision.DefaultDependencies(settings.CMakeVersion), settings.Only)
			if err != nil {
				return withExitCode(handleError(err, "invalid dependency selection"), exitFailure)
			}

			runner := newRunner(s.log, cmd.OutOrStdout())
			host := detectHost(cmd.Context(), runner)
			s.log.Infof("Detected host os=%s arch=%s distro=%q", host.OS, host.Arch, host.Distro)

			provisioner := provision.New(runner, host, s.log, asPrinter(cmd), provision.WithDryRun(dryRun))
			report, err := provisioner.Run(cmd.Context(), deps)
			if err != nil {
				return withExitCode(handleError(err, "setup failed"), exitFailure)
			}

			if installed := report.Installed(); len(installed) > 0 && !dryRun {
				highlight := color.New(color.FgGreen)
				if !isTerminal(cmd.OutOrStdout()) {
					highlight.DisableColor()
				}
				cmd.Println(highlight.Sprintf("Installed %s.", strings.Join(installed, ", ")))
			}
			return nil
		},
	}
	c.Flags().StringVar(&cmakeVersion, "cmake-version", provision.DefaultCMakeVersion, "Required CMake version")
	c.Flags().StringSliceVar(&only, "only", nil, "Only provision the named dependencies (cmake, opencv, qt)")
	c.Flags().BoolVar(&dryRun, "dry-run", false, "Print the install commands without running them")
	return c
}
