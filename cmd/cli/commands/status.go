package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/docker/go-units"
	"github.com/facewatch/toolkit/pkg/artifact"
	"github.com/facewatch/toolkit/pkg/platform"
	"github.com/facewatch/toolkit/pkg/provision"
	"github.com/facewatch/toolkit/pkg/status"
	"github.com/facewatch/toolkit/pkg/training"
	"github.com/facewatch/toolkit/pkg/training/ultralytics"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newStatusCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "status",
		Short: "Show the host and the state of each build dependency",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd.Context())
			ctx := cmd.Context()
			runner := newRunner(s.log, io.Discard)
			host := detectHost(ctx, runner)
			deps, err := provision.Select(provision.DefaultDependencies(s.settings.Setup.CMakeVersion), s.settings.Setup.Only)
			if err != nil {
				return handleError(err, "invalid dependency selection")
			}

			provisioner := provision.New(runner, host, s.log, status.NoopPrinter())
			probes := make([]provision.Probe, len(deps))
			var hardware platform.Hardware

			// Probes are read-only, so running them together is safe.
			g, gctx := errgroup.WithContext(ctx)
			for i, dep := range deps {
				i, dep := i, dep
				g.Go(func() error {
					probes[i] = provisioner.Probe(gctx, dep)
					return nil
				})
			}
			g.Go(func() error {
				var err error
				hardware, err = detectHardware()
				if err != nil {
					s.log.Warnf("Hardware detection incomplete: %v", err)
				}
				return nil
			})
			if err := g.Wait(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printHost(out, host, hardware)
			fmt.Fprintf(out, "Model:   %s\n\n", exportStatus(s.settings.Train))
			return renderDependencies(out, deps, probes)
		},
	}
	return c
}

func printHost(w io.Writer, host platform.Host, hw platform.Hardware) {
	distro := host.Distro
	if distro == "" {
		distro = "-"
	}
	fmt.Fprintf(w, "OS:      %s/%s\n", host.OS, host.Arch)
	fmt.Fprintf(w, "Distro:  %s\n", distro)
	fmt.Fprintf(w, "CPU:     %s (%d cores, %d threads)\n", hw.CPU, hw.PhysicalCores, hw.LogicalCores)
	if len(hw.Features) > 0 {
		fmt.Fprintf(w, "SIMD:    %s\n", strings.Join(hw.Features, " "))
	}
	if len(hw.GPUs) == 0 {
		fmt.Fprintln(w, "GPUs:    none detected")
	}
	for _, gpu := range hw.GPUs {
		fmt.Fprintf(w, "GPU %s\n", gpu)
	}
}

// exportStatus describes the model the last training run exported and
// whether the file still matches the descriptor written with it.
func exportStatus(config training.Config) string {
	weights := filepath.Join(config.RunDir(), "weights", "best.pt")
	path, ok := ultralytics.DeriveExportPath(weights, config.Format)
	if !ok {
		return fmt.Sprintf("unknown export format %q", config.Format)
	}
	if _, err := os.Stat(path); err != nil {
		return "none exported (" + path + ")"
	}
	desc, err := artifact.ReadDescriptor(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return path + " (no descriptor)"
	case err != nil:
		return fmt.Sprintf("%s (modified: %v)", path, err)
	}
	return fmt.Sprintf("%s (%s, %s)", path, units.HumanSize(float64(desc.Size)), desc.Digest)
}

func renderDependencies(w io.Writer, deps []provision.Dependency, probes []provision.Probe) error {
	colorize := isTerminal(w)
	table := tablewriter.NewTable(w)
	table.Header("DEPENDENCY", "REQUIRED", "DETECTED", "STATE")
	for i, dep := range deps {
		detected := probes[i].Version
		if detected == "" {
			detected = "-"
		}
		if err := table.Append([]string{dep.Name, dep.Required, detected, stateLabel(probes[i].State, colorize)}); err != nil {
			return err
		}
	}
	return table.Render()
}

func stateLabel(state provision.State, colorize bool) string {
	c := color.New(color.FgRed)
	switch state {
	case provision.StateInstalled:
		c = color.New(color.FgGreen)
	case provision.StateMismatched:
		c = color.New(color.FgYellow)
	}
	if !colorize {
		c.DisableColor()
	}
	return c.Sprint(state.String())
}
