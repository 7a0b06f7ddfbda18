// Package provision checks for and installs the host dependencies of the
// native detector build.
package provision

import (
	"context"
	"fmt"

	"github.com/facewatch/toolkit/pkg/logging"
	"github.com/facewatch/toolkit/pkg/platform"
	"github.com/facewatch/toolkit/pkg/shell"
	"github.com/facewatch/toolkit/pkg/status"
)

// Action is what the provisioner did for a dependency.
type Action int

const (
	// ActionNone means no plan matched the host and nothing was done.
	ActionNone Action = iota
	// ActionSkipped means the dependency was already installed.
	ActionSkipped
	// ActionInstalled means the install plan ran.
	ActionInstalled
	// ActionManual means the user was told to install it by hand.
	ActionManual
)

func (a Action) String() string {
	switch a {
	case ActionSkipped:
		return "skipped"
	case ActionInstalled:
		return "installed"
	case ActionManual:
		return "manual"
	default:
		return "none"
	}
}

// Outcome records the handling of one dependency.
type Outcome struct {
	Dependency string
	Probe      Probe
	Action     Action
	// Commands are the commands run, or that would run in a dry run.
	Commands []shell.Command
}

// Report lists the outcomes in dependency order.
type Report struct {
	Outcomes []Outcome
}

// Installed returns the names of the dependencies whose plan ran.
func (r Report) Installed() []string {
	var names []string
	for _, o := range r.Outcomes {
		if o.Action == ActionInstalled {
			names = append(names, o.Dependency)
		}
	}
	return names
}

// Provisioner installs missing dependencies, one at a time.
type Provisioner struct {
	// runner executes probes and install commands.
	runner shell.Runner
	// host is the machine being provisioned.
	host platform.Host
	// log is the associated logger.
	log logging.Logger
	// printer receives user-facing progress.
	printer status.Printer
	// dryRun reports the plan without running install commands.
	dryRun bool
}

// Option configures a Provisioner.
type Option func(*Provisioner)

// WithDryRun disables execution of install commands.
func WithDryRun(dryRun bool) Option {
	return func(p *Provisioner) {
		p.dryRun = dryRun
	}
}

// New creates a Provisioner for host.
func New(runner shell.Runner, host platform.Host, log logging.Logger, printer status.Printer, opts ...Option) *Provisioner {
	p := &Provisioner{
		runner:  runner,
		host:    host,
		log:     log,
		printer: printer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe reports the installed state of dep without changing anything.
func (p *Provisioner) Probe(ctx context.Context, dep Dependency) Probe {
	return p.probe(ctx, dep)
}

// Run provisions deps in order. The first failing install command stops
// the run: no later command or dependency is attempted, and the error is a
// *CommandError. Partial progress is not rolled back.
func (p *Provisioner) Run(ctx context.Context, deps []Dependency) (Report, error) {
	var report Report
	for _, dep := range deps {
		outcome, err := p.provision(ctx, dep)
		report.Outcomes = append(report.Outcomes, outcome)
		if err != nil {
			return report, err
		}
	}
	if !p.dryRun {
		p.printer.Println("Setup completed successfully.")
	}
	return report, nil
}

func (p *Provisioner) provision(ctx context.Context, dep Dependency) (Outcome, error) {
	log := p.log.WithField("dependency", dep.Name)
	outcome := Outcome{Dependency: dep.Name}

	outcome.Probe = p.probe(ctx, dep)
	if outcome.Probe.Err != nil {
		log.Debugf("Version probe failed, assuming not installed: %v", outcome.Probe.Err)
	}
	if outcome.Probe.State == StateInstalled {
		outcome.Action = ActionSkipped
		p.printer.Printf("%s %s is already installed.\n", dep.Name, outcome.Probe.Version)
		return outcome, nil
	}
	if outcome.Probe.State == StateMismatched {
		log.Infof("Found version %s, need %s", outcome.Probe.Version, dep.Required)
	}

	steps, ok := dep.Plan(p.host)
	if !ok {
		return p.fallback(dep, outcome), nil
	}
	commands, err := dep.Commands(p.host, steps)
	if err != nil {
		return outcome, err
	}

	outcome.Action = ActionManual
	for _, cmd := range commands {
		if cmd != nil {
			outcome.Action = ActionInstalled
			break
		}
	}
	if outcome.Action == ActionInstalled {
		if dep.Required == AnyVersion {
			p.printer.Printf("Installing %s...\n", dep.Name)
		} else {
			p.printer.Printf("Installing %s %s...\n", dep.Name, dep.Required)
		}
	}

	for i, step := range steps {
		if step.Manual != "" {
			p.printer.Println(step.Manual)
			continue
		}
		cmd := *commands[i]
		outcome.Commands = append(outcome.Commands, cmd)
		if p.dryRun {
			p.printer.Printf("  would run: %s\n", cmd)
			continue
		}
		if err := p.runner.Run(ctx, cmd); err != nil {
			log.Errorf("Install command failed: %v", err)
			return outcome, &CommandError{Dependency: dep.Name, Command: cmd, Err: err}
		}
	}
	return outcome, nil
}

func (p *Provisioner) fallback(dep Dependency, outcome Outcome) Outcome {
	switch dep.Fallback {
	case FallbackManual:
		outcome.Action = ActionManual
		p.printer.Println(dep.fallbackMessage(p.host))
	default:
		outcome.Action = ActionNone
		p.log.WithField("dependency", dep.Name).Debugf("No install plan for %s/%s", p.host.OS, p.host.Distro)
	}
	return outcome
}

// Select returns the dependencies named in names, in catalog order. An
// empty names selects everything.
func Select(deps []Dependency, names []string) ([]Dependency, error) {
	if len(names) == 0 {
		return deps, nil
	}
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = false
	}
	var selected []Dependency
	for _, dep := range deps {
		if _, ok := wanted[dep.Name]; ok {
			wanted[dep.Name] = true
			selected = append(selected, dep)
		}
	}
	for _, n := range names {
		if !wanted[n] {
			return nil, fmt.Errorf("%w: %q", ErrUnknownDependency, n)
		}
	}
	return selected, nil
}
