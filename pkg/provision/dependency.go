package provision

import (
	"fmt"
	"strings"

	"github.com/facewatch/toolkit/pkg/platform"
	"github.com/facewatch/toolkit/pkg/shell"
)

const (
	// AnyVersion accepts whatever version is installed.
	AnyVersion = "any"
	// DefaultCMakeVersion is the CMake release the native build is pinned to.
	DefaultCMakeVersion = "3.27.4"
)

// Target selects an install plan by host identity. An empty Family is the
// plan for every distribution of that OS.
type Target struct {
	OS     string
	Family string
}

// Step is one element of an install plan: either a command line or an
// instruction the user has to carry out by hand.
type Step struct {
	// Line is a command line. ${NAME} references are expanded from the
	// dependency's variables after word splitting.
	Line string
	// Manual is a message printed instead of running a command.
	Manual string
}

// Cmd returns a command step.
func Cmd(line string) Step { return Step{Line: line} }

// Manual returns a manual-instruction step.
func Manual(message string) Step { return Step{Manual: message} }

// Fallback is what happens when no plan matches the host.
type Fallback int

const (
	// FallbackNone silently does nothing.
	FallbackNone Fallback = iota
	// FallbackManual prints ManualMessage.
	FallbackManual
)

// VersionQuery describes how to read the installed version of a tool.
type VersionQuery struct {
	// Command prints the version.
	Command shell.Command
	// Token is the index of the version among the whitespace-separated
	// words of the output.
	Token int
}

// Dependency is the declarative description of one required tool or
// library and how to install it on each supported platform.
type Dependency struct {
	// Name is the display name.
	Name string
	// Required is an exact version, or AnyVersion.
	Required string
	// Query probes the installed version.
	Query VersionQuery
	// Plans maps a host to its install steps.
	Plans map[Target][]Step
	// Vars returns extra variables for step expansion. VERSION and TEMP
	// are always set.
	Vars func(host platform.Host) map[string]string
	// Fallback applies when Plans has no entry for the host.
	Fallback Fallback
	// ManualMessage is printed for FallbackManual. A %s verb, if present,
	// receives the distribution id.
	ManualMessage string
}

// Plan resolves the install steps for host. An exact family match wins
// over the OS-wide plan.
func (d Dependency) Plan(host platform.Host) ([]Step, bool) {
	if family := host.Family(); family != "" {
		if steps, ok := d.Plans[Target{OS: host.OS, Family: family}]; ok {
			return steps, true
		}
	}
	steps, ok := d.Plans[Target{OS: host.OS}]
	return steps, ok
}

// Commands expands a plan into concrete commands for host. Manual steps
// are returned as nil commands so indices line up with steps.
func (d Dependency) Commands(host platform.Host, steps []Step) ([]*shell.Command, error) {
	vars := map[string]string{
		"VERSION": d.Required,
		"TEMP":    host.TempDir,
	}
	if d.Vars != nil {
		for k, v := range d.Vars(host) {
			vars[k] = v
		}
	}

	commands := make([]*shell.Command, len(steps))
	for i, step := range steps {
		if step.Line == "" {
			continue
		}
		cmd, err := shell.Parse(step.Line, vars)
		if err != nil {
			return nil, fmt.Errorf("%s install step %d: %w", d.Name, i+1, err)
		}
		commands[i] = &cmd
	}
	return commands, nil
}

func (d Dependency) fallbackMessage(host platform.Host) string {
	if !strings.Contains(d.ManualMessage, "%s") {
		return d.ManualMessage
	}
	distro := host.Distro
	if distro == "" {
		distro = "unknown"
	}
	return fmt.Sprintf(d.ManualMessage, distro)
}

// DefaultDependencies returns the build dependencies of the native
// detector application: CMake pinned to cmakeVersion, OpenCV and Qt.
func DefaultDependencies(cmakeVersion string) []Dependency {
	if cmakeVersion == "" {
		cmakeVersion = DefaultCMakeVersion
	}
	return []Dependency{CMake(cmakeVersion), OpenCV(), Qt()}
}

// CMake installs a pinned CMake release. The Linux installer is the
// self-extracting script published upstream, so it works on any
// distribution.
func CMake(version string) Dependency {
	const release = "https://github.com/Kitware/CMake/releases/download/v${VERSION}/cmake-${VERSION}"
	return Dependency{
		Name:     "cmake",
		Required: version,
		Query: VersionQuery{
			Command: shell.MustParse("cmake --version"),
			Token:   2,
		},
		Plans: map[Target][]Step{
			{OS: platform.Linux}: {
				Cmd("wget " + release + "-linux-${CMAKE_ARCH}.sh -O cmake.sh"),
				Cmd("sudo sh cmake.sh --prefix=/usr/local --skip-license"),
				Cmd("rm cmake.sh"),
			},
			{OS: platform.Darwin}: {
				Cmd("brew install cmake"),
			},
			{OS: platform.Windows}: {
				Cmd("curl -L " + release + "-windows-${CMAKE_ARCH}.msi -o ${CMAKE_MSI}"),
				Cmd("msiexec /i ${CMAKE_MSI} /quiet /norestart"),
				Cmd("cmd /C del ${CMAKE_MSI}"),
			},
		},
		Vars: func(host platform.Host) map[string]string {
			return map[string]string{
				"CMAKE_ARCH": cmakeArch(host),
				"CMAKE_MSI":  windowsJoin(host.TempDir, "cmake.msi"),
			}
		},
	}
}

// OpenCV installs the OpenCV C++ development package.
func OpenCV() Dependency {
	return Dependency{
		Name:     "opencv",
		Required: AnyVersion,
		Query: VersionQuery{
			Command: shell.MustParse("pkg-config --modversion opencv4"),
		},
		Plans: map[Target][]Step{
			{OS: platform.Linux, Family: platform.FamilyArch}: {
				Cmd("sudo pacman -Sy --needed opencv"),
			},
			{OS: platform.Linux, Family: platform.FamilyDebian}: {
				Cmd("sudo apt update"),
				Cmd("sudo apt install -y libopencv-dev"),
			},
			{OS: platform.Darwin}: {
				Cmd("brew install opencv"),
			},
			{OS: platform.Windows}: {
				Cmd("winget install -e --id opencv.opencv"),
			},
		},
		// Unknown distributions are skipped without a message. Qt prints
		// one instead; the two have not been reconciled.
		Fallback: FallbackNone,
	}
}

// Qt installs the Qt 6 widgets toolkit used by the desktop viewer.
func Qt() Dependency {
	return Dependency{
		Name:     "qt",
		Required: AnyVersion,
		Query: VersionQuery{
			Command: shell.MustParse("pkg-config --modversion Qt6Core"),
		},
		Plans: map[Target][]Step{
			{OS: platform.Linux, Family: platform.FamilyArch}: {
				Cmd("sudo pacman -Sy --needed qt6-base"),
			},
			{OS: platform.Linux, Family: platform.FamilyDebian}: {
				Cmd("sudo apt update"),
				Cmd("sudo apt install -y qt6-base-dev"),
			},
			{OS: platform.Darwin}: {
				Cmd("brew install qt"),
			},
			{OS: platform.Windows}: {
				Manual("Qt has no unattended installer for Windows. Download the Qt Online Installer from https://www.qt.io/download-qt-installer and add its bin directory to PATH."),
			},
		},
		Fallback:      FallbackManual,
		ManualMessage: `Unsupported distribution "%s": install the Qt 6 base development package with your package manager.`,
	}
}

func cmakeArch(host platform.Host) string {
	if host.Arch != "arm64" {
		return "x86_64"
	}
	if host.OS == platform.Linux {
		return "aarch64"
	}
	return "arm64"
}

func windowsJoin(dir, file string) string {
	if dir == "" {
		return file
	}
	return strings.TrimRight(dir, `\/`) + `\` + file
}
