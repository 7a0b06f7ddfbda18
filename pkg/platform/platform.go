// Package platform identifies the host the toolkit is running on.
package platform

import (
	"bufio"
	"context"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/facewatch/toolkit/pkg/shell"
)

const (
	Linux   = "linux"
	Darwin  = "darwin"
	Windows = "windows"
)

// Distribution families the installers know how to drive.
const (
	FamilyArch   = "arch"
	FamilyDebian = "debian"
)

// osReleasePath is consulted when lsb_release is unavailable.
var osReleasePath = "/etc/os-release"

var lsbReleaseCommand = shell.MustParse("lsb_release -is")

// Host describes the identity of the running machine.
type Host struct {
	// OS is the operating system, using GOOS naming.
	OS string
	// Arch is the CPU architecture, using GOARCH naming.
	Arch string
	// Distro is the lower-cased Linux distribution id, or empty when it is
	// unknown or the host is not Linux.
	Distro string
	// TempDir is the directory used to stage downloaded installers.
	TempDir string
}

// Family maps the host's distribution onto a known family.
func (h Host) Family() string {
	if h.OS != Linux {
		return ""
	}
	return Family(h.Distro)
}

// Family matches a distribution id against the known families by
// substring. Unknown ids map to the empty family.
func Family(distro string) string {
	distro = strings.ToLower(distro)
	switch {
	case strings.Contains(distro, "arch"):
		return FamilyArch
	case strings.Contains(distro, "ubuntu"), strings.Contains(distro, "debian"):
		return FamilyDebian
	default:
		return ""
	}
}

// Detect identifies the current host. Distribution lookup failures are
// not errors: the distribution is simply left empty.
func Detect(ctx context.Context, runner shell.Runner) Host {
	host := Host{
		OS:      runtime.GOOS,
		Arch:    runtime.GOARCH,
		TempDir: tempDir(runtime.GOOS),
	}
	if host.OS == Linux {
		host.Distro = DetectDistro(ctx, runner)
	}
	return host
}

// DetectDistro returns the lower-cased distribution id, asking lsb_release
// first and falling back to os-release.
func DetectDistro(ctx context.Context, runner shell.Runner) string {
	if out, err := runner.Output(ctx, lsbReleaseCommand); err == nil {
		if id := strings.ToLower(strings.TrimSpace(string(out))); id != "" {
			return id
		}
	}

	f, err := os.Open(osReleasePath)
	if err != nil {
		return ""
	}
	defer f.Close()
	return strings.ToLower(ParseOSRelease(f)["ID"])
}

// ParseOSRelease parses an os-release(5) file into its key/value pairs.
func ParseOSRelease(r io.Reader) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}
	return values
}

func tempDir(goos string) string {
	if goos == Windows {
		if dir := os.Getenv("TEMP"); dir != "" {
			return dir
		}
	}
	return os.TempDir()
}
