package provision

import (
	"testing"

	"github.com/facewatch/toolkit/pkg/platform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planLines expands dep's plan for host into display strings; manual
// steps are rendered as "manual: <message>".
func planLines(t *testing.T, dep Dependency, host platform.Host) []string {
	t.Helper()
	steps, ok := dep.Plan(host)
	if !ok {
		return nil
	}
	commands, err := dep.Commands(host, steps)
	require.NoError(t, err)
	lines := make([]string, len(steps))
	for i, step := range steps {
		if step.Manual != "" {
			lines[i] = "manual: " + step.Manual
			continue
		}
		lines[i] = commands[i].String()
	}
	return lines
}

func TestCMakePlans(t *testing.T) {
	dep := CMake("3.27.4")
	tests := []struct {
		name string
		host platform.Host
		want []string
	}{
		{
			name: "linux amd64 any distro",
			host: platform.Host{OS: platform.Linux, Arch: "amd64", Distro: "fedora"},
			want: []string{
				"wget https://github.com/Kitware/CMake/releases/download/v3.27.4/cmake-3.27.4-linux-x86_64.sh -O cmake.sh",
				"sudo sh cmake.sh --prefix=/usr/local --skip-license",
				"rm cmake.sh",
			},
		},
		{
			name: "linux arm64 ubuntu",
			host: platform.Host{OS: platform.Linux, Arch: "arm64", Distro: "ubuntu"},
			want: []string{
				"wget https://github.com/Kitware/CMake/releases/download/v3.27.4/cmake-3.27.4-linux-aarch64.sh -O cmake.sh",
				"sudo sh cmake.sh --prefix=/usr/local --skip-license",
				"rm cmake.sh",
			},
		},
		{
			name: "darwin",
			host: platform.Host{OS: platform.Darwin, Arch: "arm64"},
			want: []string{"brew install cmake"},
		},
		{
			name: "windows stages installer in TEMP",
			host: platform.Host{OS: platform.Windows, Arch: "amd64", TempDir: `C:\Users\me\AppData\Local\Temp\`},
			want: []string{
				`curl -L https://github.com/Kitware/CMake/releases/download/v3.27.4/cmake-3.27.4-windows-x86_64.msi -o C:\Users\me\AppData\Local\Temp\cmake.msi`,
				`msiexec /i C:\Users\me\AppData\Local\Temp\cmake.msi /quiet /norestart`,
				`cmd /C del C:\Users\me\AppData\Local\Temp\cmake.msi`,
			},
		},
		{
			name: "unsupported os",
			host: platform.Host{OS: "freebsd"},
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, planLines(t, dep, tt.host))
		})
	}
}

func TestOpenCVPlans(t *testing.T) {
	dep := OpenCV()
	tests := []struct {
		distro string
		want   []string
	}{
		{distro: "arch", want: []string{"sudo pacman -Sy --needed opencv"}},
		{distro: "ubuntu", want: []string{"sudo apt update", "sudo apt install -y libopencv-dev"}},
		{distro: "debian", want: []string{"sudo apt update", "sudo apt install -y libopencv-dev"}},
		{distro: "fedora", want: nil},
		{distro: "", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.distro, func(t *testing.T) {
			host := platform.Host{OS: platform.Linux, Arch: "amd64", Distro: tt.distro}
			assert.Equal(t, tt.want, planLines(t, dep, host))
		})
	}

	assert.Equal(t, []string{"brew install opencv"}, planLines(t, dep, platform.Host{OS: platform.Darwin}))
	assert.Equal(t, []string{"winget install -e --id opencv.opencv"}, planLines(t, dep, platform.Host{OS: platform.Windows}))
}

func TestQtWindowsIsManual(t *testing.T) {
	lines := planLines(t, Qt(), platform.Host{OS: platform.Windows})
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "manual: ")
	assert.Contains(t, lines[0], "qt.io")
}

func TestFallbackMessage(t *testing.T) {
	dep := Qt()
	assert.Contains(t, dep.fallbackMessage(platform.Host{OS: platform.Linux, Distro: "gentoo"}), `"gentoo"`)
	assert.Contains(t, dep.fallbackMessage(platform.Host{OS: platform.Linux}), `"unknown"`)
}

func TestDefaultDependencies(t *testing.T) {
	deps := DefaultDependencies("")
	require.Len(t, deps, 3)
	assert.Equal(t, "cmake", deps[0].Name)
	assert.Equal(t, DefaultCMakeVersion, deps[0].Required)
	assert.Equal(t, "opencv", deps[1].Name)
	assert.Equal(t, FallbackNone, deps[1].Fallback)
	assert.Equal(t, "qt", deps[2].Name)
	assert.Equal(t, FallbackManual, deps[2].Fallback)

	assert.Equal(t, "3.30.0", DefaultDependencies("3.30.0")[0].Required)
}

func TestSelect(t *testing.T) {
	deps := DefaultDependencies("")

	all, err := Select(deps, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := Select(deps, []string{"qt", "cmake"})
	require.NoError(t, err)
	require.Len(t, some, 2)
	assert.Equal(t, "cmake", some[0].Name)
	assert.Equal(t, "qt", some[1].Name)

	_, err = Select(deps, []string{"vulkan"})
	assert.ErrorIs(t, err, ErrUnknownDependency)
}
