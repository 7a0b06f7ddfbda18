//go:build integration

package platform

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

// readOSRelease starts image and parses its os-release file.
func readOSRelease(t *testing.T, ctx context.Context, image string) map[string]string {
	t.Logf("Starting %s container...", image)
	ctr, err := testcontainers.Run(ctx, image, testcontainers.WithCmd("sleep", "infinity"))
	require.NoError(t, err)
	testcontainers.CleanupContainer(t, ctr)

	rc, err := ctr.CopyFileFromContainer(ctx, "/usr/lib/os-release")
	require.NoError(t, err)
	defer rc.Close()

	return ParseOSRelease(rc)
}

// TestIntegration_DistroFamilies checks family matching against the ids
// real distribution images report.
func TestIntegration_DistroFamilies(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		image  string
		family string
	}{
		{image: "ubuntu:22.04", family: FamilyDebian},
		{image: "debian:bookworm", family: FamilyDebian},
		{image: "archlinux:latest", family: FamilyArch},
		{image: "fedora:40", family: ""},
	}
	for _, tt := range tests {
		t.Run(tt.image, func(t *testing.T) {
			values := readOSRelease(t, ctx, tt.image)
			id := values["ID"]
			require.NotEmpty(t, id)
			t.Logf("%s reports ID=%s", tt.image, id)
			require.Equal(t, tt.family, Family(id))
		})
	}
}
