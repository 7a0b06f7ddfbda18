// Package config loads the optional toolkit configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/facewatch/toolkit/pkg/provision"
	"github.com/facewatch/toolkit/pkg/training"
	"gopkg.in/yaml.v2"
)

// File is the on-disk configuration. Every field defaults to the value
// the toolkit uses without a configuration file.
type File struct {
	Setup Setup           `yaml:"setup"`
	Train training.Config `yaml:"train"`
}

// Setup configures the provisioner.
type Setup struct {
	// CMakeVersion is the required CMake release.
	CMakeVersion string `yaml:"cmake_version"`
	// Only restricts provisioning to the named dependencies.
	Only []string `yaml:"only"`
}

// Default returns the built-in configuration.
func Default() File {
	return File{
		Setup: Setup{CMakeVersion: provision.DefaultCMakeVersion},
		Train: training.DefaultConfig(),
	}
}

// Load reads path over the defaults. Unknown keys are rejected so typos do
// not silently fall back to a default.
func Load(path string) (File, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.SetStrict(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
