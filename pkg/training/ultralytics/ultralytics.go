// Package ultralytics drives the Ultralytics YOLO command-line tool.
package ultralytics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/facewatch/toolkit/pkg/logging"
	"github.com/facewatch/toolkit/pkg/process"
	"github.com/facewatch/toolkit/pkg/training"
)

const (
	// Name is the framework name.
	Name = "ultralytics"
	// DefaultBinary is the CLI entry point installed by the ultralytics
	// Python package.
	DefaultBinary = "yolo"
)

// savedAsPattern matches the exporter's report of where it wrote a file.
var savedAsPattern = regexp.MustCompile(`saved as '([^']+)'`)

// exportSuffixes maps export formats to the name the exporter derives
// from the weights file.
var exportSuffixes = map[string]string{
	"onnx":        ".onnx",
	"torchscript": ".torchscript",
	"engine":      ".engine",
	"tflite":      "_saved_model",
	"openvino":    "_openvino_model",
	"saved_model": "_saved_model",
	"coreml":      ".mlpackage",
	"ncnn":        "_ncnn_model",
}

// CLI is the Ultralytics-based framework implementation.
type CLI struct {
	// log is the associated logger.
	log logging.Logger
	// binary is the yolo executable.
	binary string
	// output receives the framework's console output.
	output io.Writer
	// dir is the working directory for framework processes.
	dir string
}

// Option configures a CLI.
type Option func(*CLI)

// WithBinary overrides the yolo executable.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		c.binary = binary
	}
}

// WithDir runs the framework from dir.
func WithDir(dir string) Option {
	return func(c *CLI) {
		c.dir = dir
	}
}

// New creates a new Ultralytics-based framework.
func New(log logging.Logger, output io.Writer, opts ...Option) *CLI {
	c := &CLI{
		log:    log,
		binary: DefaultBinary,
		output: output,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ training.Framework = (*CLI)(nil)

// Name implements training.Framework.Name.
func (c *CLI) Name() string {
	return Name
}

// Load implements training.Framework.Load. Weights are resolved lazily by
// the framework, which downloads known pretrained checkpoints on first use.
func (c *CLI) Load(weights string) training.Model {
	return training.Model{Weights: weights}
}

// Train implements training.Framework.Train.
func (c *CLI) Train(ctx context.Context, model training.Model, config training.Config) (training.Model, error) {
	runDir := c.path(config.RunDir())
	args := []string{
		"detect", "train",
		"model=" + model.Weights,
		"data=" + config.Data,
		"epochs=" + strconv.Itoa(config.Epochs),
		"imgsz=" + strconv.Itoa(config.ImageSize),
		"device=" + config.Device,
		"batch=" + strconv.Itoa(config.Batch),
		"project=" + config.Project,
		"name=" + config.Name,
		"exist_ok=True",
	}

	follower, err := followResults(filepath.Join(runDir, resultsFile), c.log)
	if err != nil {
		c.log.Warnf("Epoch progress unavailable: %v", err)
	} else {
		defer follower.Stop()
	}

	if err := c.run(ctx, "yolo train", args); err != nil {
		return training.Model{}, err
	}

	for _, name := range []string{"best.pt", "last.pt"} {
		weights := filepath.Join(runDir, "weights", name)
		if _, err := os.Stat(weights); err == nil {
			return training.Model{Weights: weights}, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return training.Model{}, fmt.Errorf("checking %s: %w", weights, err)
		}
	}
	return training.Model{}, fmt.Errorf("%w in %s", training.ErrNoWeights, runDir)
}

// Evaluate implements training.Framework.Evaluate.
func (c *CLI) Evaluate(ctx context.Context, model training.Model, config training.Config) error {
	return c.run(ctx, "yolo val", []string{
		"detect", "val",
		"model=" + model.Weights,
		"data=" + config.Data,
		"imgsz=" + strconv.Itoa(config.ImageSize),
		"device=" + config.Device,
		"batch=" + strconv.Itoa(config.Batch),
	})
}

// Export implements training.Framework.Export.
func (c *CLI) Export(ctx context.Context, model training.Model, format string) (string, error) {
	var captured strings.Builder
	err := process.Run(ctx, process.Config{
		Name:   "yolo export",
		Binary: c.binary,
		Args:   []string{"export", "model=" + model.Weights, "format=" + format},
		Dir:    c.dir,
		Logger: c.log,
		Output: c.writer(&captured),
	})
	if err != nil {
		return "", err
	}

	if path := ParseExportPath(captured.String()); path != "" {
		return c.path(path), nil
	}
	path, ok := DeriveExportPath(model.Weights, format)
	if !ok {
		return "", fmt.Errorf("cannot determine where %s export was written", format)
	}
	return c.path(path), nil
}

func (c *CLI) run(ctx context.Context, name string, args []string) error {
	return process.Run(ctx, process.Config{
		Name:   name,
		Binary: c.binary,
		Args:   args,
		Dir:    c.dir,
		Logger: c.log,
		Output: c.output,
	})
}

func (c *CLI) writer(w io.Writer) io.Writer {
	if c.output == nil {
		return w
	}
	return io.MultiWriter(c.output, w)
}

// path resolves a framework-relative path against the working directory.
func (c *CLI) path(p string) string {
	if c.dir == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// ParseExportPath returns the last path the exporter reported writing, or
// the empty string.
func ParseExportPath(output string) string {
	matches := savedAsPattern.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1][1]
}

// DeriveExportPath predicts the export path from the weights path the
// way the exporter names its output.
func DeriveExportPath(weights, format string) (string, bool) {
	suffix, ok := exportSuffixes[strings.ToLower(format)]
	if !ok {
		return "", false
	}
	return strings.TrimSuffix(weights, filepath.Ext(weights)) + suffix, true
}
