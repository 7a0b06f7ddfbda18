// Package artifact describes exported model files as OCI content
// descriptors.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/opencontainers/go-digest"
	v1 "github.com/opencontainers/image-spec/specs-go/v1"
)

const (
	// mediaTypePrefix is the prefix for all exported model media types.
	mediaTypePrefix = "application/vnd.facewatch.detector"

	// MediaTypeONNX indicates an ONNX graph with embedded weights.
	MediaTypeONNX = mediaTypePrefix + ".onnx"

	// MediaTypeTorchScript indicates a TorchScript archive.
	MediaTypeTorchScript = mediaTypePrefix + ".torchscript"

	// MediaTypeTensorRT indicates a serialized TensorRT engine.
	MediaTypeTensorRT = mediaTypePrefix + ".engine"

	// MediaTypeDir indicates a directory-shaped export (OpenVINO,
	// SavedModel, CoreML packages).
	MediaTypeDir = mediaTypePrefix + ".dir"

	// descriptorSuffix is appended to the artifact path to name its
	// descriptor file.
	descriptorSuffix = ".descriptor.json"

	// AnnotationFormat records the export format name.
	AnnotationFormat = "com.facewatch.detector.format"
)

// ErrDirectory is returned when a file-only operation is applied to a
// directory artifact.
var ErrDirectory = errors.New("artifact is a directory")

var mediaTypes = map[string]string{
	"onnx":        MediaTypeONNX,
	"torchscript": MediaTypeTorchScript,
	"engine":      MediaTypeTensorRT,
}

// Artifact is an exported model on disk.
type Artifact struct {
	// Path is where the framework wrote the export.
	Path string `json:"path"`
	// Format is the export format name (e.g. "onnx").
	Format string `json:"format"`
	// MediaType classifies the artifact.
	MediaType string `json:"mediaType"`
	// Size is the file size, or the total size of a directory export.
	Size int64 `json:"size"`
	// Digest is the sha256 of the file; empty for directories.
	Digest digest.Digest `json:"digest,omitempty"`
	// Created is the artifact's modification time.
	Created time.Time `json:"created"`
	// Dir is set for directory-shaped exports.
	Dir bool `json:"dir,omitempty"`
}

// Describe stats and digests the artifact at path.
func Describe(path, format string) (Artifact, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("exported artifact: %w", err)
	}

	a := Artifact{
		Path:    path,
		Format:  format,
		Created: info.ModTime().UTC(),
	}
	if info.IsDir() {
		a.Dir = true
		a.MediaType = MediaTypeDir
		a.Size, err = dirSize(path)
		if err != nil {
			return Artifact{}, fmt.Errorf("sizing %s: %w", path, err)
		}
		return a, nil
	}

	a.Size = info.Size()
	a.MediaType = mediaTypeFor(format)

	f, err := os.Open(path)
	if err != nil {
		return Artifact{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	a.Digest, err = digest.FromReader(f)
	if err != nil {
		return Artifact{}, fmt.Errorf("digesting %s: %w", path, err)
	}
	return a, nil
}

func mediaTypeFor(format string) string {
	if mt, ok := mediaTypes[strings.ToLower(format)]; ok {
		return mt
	}
	return mediaTypePrefix + "." + strings.ToLower(format)
}

func dirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			info, err := d.Info()
			if err != nil {
				return err
			}
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// HumanSize renders Size for display.
func (a Artifact) HumanSize() string {
	return units.HumanSize(float64(a.Size))
}

// Summary is a one-line description for terminal output.
func (a Artifact) Summary() string {
	if a.Digest == "" {
		return a.HumanSize()
	}
	return a.HumanSize() + ", " + a.Digest.String()
}

// Descriptor returns the OCI content descriptor of a file artifact.
func (a Artifact) Descriptor() (v1.Descriptor, error) {
	if a.Dir {
		return v1.Descriptor{}, ErrDirectory
	}
	return v1.Descriptor{
		MediaType: a.MediaType,
		Digest:    a.Digest,
		Size:      a.Size,
		Annotations: map[string]string{
			v1.AnnotationTitle:   filepath.Base(a.Path),
			v1.AnnotationCreated: a.Created.Format(time.RFC3339),
			AnnotationFormat:     a.Format,
		},
	}, nil
}

// DescriptorPath is where WriteDescriptor stores a's descriptor.
func (a Artifact) DescriptorPath() string {
	return a.Path + descriptorSuffix
}

// WriteDescriptor writes a's descriptor as JSON next to the artifact and
// returns its path.
func WriteDescriptor(a Artifact) (string, error) {
	desc, err := a.Descriptor()
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(desc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling descriptor: %w", err)
	}
	path := a.DescriptorPath()
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("writing descriptor: %w", err)
	}
	return path, nil
}

// ReadDescriptor loads the descriptor written next to the artifact at
// path and checks that the file still matches it.
func ReadDescriptor(path string) (v1.Descriptor, error) {
	var desc v1.Descriptor
	data, err := os.ReadFile(path + descriptorSuffix)
	if err != nil {
		return desc, err
	}
	if err := json.Unmarshal(data, &desc); err != nil {
		return desc, fmt.Errorf("parsing descriptor: %w", err)
	}
	if err := desc.Digest.Validate(); err != nil {
		return desc, fmt.Errorf("invalid descriptor digest: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return desc, err
	}
	defer f.Close()
	verifier := desc.Digest.Verifier()
	n, err := io.Copy(verifier, f)
	if err != nil {
		return desc, fmt.Errorf("reading %s: %w", path, err)
	}
	if n != desc.Size || !verifier.Verified() {
		return desc, fmt.Errorf("%s does not match its descriptor", path)
	}
	return desc, nil
}
