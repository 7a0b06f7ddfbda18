package training

import (
	"fmt"
	"path/filepath"
)

const (
	DefaultWeights   = "yolo11n.pt"
	DefaultData      = "./wider_face_dataset/data.yaml"
	DefaultEpochs    = 5
	DefaultImageSize = 640
	DefaultDevice    = "0"
	// DefaultBatch is deliberately small; raise it once a run is stable.
	DefaultBatch   = 8
	DefaultFormat  = "onnx"
	DefaultProject = "runs/detect"
	DefaultName    = "train"
)

// Config is the fixed configuration of one train/export run. It is passed
// to the framework as is; nothing here is validated.
type Config struct {
	// Weights names the pretrained checkpoint to start from.
	Weights string `yaml:"weights"`
	// Data is the path of the dataset descriptor.
	Data string `yaml:"data"`
	// Epochs is the number of training epochs.
	Epochs int `yaml:"epochs"`
	// ImageSize is the square input resolution.
	ImageSize int `yaml:"imgsz"`
	// Device selects the accelerator ("0", "0,1", "cpu", "mps").
	Device string `yaml:"device"`
	// Batch is the batch size.
	Batch int `yaml:"batch"`
	// Format is the export format.
	Format string `yaml:"format"`
	// Evaluate runs validation between training and export.
	Evaluate bool `yaml:"evaluate"`
	// Project and Name place the run directory at Project/Name.
	Project string `yaml:"project"`
	Name    string `yaml:"name"`
}

// DefaultConfig returns the configuration of the face detector run.
func DefaultConfig() Config {
	return Config{
		Weights:   DefaultWeights,
		Data:      DefaultData,
		Epochs:    DefaultEpochs,
		ImageSize: DefaultImageSize,
		Device:    DefaultDevice,
		Batch:     DefaultBatch,
		Format:    DefaultFormat,
		Evaluate:  false,
		Project:   DefaultProject,
		Name:      DefaultName,
	}
}

// RunDir is the directory the framework writes the run into.
func (c Config) RunDir() string {
	return filepath.Join(c.Project, c.Name)
}

func (c Config) String() string {
	return fmt.Sprintf("weights=%s data=%s epochs=%d imgsz=%d device=%s batch=%d",
		c.Weights, c.Data, c.Epochs, c.ImageSize, c.Device, c.Batch)
}
