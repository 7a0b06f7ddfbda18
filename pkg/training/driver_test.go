package training_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/facewatch/toolkit/pkg/artifact"
	"github.com/facewatch/toolkit/pkg/logging"
	"github.com/facewatch/toolkit/pkg/process"
	"github.com/facewatch/toolkit/pkg/training"
	"github.com/facewatch/toolkit/pkg/training/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type bufferPrinter struct {
	bytes.Buffer
}

func (b *bufferPrinter) Printf(format string, args ...any) { fmt.Fprintf(&b.Buffer, format, args...) }
func (b *bufferPrinter) Println(args ...any)               { fmt.Fprintln(&b.Buffer, args...) }

func newDriver(t *testing.T) (*training.Driver, *mocks.MockFramework, *bufferPrinter) {
	t.Helper()
	ctrl := gomock.NewController(t)
	framework := mocks.NewMockFramework(ctrl)
	framework.EXPECT().Name().Return("fake").AnyTimes()
	printer := &bufferPrinter{}
	return training.NewDriver(framework, logging.Discard(), printer), framework, printer
}

func TestDriverRunsPipeline(t *testing.T) {
	d, framework, printer := newDriver(t)
	config := training.DefaultConfig()

	exported := filepath.Join(t.TempDir(), "best.onnx")
	require.NoError(t, os.WriteFile(exported, []byte("graph"), 0o644))

	pretrained := training.Model{Weights: "yolo11n.pt"}
	trained := training.Model{Weights: "runs/detect/train/weights/best.pt"}
	gomock.InOrder(
		framework.EXPECT().Load("yolo11n.pt").Return(pretrained),
		framework.EXPECT().Train(gomock.Any(), pretrained, config).Return(trained, nil),
		framework.EXPECT().Export(gomock.Any(), trained, "onnx").Return(exported, nil),
	)
	// Evaluate is disabled by default and must not be called.

	a, err := d.Run(context.Background(), config)
	require.NoError(t, err)
	assert.Equal(t, exported, a.Path)
	assert.Equal(t, artifact.MediaTypeONNX, a.MediaType)
	assert.FileExists(t, exported+".descriptor.json")
	assert.Contains(t, printer.String(), "Exported onnx model to "+exported)
}

func TestDriverEvaluatesWhenEnabled(t *testing.T) {
	d, framework, _ := newDriver(t)
	config := training.DefaultConfig()
	config.Evaluate = true

	exported := filepath.Join(t.TempDir(), "best.onnx")
	require.NoError(t, os.WriteFile(exported, []byte("graph"), 0o644))

	trained := training.Model{Weights: "best.pt"}
	gomock.InOrder(
		framework.EXPECT().Load(gomock.Any()).Return(training.Model{Weights: "yolo11n.pt"}),
		framework.EXPECT().Train(gomock.Any(), gomock.Any(), config).Return(trained, nil),
		framework.EXPECT().Evaluate(gomock.Any(), trained, config).Return(nil),
		framework.EXPECT().Export(gomock.Any(), trained, "onnx").Return(exported, nil),
	)

	_, err := d.Run(context.Background(), config)
	require.NoError(t, err)
}

func TestDriverTrainingFailureSkipsExport(t *testing.T) {
	d, framework, printer := newDriver(t)
	config := training.DefaultConfig()
	config.Data = "./missing/data.yaml"

	failure := &process.ExitError{
		Name:   "yolo train",
		Code:   1,
		Output: "FileNotFoundError: Dataset './missing/data.yaml' images not found",
		Err:    errors.New("exit status 1"),
	}
	framework.EXPECT().Load(gomock.Any()).Return(training.Model{Weights: "yolo11n.pt"})
	framework.EXPECT().Train(gomock.Any(), gomock.Any(), config).Return(training.Model{}, failure)
	// No Export expectation: reaching it fails the test.

	_, err := d.Run(context.Background(), config)
	require.Error(t, err)
	assert.ErrorIs(t, err, failure)
	code, ok := process.ExitCode(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.NotContains(t, printer.String(), "Exported")
}

func TestDriverEvaluationFailure(t *testing.T) {
	d, framework, _ := newDriver(t)
	config := training.DefaultConfig()
	config.Evaluate = true

	framework.EXPECT().Load(gomock.Any()).Return(training.Model{Weights: "yolo11n.pt"})
	framework.EXPECT().Train(gomock.Any(), gomock.Any(), gomock.Any()).Return(training.Model{Weights: "best.pt"}, nil)
	framework.EXPECT().Evaluate(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("CUDA out of memory"))

	_, err := d.Run(context.Background(), config)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "evaluation failed")
}

func TestDriverExportedFileMissing(t *testing.T) {
	d, framework, _ := newDriver(t)
	config := training.DefaultConfig()

	framework.EXPECT().Load(gomock.Any()).Return(training.Model{Weights: "yolo11n.pt"})
	framework.EXPECT().Train(gomock.Any(), gomock.Any(), gomock.Any()).Return(training.Model{Weights: "best.pt"}, nil)
	framework.EXPECT().Export(gomock.Any(), gomock.Any(), "onnx").Return(filepath.Join(t.TempDir(), "gone.onnx"), nil)

	_, err := d.Run(context.Background(), config)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDefaultConfig(t *testing.T) {
	config := training.DefaultConfig()
	assert.Equal(t, "yolo11n.pt", config.Weights)
	assert.Equal(t, "./wider_face_dataset/data.yaml", config.Data)
	assert.Equal(t, 5, config.Epochs)
	assert.Equal(t, 640, config.ImageSize)
	assert.Equal(t, "0", config.Device)
	assert.Equal(t, 8, config.Batch)
	assert.Equal(t, "onnx", config.Format)
	assert.False(t, config.Evaluate)
	assert.Equal(t, filepath.Join("runs", "detect", "train"), config.RunDir())
}
