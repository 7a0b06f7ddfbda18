package commands

import (
	"github.com/facewatch/toolkit/pkg/training"
	"github.com/facewatch/toolkit/pkg/training/ultralytics"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newTrainCmd() *cobra.Command {
	var (
		flagConfig training.Config
		binary     string
	)
	c := &cobra.Command{
		Use:   "train",
		Short: "Fine-tune the face detector and export it",
		Long: `Loads the pretrained detection checkpoint, trains it on the face dataset,
optionally evaluates it, and exports the result (ONNX by default). A failure
of the training framework exits with the framework's exit status.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := sessionFrom(cmd.Context())
			config := mergeTrainFlags(cmd.Flags(), s.settings.Train, flagConfig)
			s.log.Debugf("Training configuration: %s", config)

			framework := newFramework(s.log, cmd.OutOrStdout(), binary)
			driver := training.NewDriver(framework, s.log, asPrinter(cmd))
			if _, err := driver.Run(cmd.Context(), config); err != nil {
				return handleError(err, "train failed")
			}
			return nil
		},
	}

	defaults := training.DefaultConfig()
	f := c.Flags()
	f.StringVar(&flagConfig.Weights, "weights", defaults.Weights, "Pretrained checkpoint to start from")
	f.StringVar(&flagConfig.Data, "data", defaults.Data, "Dataset description file")
	f.IntVar(&flagConfig.Epochs, "epochs", defaults.Epochs, "Number of training epochs")
	f.IntVar(&flagConfig.ImageSize, "imgsz", defaults.ImageSize, "Training image size in pixels")
	f.StringVar(&flagConfig.Device, "device", defaults.Device, "Compute device (GPU index or cpu)")
	f.IntVar(&flagConfig.Batch, "batch", defaults.Batch, "Batch size")
	f.StringVar(&flagConfig.Format, "format", defaults.Format, "Export format")
	f.BoolVar(&flagConfig.Evaluate, "evaluate", defaults.Evaluate, "Validate the trained model before export")
	f.StringVar(&flagConfig.Project, "project", defaults.Project, "Directory that holds training runs")
	f.StringVar(&flagConfig.Name, "name", defaults.Name, "Name of the training run")
	f.StringVar(&binary, "yolo", ultralytics.DefaultBinary, "Path to the yolo executable")
	return c
}

// mergeTrainFlags overlays the flags the user set on base.
func mergeTrainFlags(flags *pflag.FlagSet, base, set training.Config) training.Config {
	config := base
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "weights":
			config.Weights = set.Weights
		case "data":
			config.Data = set.Data
		case "epochs":
			config.Epochs = set.Epochs
		case "imgsz":
			config.ImageSize = set.ImageSize
		case "device":
			config.Device = set.Device
		case "batch":
			config.Batch = set.Batch
		case "format":
			config.Format = set.Format
		case "evaluate":
			config.Evaluate = set.Evaluate
		case "project":
			config.Project = set.Project
		case "name":
			config.Name = set.Name
		}
	})
	return config
}
