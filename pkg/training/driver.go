package training

import (
	"context"
	"fmt"

	"github.com/facewatch/toolkit/pkg/artifact"
	"github.com/facewatch/toolkit/pkg/logging"
	"github.com/facewatch/toolkit/pkg/status"
)

// Driver runs the train/export pipeline end to end.
type Driver struct {
	// framework does the actual work.
	framework Framework
	// log is the associated logger.
	log logging.Logger
	// printer receives user-facing progress.
	printer status.Printer
}

// NewDriver creates a Driver over framework.
func NewDriver(framework Framework, log logging.Logger, printer status.Printer) *Driver {
	return &Driver{
		framework: framework,
		log:       log,
		printer:   printer,
	}
}

// Run loads config.Weights, trains, evaluates if enabled, exports and
// describes the exported artifact. Any framework failure is returned as
// is; a failed step never reaches the steps after it, so a failed
// training run leaves no exported artifact.
func (d *Driver) Run(ctx context.Context, config Config) (artifact.Artifact, error) {
	log := d.log.WithField("framework", d.framework.Name())

	model := d.framework.Load(config.Weights)
	log.Infof("Loaded %s", model.Weights)

	d.printer.Printf("Training %s (%s)\n", model.Weights, config)
	trained, err := d.framework.Train(ctx, model, config)
	if err != nil {
		return artifact.Artifact{}, fmt.Errorf("training failed: %w", err)
	}
	log.Infof("Trained weights at %s", trained.Weights)

	if config.Evaluate {
		if err := d.framework.Evaluate(ctx, trained, config); err != nil {
			return artifact.Artifact{}, fmt.Errorf("evaluation failed: %w", err)
		}
	}

	path, err := d.framework.Export(ctx, trained, config.Format)
	if err != nil {
		return artifact.Artifact{}, fmt.Errorf("export failed: %w", err)
	}

	exported, err := artifact.Describe(path, config.Format)
	if err != nil {
		return artifact.Artifact{}, err
	}
	descriptorPath, err := artifact.WriteDescriptor(exported)
	if err != nil {
		log.Warnf("Could not write descriptor: %v", err)
	} else {
		log.Debugf("Wrote descriptor %s", descriptorPath)
	}

	d.printer.Printf("Exported %s model to %s (%s)\n", exported.Format, exported.Path, exported.Summary())
	return exported, nil
}
