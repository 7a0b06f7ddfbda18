// Package training drives an external detection framework through
// load, train, optional evaluation and export.
package training

import (
	"context"
	"errors"
)

// ErrNoWeights is returned when training finished but left no weights
// file behind.
var ErrNoWeights = errors.New("training produced no weights")

// Model is a handle on a set of weights owned by the framework. Its
// lifecycle is load, train, export; the contents are opaque here.
type Model struct {
	// Weights is the checkpoint path or the name of a pretrained
	// checkpoint the framework knows how to fetch.
	Weights string
}

// Framework is the external training toolkit.
//
//go:generate mockgen -source=framework.go -destination=mocks/mock_framework.go -package=mocks Framework
type Framework interface {
	// Name is the framework's display name.
	Name() string
	// Load returns a handle on the named weights. It does not check that
	// they exist.
	Load(weights string) Model
	// Train fine-tunes model and returns a handle on the trained weights.
	// It blocks until training ends.
	Train(ctx context.Context, model Model, config Config) (Model, error)
	// Evaluate validates model on the dataset's validation split.
	Evaluate(ctx context.Context, model Model, config Config) error
	// Export serializes model to format and returns the artifact path.
	Export(ctx context.Context, model Model, format string) (string, error)
}
