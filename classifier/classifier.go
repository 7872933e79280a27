// Package classifier defines the image classifier abstraction used by
// the inference service and its model-artifact-backed implementation.
package classifier

import (
	"context"
	"errors"

	"leaf-analyze-service/preprocess"
)

// ErrInference marks unexpected numeric or runtime faults during a
// classification call (NaN output, out-of-range class index). Callers
// map it to a server error.
var ErrInference = errors.New("inference failed")

// Prediction is the outcome of classifying one image.
type Prediction struct {
	// Index into the model's ordered class list.
	Index int
	// Class is the raw model label at Index (e.g. "Common_Rust").
	Class string
	// Confidence is the probability mass assigned to Class, in [0,1].
	Confidence float64
	// Probabilities is the full output distribution keyed by raw label.
	Probabilities map[string]float64
}

// Classifier turns a preprocessed tensor into a prediction.
// Implementations must be safe for concurrent use; the loaded weights
// are read-only after construction.
type Classifier interface {
	Classify(ctx context.Context, t *preprocess.Tensor) (*Prediction, error)
	// Classes returns the model's ordered raw class labels.
	Classes() []string
	// SourceName returns a short implementation label for logs.
	SourceName() string
}
