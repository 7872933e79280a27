// Package stubmodel provides a no-artifact classifier used when no
// trained model is present at startup. It keeps the rest of the service
// (and its tests) running with the exact same response shape as real
// inference.
package stubmodel

import (
	"context"
	"math/rand"
	"sync"

	"leaf-analyze-service/classifier"
	"leaf-analyze-service/preprocess"
)

// Confidence band for simulated predictions.
const (
	confidenceFloor = 0.78
	confidenceSpan  = 0.19
)

// Classifier picks one of the canonical classes pseudo-randomly. The
// source is seedable so tests can pin the sequence; production uses a
// time-based seed.
type Classifier struct {
	classes []string

	mu  sync.Mutex
	rng *rand.Rand
}

// New builds a stub classifier over the given ordered raw class labels.
func New(classes []string, seed int64) *Classifier {
	cp := make([]string, len(classes))
	copy(cp, classes)
	return &Classifier{
		classes: cp,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (c *Classifier) SourceName() string { return "Stub" }

// Classes returns the ordered raw class labels.
func (c *Classifier) Classes() []string {
	out := make([]string, len(c.classes))
	copy(out, c.classes)
	return out
}

// Classify ignores the tensor content and returns a simulated
// prediction: a random class with a confidence in the fixed band and a
// full distribution that sums to 1.
func (c *Classifier) Classify(_ context.Context, _ *preprocess.Tensor) (*classifier.Prediction, error) {
	c.mu.Lock()
	idx := c.rng.Intn(len(c.classes))
	conf := confidenceFloor + c.rng.Float64()*confidenceSpan
	c.mu.Unlock()

	rest := (1 - conf) / float64(len(c.classes)-1)
	dist := make(map[string]float64, len(c.classes))
	for i, cls := range c.classes {
		if i == idx {
			dist[cls] = conf
		} else {
			dist[cls] = rest
		}
	}

	return &classifier.Prediction{
		Index:         idx,
		Class:         c.classes[idx],
		Confidence:    conf,
		Probabilities: dist,
	}, nil
}
