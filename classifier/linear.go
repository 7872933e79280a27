package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"leaf-analyze-service/preprocess"
)

// artifact is the on-disk model format: an ordered class list plus a
// softmax linear layer over mean-pooled RGB features. Pooling divides
// the input into a pool x pool grid and averages each channel per cell,
// so the feature vector has 3*pool*pool entries.
type artifact struct {
	Version   int         `json:"version"`
	InputSize int         `json:"input_size"`
	Pool      int         `json:"pool"`
	Classes   []string    `json:"classes"`
	Weights   [][]float64 `json:"weights"`
	Bias      []float64   `json:"bias"`
}

// Linear is a classifier backed by a model artifact on disk. Weights are
// immutable after load and shared by all requests.
type Linear struct {
	classes []string
	pool    int
	weights [][]float64
	bias    []float64
}

// LoadLinear reads and validates a model artifact. Any failure here is
// reported to the caller, which decides whether to fall back to the
// stub classifier.
func LoadLinear(path string) (*Linear, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model artifact: %w", err)
	}

	var a artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse model artifact: %w", err)
	}

	if a.InputSize != preprocess.InputSize {
		return nil, fmt.Errorf("model input size %d, expected %d", a.InputSize, preprocess.InputSize)
	}
	if a.Pool <= 0 || preprocess.InputSize%a.Pool != 0 {
		return nil, fmt.Errorf("pool %d must evenly divide input size %d", a.Pool, preprocess.InputSize)
	}
	if len(a.Classes) < 2 {
		return nil, fmt.Errorf("model declares %d classes, need at least 2", len(a.Classes))
	}
	if len(a.Weights) != len(a.Classes) {
		return nil, fmt.Errorf("model has %d weight rows for %d classes", len(a.Weights), len(a.Classes))
	}
	if len(a.Bias) != len(a.Classes) {
		return nil, fmt.Errorf("model has %d bias terms for %d classes", len(a.Bias), len(a.Classes))
	}
	featureLen := 3 * a.Pool * a.Pool
	for i, row := range a.Weights {
		if len(row) != featureLen {
			return nil, fmt.Errorf("weight row %d has %d entries, expected %d", i, len(row), featureLen)
		}
	}

	return &Linear{
		classes: a.Classes,
		pool:    a.Pool,
		weights: a.Weights,
		bias:    a.Bias,
	}, nil
}

func (l *Linear) SourceName() string { return "Linear" }

// Classes returns the ordered raw class labels from the artifact.
func (l *Linear) Classes() []string {
	out := make([]string, len(l.classes))
	copy(out, l.classes)
	return out
}

// Classify runs the linear layer over pooled features and takes the
// arg-max of the softmax output. The computation is pure and
// deterministic for identical input bytes.
func (l *Linear) Classify(_ context.Context, t *preprocess.Tensor) (*Prediction, error) {
	if t == nil || t.Size != preprocess.InputSize {
		return nil, fmt.Errorf("%w: tensor shape mismatch", ErrInference)
	}

	features := l.poolFeatures(t)

	logits := make([]float64, len(l.classes))
	for i, row := range l.weights {
		sum := l.bias[i]
		for j, w := range row {
			sum += w * features[j]
		}
		logits[i] = sum
	}

	probs, err := softmax(logits)
	if err != nil {
		return nil, err
	}

	best := 0
	for i, p := range probs {
		if p > probs[best] {
			best = i
		}
	}

	dist := make(map[string]float64, len(l.classes))
	for i, c := range l.classes {
		dist[c] = probs[i]
	}

	return &Prediction{
		Index:         best,
		Class:         l.classes[best],
		Confidence:    probs[best],
		Probabilities: dist,
	}, nil
}

// poolFeatures averages each RGB channel over a pool x pool grid.
func (l *Linear) poolFeatures(t *preprocess.Tensor) []float64 {
	cell := t.Size / l.pool
	features := make([]float64, 3*l.pool*l.pool)
	for gy := 0; gy < l.pool; gy++ {
		for gx := 0; gx < l.pool; gx++ {
			var r, g, b float64
			for y := gy * cell; y < (gy+1)*cell; y++ {
				for x := gx * cell; x < (gx+1)*cell; x++ {
					r += float64(t.At(x, y, 0))
					g += float64(t.At(x, y, 1))
					b += float64(t.At(x, y, 2))
				}
			}
			n := float64(cell * cell)
			base := (gy*l.pool + gx) * 3
			features[base] = r / n
			features[base+1] = g / n
			features[base+2] = b / n
		}
	}
	return features
}

// softmax converts logits to a probability distribution, rejecting
// non-finite output instead of returning a partially valid vector.
func softmax(logits []float64) ([]float64, error) {
	max := logits[0]
	for _, v := range logits[1:] {
		if v > max {
			max = v
		}
	}

	var sum float64
	out := make([]float64, len(logits))
	for i, v := range logits {
		e := math.Exp(v - max)
		out[i] = e
		sum += e
	}
	if sum == 0 || math.IsNaN(sum) || math.IsInf(sum, 0) {
		return nil, fmt.Errorf("%w: non-finite softmax normalization", ErrInference)
	}
	for i := range out {
		out[i] /= sum
		if math.IsNaN(out[i]) || math.IsInf(out[i], 0) {
			return nil, fmt.Errorf("%w: non-finite probability at index %d", ErrInference, i)
		}
	}
	return out, nil
}
