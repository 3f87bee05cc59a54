// Package inference serves classification against a published snapshot
// of a network's parameters.
//
// Training mutates weights in place with no locking, so a live preview
// reading the training network directly would race and could observe a
// layer mid-update. Predictor closes that hole with a published-pointer
// scheme: Update stores a deep snapshot atomically, and every read runs
// against the snapshot current at call time. Readers may be one epoch
// stale; they are never torn.
package inference

import (
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/glyph-ml/glyph/internal/nn"
)

// Predictor answers inference-only queries against the most recently
// published network snapshot. Safe for concurrent use.
type Predictor struct {
	net atomic.Pointer[nn.Network]
}

// NewPredictor creates a predictor seeded with a snapshot of net.
func NewPredictor(net *nn.Network) *Predictor {
	p := &Predictor{}
	p.Update(net)
	return p
}

// Update publishes a fresh snapshot of net. Intended as the trainer's
// Publish hook; in-flight reads keep the snapshot they started with.
func (p *Predictor) Update(net *nn.Network) {
	p.net.Store(net.Snapshot())
}

// Outputs runs a forward pass and returns the raw sigmoid activations.
// The outputs are independent per class, not a normalized distribution.
func (p *Predictor) Outputs(input []float64) ([]float64, error) {
	return p.net.Load().Forward(input)
}

// Classify returns the index of the most activated output node.
func (p *Predictor) Classify(input []float64) (int, error) {
	return p.net.Load().Classify(input)
}

// Prediction pairs a class index with its raw activation.
type Prediction struct {
	Class int
	Score float64
}

// TopK returns the k highest-scoring classes in descending score order.
// Equal scores rank the lower class index first. k larger than the
// class count is clamped; k < 1 is an error.
func (p *Predictor) TopK(input []float64, k int) ([]Prediction, error) {
	if k < 1 {
		return nil, fmt.Errorf("inference: k must be >= 1 (got %d)", k)
	}

	outputs, err := p.Outputs(input)
	if err != nil {
		return nil, err
	}

	predictions := make([]Prediction, len(outputs))
	for i, score := range outputs {
		predictions[i] = Prediction{Class: i, Score: score}
	}
	// Stable sort keeps the lower class index first on equal scores.
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].Score > predictions[j].Score
	})

	if k > len(predictions) {
		k = len(predictions)
	}
	return predictions[:k], nil
}
