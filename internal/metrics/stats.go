// Package metrics summarizes how a trained network performs on a
// held-out sample set.
package metrics

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/glyph-ml/glyph/internal/nn"
)

// Summary describes one evaluation pass.
type Summary struct {
	Samples  int
	Correct  int
	Accuracy float64 // Correct / Samples
	MeanCost float64 // mean per-sample squared-error cost
	StdCost  float64 // sample standard deviation of the cost
}

// Evaluate classifies every sample and aggregates accuracy and cost
// statistics. Samples keep their load-time labels; a sample without a
// label (-1) can never count as correct.
func Evaluate(net *nn.Network, samples []nn.Sample) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, fmt.Errorf("metrics: no samples to evaluate")
	}

	costs := make([]float64, len(samples))
	correct := 0
	for i, sample := range samples {
		prediction, err := net.Classify(sample.Input)
		if err != nil {
			return Summary{}, err
		}
		if prediction == sample.Label {
			correct++
		}

		cost, err := net.Cost(sample)
		if err != nil {
			return Summary{}, err
		}
		costs[i] = cost
	}

	mean, std := stat.MeanStdDev(costs, nil)
	return Summary{
		Samples:  len(samples),
		Correct:  correct,
		Accuracy: float64(correct) / float64(len(samples)),
		MeanCost: mean,
		StdCost:  std,
	}, nil
}
