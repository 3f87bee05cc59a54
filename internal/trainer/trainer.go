// Package trainer drives a Network over epochs of mini-batches, adapts
// the learning rate, applies early stopping, and reports progress.
//
// Training is strictly sequential: batches run in index order and each
// Learn call fully completes before the next begins. The loop checks
// its context between batches and between epochs, so a run can be
// canceled without tearing down the process.
package trainer

import (
	"context"
	"fmt"

	"github.com/glyph-ml/glyph/internal/dataset"
	"github.com/glyph-ml/glyph/internal/nn"
)

// Hooks are optional observation points for a training run. All of them
// may be nil and none of them affects control flow.
type Hooks struct {
	// EpochStart fires before the first batch of each epoch.
	EpochStart func(epoch, totalEpochs int)
	// EpochEnd fires after the epoch's evaluation pass.
	EpochEnd func(epoch, totalEpochs int, accuracy float64)
	// Publish receives a fresh parameter snapshot after every epoch.
	// Live-preview readers run inference against the snapshot; they
	// must never touch the live network the trainer is mutating.
	Publish func(net *nn.Network)
}

// Train runs mini-batch gradient descent on net until a stop condition
// fires and returns the resulting test accuracy in [0, 1].
//
// Every epoch processes trainSet in contiguous batches of
// cfg.BatchSize, then evaluates accuracy on testSet (fraction of
// samples whose Classify matches their Label). The schedule decays the
// learning rate on accuracy thresholds and stalls, and stops on target
// accuracy, exhausted patience, or cfg.MaxEpochs.
//
// All samples are shape-checked against the network before the first
// epoch; a bad sample aborts the run before any learning happens. No
// batch or epoch is ever retried — any failure aborts the whole run.
func Train(ctx context.Context, net *nn.Network, trainSet, testSet []nn.Sample, cfg Config, hooks Hooks) (float64, error) {
	if err := cfg.Validate(); err != nil {
		return 0, err
	}
	if len(trainSet) == 0 {
		return 0, fmt.Errorf("trainer: empty training set")
	}
	if len(testSet) == 0 {
		return 0, fmt.Errorf("trainer: empty test set")
	}
	if err := checkShapes(net, trainSet); err != nil {
		return 0, fmt.Errorf("trainer: training set: %w", err)
	}
	if err := checkShapes(net, testSet); err != nil {
		return 0, fmt.Errorf("trainer: test set: %w", err)
	}

	batches := dataset.Batches(trainSet, cfg.BatchSize)
	sched := newSchedule(cfg)

	for epoch := 1; epoch <= cfg.MaxEpochs; epoch++ {
		if hooks.EpochStart != nil {
			hooks.EpochStart(epoch, cfg.MaxEpochs)
		}

		for _, batch := range batches {
			if err := ctx.Err(); err != nil {
				return 0, fmt.Errorf("trainer: canceled: %w", err)
			}
			if err := net.Learn(batch, sched.rate); err != nil {
				return 0, fmt.Errorf("trainer: epoch %d: %w", epoch, err)
			}
		}

		accuracy, err := evaluate(net, testSet)
		if err != nil {
			return 0, fmt.Errorf("trainer: epoch %d evaluation: %w", epoch, err)
		}

		if hooks.EpochEnd != nil {
			hooks.EpochEnd(epoch, cfg.MaxEpochs, accuracy)
		}
		if hooks.Publish != nil {
			hooks.Publish(net.Snapshot())
		}

		if done, result := sched.observe(accuracy); done {
			return result, nil
		}

		if err := ctx.Err(); err != nil {
			return 0, fmt.Errorf("trainer: canceled: %w", err)
		}
	}

	return sched.best, nil
}

// evaluate returns the fraction of samples whose classification matches
// their recorded label.
func evaluate(net *nn.Network, samples []nn.Sample) (float64, error) {
	correct := 0
	for _, sample := range samples {
		prediction, err := net.Classify(sample.Input)
		if err != nil {
			return 0, err
		}
		if prediction == sample.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(samples)), nil
}

func checkShapes(net *nn.Network, samples []nn.Sample) error {
	for i, sample := range samples {
		if len(sample.Input) != net.InputSize() {
			return fmt.Errorf("sample %d: %w", i, &nn.ShapeError{
				Op: "Train", Got: len(sample.Input), Want: net.InputSize(),
			})
		}
		if len(sample.Expected) != net.OutputSize() {
			return fmt.Errorf("sample %d: %w", i, &nn.ShapeError{
				Op: "Train", Got: len(sample.Expected), Want: net.OutputSize(),
			})
		}
	}
	return nil
}
