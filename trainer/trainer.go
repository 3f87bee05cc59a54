// Copyright 2026 Glyph Engine. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package trainer is the public surface of the glyph training loop.
package trainer

import (
	"context"

	"github.com/glyph-ml/glyph/internal/nn"
	"github.com/glyph-ml/glyph/internal/trainer"
)

// Config holds every knob of the training loop.
type Config = trainer.Config

// Overrides captures CLI-supplied values layered on top of a file config.
type Overrides = trainer.Overrides

// Hooks are optional observation points for a training run.
type Hooks = trainer.Hooks

// LoadConfig reads and validates a Config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	return trainer.LoadConfig(path)
}

// Train runs mini-batch gradient descent on net until a stop condition
// fires and returns the resulting test accuracy in [0, 1].
func Train(ctx context.Context, net *nn.Network, trainSet, testSet []nn.Sample, cfg Config, hooks Hooks) (float64, error) {
	return trainer.Train(ctx, net, trainSet, testSet, cfg, hooks)
}
