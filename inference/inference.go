// Copyright 2026 Glyph Engine. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package inference is the public surface of snapshot-based prediction.
package inference

import (
	"github.com/glyph-ml/glyph/internal/inference"
	"github.com/glyph-ml/glyph/internal/nn"
)

// Predictor answers inference-only queries against the most recently
// published network snapshot. Safe for concurrent use.
type Predictor = inference.Predictor

// Prediction pairs a class index with its raw activation.
type Prediction = inference.Prediction

// NewPredictor creates a predictor seeded with a snapshot of net.
func NewPredictor(net *nn.Network) *Predictor {
	return inference.NewPredictor(net)
}
